// Command easel is the command-line surface of the easel media pipeline.
// It drives step execution, the asset library, canvases, and the gallery
// against a local state database.
package main
