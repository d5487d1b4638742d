// Package mask canonicalizes user-painted edit masks before they are sent to
// an inpainting provider.
//
// The canonical form is an 8-bit grayscale raster where white marks the
// region to edit and black the region to preserve. Normalization applies
// optional padding (dilation) and feathering (edge blur) and produces a
// quality report with coverage metrics, warnings, and suggestions. The
// report's validity flag is advisory; the submit path decides whether to
// enforce it.
package mask
