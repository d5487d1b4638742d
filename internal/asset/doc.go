// Package asset defines the media records easel tracks: assets produced by
// uploads and pipeline steps, canvases binding a workspace slot to an asset,
// and gallery images promoted out of the working set.
//
// Assets are immutable once created; only the classification fields
// (Category, Subcategory) may be patched afterwards. IDs are assigned once
// and never reused.
package asset
