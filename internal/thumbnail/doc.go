// Package thumbnail scales images to the standard thumbnail flavors.
//
// Only formats with an in-process decoder (JPEG, PNG, GIF, BMP, TIFF,
// WebP) are handled; other types need an external thumbnailer from the
// thumbnailer cache and yield ErrNoThumbnailer.
package thumbnail
