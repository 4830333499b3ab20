// Package mediatypes maps file names to MIME types and tells which types
// have an in-process thumbnail decoder.
//
// It has no dependencies beyond the standard library so every other
// package can import it.
//
//	mime := mediatypes.MimeTypeFor("holiday.JPG") // "image/jpeg"
//	if !mediatypes.IsBuiltinImage(mime) {
//	    // needs an external thumbnailer
//	}
package mediatypes
