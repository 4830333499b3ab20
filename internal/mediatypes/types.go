package mediatypes

import (
	"path/filepath"
	"strings"
)

// Fallback MIME type for unrecognized extensions.
const OctetStream = "application/octet-stream"

// MimeTypes maps lowercase file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".svg":  "image/svg+xml",
	".heic": "image/heic",
	".pdf":  "application/pdf",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// builtinImages are decoded in-process; everything else needs an external
// thumbnailer registered in the thumbnailer cache.
var builtinImages = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
	"image/tiff": true,
}

// MimeTypeFor returns the MIME type for a file name based on its extension,
// or OctetStream.
func MimeTypeFor(name string) string {
	if mime, ok := MimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return OctetStream
}

// IsBuiltinImage reports whether mime can be thumbnailed without an
// external thumbnailer.
func IsBuiltinImage(mime string) bool {
	return builtinImages[mime]
}
