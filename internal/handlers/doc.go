// Package handlers provides the HTTP handlers of the thumbnailer daemon.
//
// It includes handlers for:
//   - Health, liveness and readiness checks
//   - Version and build information
//   - Cache inspection, reload and regeneration
//   - Thumbnail generation for built-in image types
package handlers
