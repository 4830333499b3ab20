// Package main provides the entry point for the thumbnailer daemon.
//
// The daemon keeps the thumbnailer cache file loaded and current, and
// serves thumbnails for built-in image types over HTTP.
//
// # Application Lifecycle
//
//  1. Configuration Loading: reads environment variables, creates the cache
//     directory and resolves the update helper
//  2. Cache Start: loads the cache file (memory-mapped, or read into memory),
//     falling back to a header-only cache and spawning the update helper
//     when the file is missing or invalid
//  3. Background Services: a periodic regeneration timer and an fsnotify
//     watch on the cache file's directory
//  4. HTTP Server Setup: routes, logging and metrics middleware
//  5. Graceful Shutdown: SIGINT/SIGTERM stops the servers, then closes the
//     cache
//
// # Cache Lifecycle
//
// Deleting the cache file, or the regeneration timer firing, spawns the
// update helper at lowered priority. Only one helper runs at a time. A
// helper exit status of 33 means the file was rewritten and triggers a
// reload; any other status is left to the next timer tick. Changes to the
// file reload it in place.
//
// # HTTP Server
//
//  1. Main Server (default port 8080):
//     - /health, /healthz, /livez, /readyz, /version
//     - GET /api/cache, POST /api/cache/reload, POST /api/cache/regenerate
//     - GET /api/thumbnail?path=/abs/file.jpg&flavor=normal|large
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/health)
//
// See [thumbnailer/internal/startup] for the environment variables.
package main
