// Package middleware provides HTTP middleware for the thumbnailer daemon.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - Configurable filtering for health checks and scrape endpoints
package middleware
