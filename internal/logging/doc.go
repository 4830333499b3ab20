// Package logging provides the leveled logger used by the thumbnailer
// daemon and its cache update helper.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (cache loads, watcher events)
//   - INFO: General operational messages
//   - WARN: Recovered failures such as a fallback cache or a failed helper spawn
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. SetLevel overrides both.
package logging
