// Command thumbnailer-cache-update rebuilds the thumbnailer cache file.
//
// The thumbnailer daemon runs it without arguments whenever the cache file
// is deleted, fails to load, or the regeneration interval elapses. It
// writes a header-only cache for the supported version when the file is
// missing or invalid, replacing it atomically with a rename.
//
// Usage:
//
//	thumbnailer-cache-update [status]
//
// Exit status:
//
//	33  the cache file was rewritten; the daemon reloads it
//	0   the cache file was already valid
//	1   an error occurred
//
// When standard output is a terminal a one-line summary is printed.
//
// Environment:
//
//	CACHE_FILE - Path to the cache file (default: $XDG_CACHE_HOME/thumbnailers.cache)
package main
