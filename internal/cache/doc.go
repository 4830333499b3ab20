/*
Package cache loads and maintains the thumbnailer cache, a versioned binary
file that maps MIME types to thumbnailer command lines.

The package does not interpret the lookup table. It acquires the file
(memory mapped, or copied into memory when mapping is unavailable),
validates the header and keeps the loaded image in sync with the disk.

# File Format

	offset 0   uint32 big-endian  major version (1)
	offset 4   uint32 big-endian  minor version (0)
	offset 8   uint32 x2          reserved
	offset 16  ...                lookup table

Files shorter than 16 bytes, files that cannot be read, and files with any
other version are replaced by a static 16-byte fallback that reports
version 1.0 and an empty table. Installing the fallback requests a
regeneration.

# Events

Every state transition goes through HandleEvent:

	EventChanged         reload the file
	EventDeleted         run the update helper
	EventRegenerateTick  run the update helper (every 5 minutes by default)
	EventHelperExited    exit code 33 re-delivers EventChanged; anything else is ignored

Only one helper runs at a time. Requests while it runs are dropped and the
periodic tick acts as the backstop.

# Usage

	c := cache.New(cache.Config{
	    Path:       "/var/cache/thumbnailers.cache",
	    HelperPath: "/usr/libexec/thumbnailer-cache-update",
	}, cache.WithObserver(metrics.NewCacheObserver()))
	if err := c.Start(ctx); err != nil {
	    return err
	}
	defer c.Close()

	c.View(func(b cache.Blob) {
	    lookup(b.Bytes())
	})

Readers must use View or Snapshot; both take the same lock as Reload, so a
reader sees either the old or the new blob, never a torn state.
*/
package cache
