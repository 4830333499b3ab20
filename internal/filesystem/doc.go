/*
Package filesystem provides the low-level file access used to load the
thumbnailer cache: NFS-resilient open and stat, read-only memory mapping,
and a bounded full-file read for platforms or files that cannot be mapped.

# Retry Behavior

OpenWithRetry and StatWithRetry retry only on ESTALE (stale NFS file
handle) with exponential backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately. Retry metrics are reported through the
Observer installed with SetObserver.

# Mapping

	data, err := filesystem.Map(f, info.Size())
	if err != nil {
	    data, err = filesystem.ReadFull(f, info.Size())
	}

Map uses a shared read-only mapping; it remains valid after the file is
closed and must be released with Unmap. On non-Unix platforms Map always
returns ErrMapUnsupported.
*/
package filesystem
