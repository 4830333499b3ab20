/*
Package workers sizes the thumbnail worker pool.

Go 1.19+ sets GOMAXPROCS from the container CPU limit, while
runtime.NumCPU still reports host CPUs, so sizing is based on GOMAXPROCS:

	sem := semaphore.NewWeighted(int64(workers.ForMixed(8)))

	if err := sem.Acquire(ctx, 1); err != nil {
	    return err
	}
	defer sem.Release(1)

Operators can override the computed size with THUMBNAIL_WORKERS; the limit
passed to Count still caps the override.
*/
package workers
