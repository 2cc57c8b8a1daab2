package offline

import "errors"

var (
	// ErrStorage wraps any failure reading or writing the durable queue.
	ErrStorage = errors.New("offline: storage error")
	// ErrSyncInProgress is returned when a sync is requested while one runs.
	ErrSyncInProgress = errors.New("offline: sync already in progress")
)
