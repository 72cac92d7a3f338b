package realtime

import "errors"

var (
	// ErrBackendUnavailable is returned by write operations when no remote
	// document backend is configured. Callers degrade to local mock data.
	ErrBackendUnavailable = errors.New("realtime: document backend not configured")

	// ErrWriteFailed wraps create/update/remove rejections from the backend.
	ErrWriteFailed = errors.New("realtime: document write failed")

	// ErrUnknownCollection is returned for collection names outside the
	// synchronized set.
	ErrUnknownCollection = errors.New("realtime: unknown collection")

	// ErrNotFound is returned when updating or removing a document that does
	// not exist in the backend.
	ErrNotFound = errors.New("realtime: document not found")
)
