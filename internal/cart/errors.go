package cart

import "fmt"

// NotFoundError is returned when a cart id has no entry in the store.
type NotFoundError struct {
	CartID string
}

func (e *NotFoundError) Error() string {
	return "cart not found: " + e.CartID
}

// VersionConflictError is returned when a client supplies a version strictly
// below the cart's current version. Equal or greater versions pass.
type VersionConflictError struct {
	ServerVersion int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict, server version: %d", e.ServerVersion)
}

// SyncError aborts a replay batch. Synced counts the operations that were
// applied and committed before the failing one.
type SyncError struct {
	Synced int
	Cause  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed at operation %d: %v", e.Synced, e.Cause)
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}
