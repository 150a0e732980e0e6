package journal

import "fmt"

// PurgeError reports a purge that stopped partway. Entries deleted before
// the failure stay deleted.
type PurgeError struct {
	Deleted int
	Total   int
	Err     error
}

func (e *PurgeError) Error() string {
	return fmt.Sprintf("purge stopped after %d of %d entries: %v", e.Deleted, e.Total, e.Err)
}

func (e *PurgeError) Unwrap() error { return e.Err }
