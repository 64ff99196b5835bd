// Package seen tracks which job links have already been notified about.
package seen

import "context"

// Store remembers job links across monitoring cycles.
type Store interface {
	// FirstSeen marks the link as seen and reports whether this call was the
	// first time it appeared.
	FirstSeen(ctx context.Context, link string) (bool, error)
}
