package prefs

import "context"

// Store persists preference sets keyed by user id. Writes are
// last-writer-wins per user; there is no cross-user transaction.
type Store interface {
	// Get returns the stored set for the user, or a fresh empty one when the
	// user has never saved anything.
	Get(ctx context.Context, userID string) (*PreferenceSet, error)
	Save(ctx context.Context, set *PreferenceSet) error
	// ActiveUsers lists the ids of all users whose set is marked active.
	ActiveUsers(ctx context.Context) ([]string, error)
}
