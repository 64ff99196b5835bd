package prefs

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreReturnsFreshSetForUnknownUser(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	set, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.UserID != "u1" || !set.IsEmpty() || !set.IsActive {
		t.Fatalf("expected a fresh active set, got %+v", set)
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	ctx := context.Background()

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	set := New("u1")
	set.AddCategory("backend")
	set.AddLocation("Remote")
	if err := store.Save(ctx, set); err != nil {
		t.Fatalf("saving: %v", err)
	}

	// A second store instance must see the persisted state.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	loaded, err := reopened.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if len(loaded.Categories) != 1 || loaded.Categories[0] != "backend" {
		t.Fatalf("unexpected categories: %v", loaded.Categories)
	}
	if len(loaded.Locations) != 1 || loaded.Locations[0] != "Remote" {
		t.Fatalf("unexpected locations: %v", loaded.Locations)
	}
}

func TestFileStoreActiveUsers(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	ctx := context.Background()

	active := New("b-user")
	active.AddCategory("backend")
	if err := store.Save(ctx, active); err != nil {
		t.Fatalf("saving: %v", err)
	}

	second := New("a-user")
	second.AddCategory("frontend")
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("saving: %v", err)
	}

	paused := New("c-user")
	paused.IsActive = false
	if err := store.Save(ctx, paused); err != nil {
		t.Fatalf("saving: %v", err)
	}

	users, err := store.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(users) != 2 || users[0] != "a-user" || users[1] != "b-user" {
		t.Fatalf("expected sorted active users, got %v", users)
	}
}
