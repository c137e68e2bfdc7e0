package main

import (
	"testing"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
	"github.com/WeekendSuperhero/ekctl/pkg/eventkit/localstore"
)

// newAuthorizedStore returns an in-memory store with access already granted
// for both entity types.
func newAuthorizedStore(t *testing.T) *localstore.Store {
	t.Helper()

	store, err := localstore.Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SetAuthorizationStatus(eventkit.EntityReminder, eventkit.StatusFullAccess); err != nil {
		t.Fatalf("SetAuthorizationStatus(reminders) error = %v", err)
	}
	if err := store.SetAuthorizationStatus(eventkit.EntityEvent, eventkit.StatusFullAccess); err != nil {
		t.Fatalf("SetAuthorizationStatus(events) error = %v", err)
	}
	return store
}
