package eventkit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnsureAuthorizedStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  AuthorizationStatus
		wantErr error
	}{
		{"full access", StatusFullAccess, nil},
		{"write only", StatusWriteOnly, nil},
		{"denied", StatusDenied, ErrAuthorizationDenied},
		{"restricted", StatusRestricted, ErrAuthorizationRestricted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.auth[EntityReminder] = tt.status

			err := ensureAuthorized(store, EntityReminder)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, 0, store.requests, "no request should be brokered for a settled status")
		})
	}
}

func TestEnsureAuthorizedPromptsWhenNotDetermined(t *testing.T) {
	store := newFakeStore()
	store.grant = true

	err := ensureAuthorized(store, EntityReminder)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.requests)
	assert.Equal(t, StatusFullAccess, store.AuthorizationStatus(EntityReminder))

	// The settled status short-circuits the next check.
	err = ensureAuthorized(store, EntityReminder)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.requests)
}

func TestEnsureAuthorizedPromptDenied(t *testing.T) {
	store := newFakeStore()
	store.grant = false

	err := ensureAuthorized(store, EntityEvent)
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
	assert.Equal(t, 1, store.requests)
}

func TestRequestAccessError(t *testing.T) {
	store := newFakeStore()
	store.requestErr = errors.New("broker unavailable")

	_, err := requestAccess(store, EntityReminder, time.Time{})

	var reqErr *AuthorizationRequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.Contains(t, reqErr.Error(), "broker unavailable")
}

func TestRequestAccessDeadlineExpires(t *testing.T) {
	store := newFakeStore()
	store.noAnswer = true

	granted, err := requestAccess(store, EntityReminder, time.Now().Add(20*time.Millisecond))
	assert.False(t, granted)
	assert.ErrorIs(t, err, ErrOperationTimedOut)
}

func TestManagerRequestAccess(t *testing.T) {
	store := newFakeStore()
	store.grant = true
	m := NewRemindersManager(store)

	granted, err := m.RequestAccess()
	assert.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, StatusFullAccess, m.AuthorizationStatus())
}
