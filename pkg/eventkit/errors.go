package eventkit

import (
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for conditions that carry no detail. Parametrized failures
// have their own types below.
var (
	// ErrAuthorizationDenied is returned when the user denied access, either
	// previously or in response to a prompt triggered by an operation.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrAuthorizationRestricted is returned when system policy forbids
	// access regardless of user choice.
	ErrAuthorizationRestricted = errors.New("authorization restricted by system policy")

	// ErrAuthorizationNotDetermined is returned when an operation requires a
	// settled authorization state and none exists.
	ErrAuthorizationNotDetermined = errors.New("authorization not determined")

	// ErrNoDefaultCalendar is returned when creation is requested without an
	// explicit calendar and the store has no default configured.
	ErrNoDefaultCalendar = errors.New("no default calendar")

	// ErrInvalidDateRange is returned for event fetches where start >= end,
	// before the store is contacted.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrOperationTimedOut is reported by callers that bound a blocking wait
	// with an external deadline. The store's completion may still fire later
	// and is tolerated as a no-op.
	ErrOperationTimedOut = errors.New("operation timed out")
)

// AuthorizationRequestError means the store reported an error while brokering
// an access request.
type AuthorizationRequestError struct {
	Detail string
}

func (e *AuthorizationRequestError) Error() string {
	return "failed to request authorization: " + e.Detail
}

// CalendarNotFoundError means a calendar title filter matched no calendars of
// the requested entity type. Titles holds every requested title.
type CalendarNotFoundError struct {
	Titles []string
}

func (e *CalendarNotFoundError) Error() string {
	return "calendar not found: " + strings.Join(e.Titles, ", ")
}

// ItemNotFoundError means an identifier did not resolve, or resolved to an
// item of a different entity kind.
type ItemNotFoundError struct {
	Identifier string
}

func (e *ItemNotFoundError) Error() string {
	return "item not found: " + e.Identifier
}

// SaveFailedError passes through a store-reported save failure.
type SaveFailedError struct {
	Detail string
}

func (e *SaveFailedError) Error() string {
	return "failed to save: " + e.Detail
}

// DeleteFailedError passes through a store-reported removal failure.
type DeleteFailedError struct {
	Detail string
}

func (e *DeleteFailedError) Error() string {
	return "failed to delete: " + e.Detail
}

// FetchFailedError passes through a store-reported fetch failure.
type FetchFailedError struct {
	Detail string
}

func (e *FetchFailedError) Error() string {
	return "failed to fetch: " + e.Detail
}

// StoreError is the catch-all passthrough for store errors that map to no
// more specific kind.
type StoreError struct {
	Detail string
}

func (e *StoreError) Error() string {
	return "eventkit error: " + e.Detail
}
