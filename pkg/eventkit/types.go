// Package eventkit exposes a calendar and reminder store through plain value
// types and blocking operations. The store itself (authorization brokering,
// persistence, sync, recurrence) is an external service reached through the
// Store interface; this package adapts its asynchronous, callback-based
// surface into synchronous calls and translates its object graph into
// independent value records.
package eventkit

import (
	"fmt"
	"time"
)

// EntityType selects one of the two independent authorization domains the
// store manages. Events and reminders have separate calendar sets and
// separate authorization state.
type EntityType int

const (
	// EntityEvent is the calendar events domain.
	EntityEvent EntityType = iota
	// EntityReminder is the reminders domain.
	EntityReminder
)

func (e EntityType) String() string {
	switch e {
	case EntityEvent:
		return "events"
	case EntityReminder:
		return "reminders"
	}
	return fmt.Sprintf("EntityType(%d)", int(e))
}

// Span is the scope of a mutation on a recurring item. Only the
// this-occurrence span is used.
type Span int

// SpanThisEvent applies a mutation to a single occurrence.
const SpanThisEvent Span = iota

// AuthorizationStatus is the store's process-wide authorization state for one
// entity type. It can change between calls (for example through a system
// settings dialog), so it is re-read at the top of every gated operation and
// never cached.
type AuthorizationStatus int

const (
	// StatusNotDetermined means the user has not yet made a choice.
	StatusNotDetermined AuthorizationStatus = iota
	// StatusRestricted means access is restricted by system policy.
	StatusRestricted
	// StatusDenied means the user explicitly denied access.
	StatusDenied
	// StatusFullAccess means full access is granted.
	StatusFullAccess
	// StatusWriteOnly means write-only access is granted.
	StatusWriteOnly
)

func (s AuthorizationStatus) String() string {
	switch s {
	case StatusNotDetermined:
		return "Not Determined"
	case StatusRestricted:
		return "Restricted"
	case StatusDenied:
		return "Denied"
	case StatusFullAccess:
		return "Full Access"
	case StatusWriteOnly:
		return "Write Only"
	}
	return fmt.Sprintf("AuthorizationStatus(%d)", int(s))
}

// CalendarInfo is a read-only projection of a store calendar (or reminder
// list). It is created fresh on every query and holds no reference back to
// the store.
type CalendarInfo struct {
	// Identifier is opaque and only meaningful to the store that issued it.
	Identifier string `json:"id"`
	Title      string `json:"title"`
	// Source is the account the calendar lives in (e.g. iCloud, Local).
	Source              string `json:"source,omitempty"`
	AllowsModifications bool   `json:"allowsModifications"`
}

// ReminderItem is an independent copy of a reminder. Mutating it has no
// effect on the store; re-resolve by identifier to change the underlying
// item.
type ReminderItem struct {
	Identifier string `json:"id"`
	Title      string `json:"title"`
	Notes      string `json:"notes,omitempty"`
	Completed  bool   `json:"completed"`
	// Priority uses the store's ordinal scale: 0 none, 1-4 high, 5 medium,
	// 6-9 low.
	Priority      int    `json:"priority"`
	CalendarTitle string `json:"calendarTitle,omitempty"`
}

// PriorityLabel renders the priority ordinal on the store's scale.
func (r ReminderItem) PriorityLabel() string {
	switch {
	case r.Priority == 0:
		return "None"
	case r.Priority <= 4:
		return fmt.Sprintf("High (%d)", r.Priority)
	case r.Priority == 5:
		return "Medium"
	default:
		return fmt.Sprintf("Low (%d)", r.Priority)
	}
}

// EventItem is an independent copy of a calendar event.
type EventItem struct {
	Identifier    string    `json:"id"`
	Title         string    `json:"title"`
	Notes         string    `json:"notes,omitempty"`
	Location      string    `json:"location,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AllDay        bool      `json:"allDay"`
	CalendarTitle string    `json:"calendarTitle,omitempty"`
}
