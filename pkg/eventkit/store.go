package eventkit

import "time"

// Store is the native calendar/reminder store boundary. Implementations own
// authorization brokering, persistence and consistency; this package only
// promises to use the documented request/response contract. The two async
// operations (RequestAccess, FetchReminders) invoke their completion exactly
// once, possibly from a goroutine other than the caller's.
//
// The shipped implementation is localstore.Store; tests substitute their own.
type Store interface {
	// AuthorizationStatus reports the current process-wide status for one
	// entity type.
	AuthorizationStatus(entity EntityType) AuthorizationStatus

	// RequestAccess asks the store to broker an access request for the
	// entity type. The completion receives the grant decision, or an error
	// when the request itself failed.
	RequestAccess(entity EntityType, completion func(granted bool, err error))

	// Calendars enumerates all calendars of the entity type.
	Calendars(entity EntityType) []*Calendar

	// DefaultCalendar returns the configured default calendar for new items
	// of the entity type, or nil when none is configured.
	DefaultCalendar(entity EntityType) *Calendar

	// NewReminder returns a blank reminder handle bound to this store.
	NewReminder() *Reminder

	// NewEvent returns a blank event handle bound to this store.
	NewEvent() *Event

	// FetchReminders evaluates the predicate and delivers matching reminder
	// handles to the completion. A nil slice is an empty successful result.
	FetchReminders(pred ReminderPredicate, completion func(reminders []*Reminder))

	// EventsMatching evaluates the predicate synchronously. Result order is
	// not guaranteed.
	EventsMatching(pred EventPredicate) []*Event

	// CalendarItem resolves an identifier to a reminder or event handle, or
	// nil when it does not resolve.
	CalendarItem(identifier string) Item

	// EventWithIdentifier resolves an identifier to an event handle, or nil.
	EventWithIdentifier(identifier string) *Event

	// SaveReminder persists a new or mutated reminder handle. commit false
	// stages the change for a later batch commit.
	SaveReminder(r *Reminder, commit bool) error

	// RemoveReminder deletes a reminder from the store.
	RemoveReminder(r *Reminder, commit bool) error

	// SaveEvent persists a new or mutated event handle with the given span.
	SaveEvent(ev *Event, span Span) error

	// RemoveEvent deletes an event from the store with the given span.
	RemoveEvent(ev *Event, span Span) error
}

// Item is a store-issued calendar item handle. The concrete type is
// *Reminder or *Event.
type Item interface {
	ItemIdentifier() string
}

// Calendar is a mutable calendar handle owned by the store.
type Calendar struct {
	Identifier          string
	Title               string
	Source              string
	AllowsModifications bool
}

// Info translates the handle into an independent value record.
func (c *Calendar) Info() CalendarInfo {
	return CalendarInfo{
		Identifier:          c.Identifier,
		Title:               c.Title,
		Source:              c.Source,
		AllowsModifications: c.AllowsModifications,
	}
}

// Reminder is a mutable reminder handle owned by the store. Field changes
// take effect only when saved back through the store.
type Reminder struct {
	Identifier string
	Title      string
	Notes      string
	Completed  bool
	Priority   int
	Calendar   *Calendar
}

// ItemIdentifier implements Item.
func (r *Reminder) ItemIdentifier() string { return r.Identifier }

// Item translates the handle into an independent value record.
func (r *Reminder) Item() ReminderItem {
	item := ReminderItem{
		Identifier: r.Identifier,
		Title:      r.Title,
		Notes:      r.Notes,
		Completed:  r.Completed,
		Priority:   r.Priority,
	}
	if r.Calendar != nil {
		item.CalendarTitle = r.Calendar.Title
	}
	return item
}

// Event is a mutable event handle owned by the store.
type Event struct {
	Identifier string
	Title      string
	Notes      string
	Location   string
	Start      time.Time
	End        time.Time
	AllDay     bool
	Calendar   *Calendar
}

// ItemIdentifier implements Item.
func (e *Event) ItemIdentifier() string { return e.Identifier }

// Item translates the handle into an independent value record.
func (e *Event) Item() EventItem {
	item := EventItem{
		Identifier: e.Identifier,
		Title:      e.Title,
		Notes:      e.Notes,
		Location:   e.Location,
		Start:      e.Start,
		End:        e.End,
		AllDay:     e.AllDay,
	}
	if e.Calendar != nil {
		item.CalendarTitle = e.Calendar.Title
	}
	return item
}

// ReminderPredicate is an opaque query descriptor for reminder fetches.
type ReminderPredicate struct {
	// Calendars restricts the fetch; nil means all reminder calendars.
	Calendars []*Calendar
	// IncompleteOnly restricts the fetch to incomplete reminders.
	IncompleteOnly bool
}

// EventPredicate is an opaque query descriptor for event fetches.
type EventPredicate struct {
	Start time.Time
	End   time.Time
	// Calendars restricts the fetch; nil means all event calendars.
	Calendars []*Calendar
}
