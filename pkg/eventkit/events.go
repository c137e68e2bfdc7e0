package eventkit

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventsManager exposes calendar event operations over a store handle. It is
// the events-domain twin of RemindersManager: same operation shape, disjoint
// calendars and authorization state.
type EventsManager struct {
	store Store
}

// NewEventsManager creates a manager owning its own handle to the store.
func NewEventsManager(store Store) *EventsManager {
	return &EventsManager{store: store}
}

// AuthorizationStatus reports the current calendar authorization status.
func (m *EventsManager) AuthorizationStatus() AuthorizationStatus {
	return m.store.AuthorizationStatus(EntityEvent)
}

// RequestAccess requests full access to calendar events, blocking until the
// store signals completion. Returns true when access was granted.
func (m *EventsManager) RequestAccess() (bool, error) {
	return requestAccess(m.store, EntityEvent, time.Time{})
}

// RequestAccessDeadline is RequestAccess bounded by an external deadline; on
// expiry it reports ErrOperationTimedOut and a late grant is dropped.
func (m *EventsManager) RequestAccessDeadline(deadline time.Time) (bool, error) {
	return requestAccess(m.store, EntityEvent, deadline)
}

// EnsureAuthorized verifies access, prompting once if no choice was made yet.
func (m *EventsManager) EnsureAuthorized() error {
	return ensureAuthorized(m.store, EntityEvent)
}

// ListCalendars enumerates all event calendars.
func (m *EventsManager) ListCalendars() ([]CalendarInfo, error) {
	return listCalendars(m.store, EntityEvent)
}

// DefaultCalendar returns the default calendar for new events.
func (m *EventsManager) DefaultCalendar() (CalendarInfo, error) {
	return defaultCalendar(m.store, EntityEvent)
}

// FetchTodayEvents fetches events between local midnight and end of day.
func (m *EventsManager) FetchTodayEvents() ([]EventItem, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	return m.FetchEvents(start, end, nil)
}

// FetchUpcomingEvents fetches events from now through the next N days.
func (m *EventsManager) FetchUpcomingEvents(days int) ([]EventItem, error) {
	now := time.Now()
	return m.FetchEvents(now, now.AddDate(0, 0, days), nil)
}

// FetchEvents fetches events in [start, end), optionally restricted to the
// named calendars, sorted ascending by start time. The store does not
// guarantee order, so the sort is explicit. start >= end fails before the
// store is queried.
func (m *EventsManager) FetchEvents(start, end time.Time, calendarTitles []string) ([]EventItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, ErrInvalidDateRange
	}
	calendars, err := resolveCalendars(m.store, EntityEvent, calendarTitles)
	if err != nil {
		return nil, err
	}

	events := m.store.EventsMatching(EventPredicate{Start: start, End: end, Calendars: calendars})
	items := make([]EventItem, 0, len(events))
	for _, ev := range events {
		items = append(items, ev.Item())
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Start.Before(items[j].Start)
	})
	log.Debugf("fetched %d events in [%s, %s]", len(items), start.Format(time.RFC3339), end.Format(time.RFC3339))
	return items, nil
}

// CreateEvent creates and commits a new event. An empty calendarTitle
// targets the store's default calendar.
func (m *EventsManager) CreateEvent(title string, start, end time.Time, notes, location, calendarTitle string, allDay bool) (EventItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return EventItem{}, err
	}

	ev := m.store.NewEvent()
	ev.Title = title
	ev.Start = start
	ev.End = end
	ev.AllDay = allDay
	ev.Notes = notes
	ev.Location = location

	if calendarTitle != "" {
		cal, err := findCalendarByTitle(m.store, EntityEvent, calendarTitle)
		if err != nil {
			return EventItem{}, err
		}
		ev.Calendar = cal
	} else {
		cal := m.store.DefaultCalendar(EntityEvent)
		if cal == nil {
			return EventItem{}, ErrNoDefaultCalendar
		}
		ev.Calendar = cal
	}

	if err := m.store.SaveEvent(ev, SpanThisEvent); err != nil {
		return EventItem{}, &SaveFailedError{Detail: err.Error()}
	}
	log.Debugf("created event %s", ev.Identifier)
	return ev.Item(), nil
}

// UpdateEvent mutates only the fields with non-nil arguments and commits.
func (m *EventsManager) UpdateEvent(identifier string, title, notes, location *string, start, end *time.Time) (EventItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return EventItem{}, err
	}

	ev, err := m.findEvent(identifier)
	if err != nil {
		return EventItem{}, err
	}

	if title != nil {
		ev.Title = *title
	}
	if notes != nil {
		ev.Notes = *notes
	}
	if location != nil {
		ev.Location = *location
	}
	if start != nil {
		ev.Start = *start
	}
	if end != nil {
		ev.End = *end
	}

	if err := m.store.SaveEvent(ev, SpanThisEvent); err != nil {
		return EventItem{}, &SaveFailedError{Detail: err.Error()}
	}
	return ev.Item(), nil
}

// DeleteEvent removes an event and commits immediately.
func (m *EventsManager) DeleteEvent(identifier string) error {
	if err := m.EnsureAuthorized(); err != nil {
		return err
	}
	ev, err := m.findEvent(identifier)
	if err != nil {
		return err
	}
	if err := m.store.RemoveEvent(ev, SpanThisEvent); err != nil {
		return &DeleteFailedError{Detail: err.Error()}
	}
	log.Debugf("deleted event %s", identifier)
	return nil
}

// GetEvent resolves an identifier to an event value record.
func (m *EventsManager) GetEvent(identifier string) (EventItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return EventItem{}, err
	}
	ev, err := m.findEvent(identifier)
	if err != nil {
		return EventItem{}, err
	}
	return ev.Item(), nil
}

func (m *EventsManager) findEvent(identifier string) (*Event, error) {
	ev := m.store.EventWithIdentifier(identifier)
	if ev == nil {
		return nil, &ItemNotFoundError{Identifier: identifier}
	}
	return ev, nil
}
