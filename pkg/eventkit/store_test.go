package eventkit

import (
	"fmt"
	"sync"
)

// fakeStore is a minimal in-memory Store for exercising the managers.
type fakeStore struct {
	mu sync.Mutex

	auth       map[EntityType]AuthorizationStatus
	grant      bool
	requestErr error
	noAnswer   bool
	requests   int

	calendars map[EntityType][]*Calendar
	defaults  map[EntityType]*Calendar
	reminders []*Reminder
	events    []*Event

	nextID    int
	saveErr   error
	removeErr error
	removed   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		auth:      map[EntityType]AuthorizationStatus{},
		calendars: map[EntityType][]*Calendar{},
		defaults:  map[EntityType]*Calendar{},
	}
}

func (s *fakeStore) addCalendar(entity EntityType, title string, isDefault bool) *Calendar {
	cal := &Calendar{
		Identifier:          "cal-" + title,
		Title:               title,
		Source:              "Test",
		AllowsModifications: true,
	}
	s.calendars[entity] = append(s.calendars[entity], cal)
	if isDefault {
		s.defaults[entity] = cal
	}
	return cal
}

func (s *fakeStore) AuthorizationStatus(entity EntityType) AuthorizationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth[entity]
}

func (s *fakeStore) RequestAccess(entity EntityType, completion func(granted bool, err error)) {
	s.mu.Lock()
	s.requests++
	if !s.noAnswer && s.requestErr == nil && s.grant {
		s.auth[entity] = StatusFullAccess
	}
	grant, reqErr, silent := s.grant, s.requestErr, s.noAnswer
	s.mu.Unlock()

	if silent {
		return
	}
	go completion(grant, reqErr)
}

func (s *fakeStore) Calendars(entity EntityType) []*Calendar {
	return s.calendars[entity]
}

func (s *fakeStore) DefaultCalendar(entity EntityType) *Calendar {
	return s.defaults[entity]
}

func (s *fakeStore) NewReminder() *Reminder { return &Reminder{} }

func (s *fakeStore) NewEvent() *Event { return &Event{} }

func (s *fakeStore) FetchReminders(pred ReminderPredicate, completion func([]*Reminder)) {
	s.mu.Lock()
	ids := map[string]bool{}
	for _, cal := range pred.Calendars {
		ids[cal.Identifier] = true
	}
	var matched []*Reminder
	for _, r := range s.reminders {
		if pred.IncompleteOnly && r.Completed {
			continue
		}
		if len(ids) > 0 && (r.Calendar == nil || !ids[r.Calendar.Identifier]) {
			continue
		}
		matched = append(matched, r)
	}
	s.mu.Unlock()

	go completion(matched)
}

func (s *fakeStore) EventsMatching(pred EventPredicate) []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := map[string]bool{}
	for _, cal := range pred.Calendars {
		ids[cal.Identifier] = true
	}
	var matched []*Event
	for _, ev := range s.events {
		if !ev.Start.Before(pred.End) || !ev.End.After(pred.Start) {
			continue
		}
		if len(ids) > 0 && (ev.Calendar == nil || !ids[ev.Calendar.Identifier]) {
			continue
		}
		matched = append(matched, ev)
	}
	return matched
}

func (s *fakeStore) CalendarItem(identifier string) Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reminders {
		if r.Identifier == identifier {
			return r
		}
	}
	for _, ev := range s.events {
		if ev.Identifier == identifier {
			return ev
		}
	}
	return nil
}

func (s *fakeStore) EventWithIdentifier(identifier string) *Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Identifier == identifier {
			return ev
		}
	}
	return nil
}

func (s *fakeStore) SaveReminder(r *Reminder, commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if r.Identifier == "" {
		s.nextID++
		r.Identifier = fmt.Sprintf("rem-%d", s.nextID)
		s.reminders = append(s.reminders, r)
	}
	return nil
}

func (s *fakeStore) RemoveReminder(r *Reminder, commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	for i, existing := range s.reminders {
		if existing == r {
			s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
			break
		}
	}
	s.removed = append(s.removed, r.Identifier)
	return nil
}

func (s *fakeStore) SaveEvent(ev *Event, span Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if ev.Identifier == "" {
		s.nextID++
		ev.Identifier = fmt.Sprintf("evt-%d", s.nextID)
		s.events = append(s.events, ev)
	}
	return nil
}

func (s *fakeStore) RemoveEvent(ev *Event, span Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	for i, existing := range s.events {
		if existing == ev {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	s.removed = append(s.removed, ev.Identifier)
	return nil
}

var _ Store = (*fakeStore)(nil)
