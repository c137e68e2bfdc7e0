// Package localstore is a file-backed implementation of the eventkit store
// contract. It keeps the same surface the native store exposes -- per-entity
// authorization state that lives outside the calling process's memory,
// asynchronous completion delivery on a non-caller goroutine, opaque
// identifiers, commit-on-save persistence -- against a JSON snapshot on disk,
// so the CLI works end to end anywhere and tests exercise the real contract.
package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
)

// Store implements eventkit.Store over a JSON snapshot file. A zero path
// keeps the store in memory only.
type Store struct {
	mu   sync.Mutex
	path string

	auth      map[eventkit.EntityType]eventkit.AuthorizationStatus
	calendars []*eventkit.Calendar
	// calendarEntity maps calendar identifiers to the entity type they
	// hold; kept beside the handle list so handles stay plain structs.
	calendarEntity map[string]eventkit.EntityType
	defaults       map[eventkit.EntityType]string // calendar identifier
	reminders      map[string]*eventkit.Reminder
	events         map[string]*eventkit.Event
}

// Open loads the snapshot at path, seeding a fresh store when the file does
// not exist yet. An empty path opens an ephemeral in-memory store.
func Open(path string) (*Store, error) {
	s := &Store{
		path:           path,
		auth:           make(map[eventkit.EntityType]eventkit.AuthorizationStatus),
		calendarEntity: make(map[string]eventkit.EntityType),
		defaults:       make(map[eventkit.EntityType]string),
		reminders:      make(map[string]*eventkit.Reminder),
		events:         make(map[string]*eventkit.Event),
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil && len(raw) > 0 {
			if err := s.load(raw); err != nil {
				return nil, errors.Wrapf(err, "loading store snapshot %s", path)
			}
			log.Debugf("opened store snapshot %s: %d calendars, %d reminders, %d events",
				path, len(s.calendars), len(s.reminders), len(s.events))
			return s, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading store snapshot %s", path)
		}
		// Missing or zero-byte file: fall through and seed.
	}

	s.seed()
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// seed creates the initial calendars and authorization state of a brand-new
// store: one default list per entity, nothing decided yet.
func (s *Store) seed() {
	reminders := &eventkit.Calendar{
		Identifier:          uuid.NewString(),
		Title:               "Reminders",
		Source:              "Local",
		AllowsModifications: true,
	}
	events := &eventkit.Calendar{
		Identifier:          uuid.NewString(),
		Title:               "Calendar",
		Source:              "Local",
		AllowsModifications: true,
	}
	s.calendars = []*eventkit.Calendar{reminders, events}
	s.calendarEntity[reminders.Identifier] = eventkit.EntityReminder
	s.calendarEntity[events.Identifier] = eventkit.EntityEvent
	s.defaults[eventkit.EntityReminder] = reminders.Identifier
	s.defaults[eventkit.EntityEvent] = events.Identifier
	s.auth[eventkit.EntityReminder] = eventkit.StatusNotDetermined
	s.auth[eventkit.EntityEvent] = eventkit.StatusNotDetermined
}

// AuthorizationStatus implements eventkit.Store.
func (s *Store) AuthorizationStatus(entity eventkit.EntityType) eventkit.AuthorizationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth[entity]
}

// SetAuthorizationStatus records an authorization decision made outside this
// process (the system settings surface owns this state in the real store).
func (s *Store) SetAuthorizationStatus(entity eventkit.EntityType, status eventkit.AuthorizationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth[entity] = status
	return s.persist()
}

// RequestAccess implements eventkit.Store. The grant decision is recorded in
// the snapshot and the completion is delivered from its own goroutine, never
// the caller's.
func (s *Store) RequestAccess(entity eventkit.EntityType, completion func(granted bool, err error)) {
	s.mu.Lock()
	granted := false
	switch s.auth[entity] {
	case eventkit.StatusNotDetermined, eventkit.StatusFullAccess, eventkit.StatusWriteOnly:
		s.auth[entity] = eventkit.StatusFullAccess
		granted = true
	}
	err := s.persist()
	s.mu.Unlock()

	go func() {
		if err != nil {
			completion(false, err)
			return
		}
		log.Debugf("access request for %s: granted=%v", entity, granted)
		completion(granted, nil)
	}()
}

// Calendars implements eventkit.Store.
func (s *Store) Calendars(entity eventkit.EntityType) []*eventkit.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*eventkit.Calendar
	for _, cal := range s.calendars {
		if s.calendarEntity[cal.Identifier] == entity {
			out = append(out, cal)
		}
	}
	return out
}

// DefaultCalendar implements eventkit.Store.
func (s *Store) DefaultCalendar(entity eventkit.EntityType) *eventkit.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCalendar(s.defaults[entity])
}

// AddCalendar registers a new calendar for the entity type and returns its
// handle.
func (s *Store) AddCalendar(entity eventkit.EntityType, title, source string) (*eventkit.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cal := &eventkit.Calendar{
		Identifier:          uuid.NewString(),
		Title:               title,
		Source:              source,
		AllowsModifications: true,
	}
	s.calendars = append(s.calendars, cal)
	s.calendarEntity[cal.Identifier] = entity
	if err := s.persist(); err != nil {
		return nil, err
	}
	return cal, nil
}

// NewReminder implements eventkit.Store. The identifier is issued on first
// save.
func (s *Store) NewReminder() *eventkit.Reminder {
	return &eventkit.Reminder{}
}

// NewEvent implements eventkit.Store.
func (s *Store) NewEvent() *eventkit.Event {
	return &eventkit.Event{}
}

// FetchReminders implements eventkit.Store. The completion runs on its own
// goroutine.
func (s *Store) FetchReminders(pred eventkit.ReminderPredicate, completion func(reminders []*eventkit.Reminder)) {
	s.mu.Lock()
	var matched []*eventkit.Reminder
	want := calendarIDSet(pred.Calendars)
	for _, r := range s.reminders {
		if pred.IncompleteOnly && r.Completed {
			continue
		}
		if want != nil {
			if r.Calendar == nil || !want[r.Calendar.Identifier] {
				continue
			}
		}
		matched = append(matched, r)
	}
	s.mu.Unlock()

	go completion(matched)
}

// EventsMatching implements eventkit.Store. An event matches when it
// overlaps the predicate's range. Order is unspecified (map iteration).
func (s *Store) EventsMatching(pred eventkit.EventPredicate) []*eventkit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := calendarIDSet(pred.Calendars)
	var matched []*eventkit.Event
	for _, ev := range s.events {
		if !ev.Start.Before(pred.End) || !ev.End.After(pred.Start) {
			continue
		}
		if want != nil {
			if ev.Calendar == nil || !want[ev.Calendar.Identifier] {
				continue
			}
		}
		matched = append(matched, ev)
	}
	return matched
}

// CalendarItem implements eventkit.Store.
func (s *Store) CalendarItem(identifier string) eventkit.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reminders[identifier]; ok {
		return r
	}
	if ev, ok := s.events[identifier]; ok {
		return ev
	}
	return nil
}

// EventWithIdentifier implements eventkit.Store.
func (s *Store) EventWithIdentifier(identifier string) *eventkit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[identifier]
}

// SaveReminder implements eventkit.Store.
func (s *Store) SaveReminder(r *eventkit.Reminder, commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validateItem(r.Title, r.Calendar, eventkit.EntityReminder); err != nil {
		return err
	}
	if r.Identifier == "" {
		r.Identifier = uuid.NewString()
	}
	s.reminders[r.Identifier] = r
	if !commit {
		return nil
	}
	return s.persist()
}

// RemoveReminder implements eventkit.Store.
func (s *Store) RemoveReminder(r *eventkit.Reminder, commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[r.Identifier]; !ok {
		return fmt.Errorf("unknown reminder %s", r.Identifier)
	}
	delete(s.reminders, r.Identifier)
	if !commit {
		return nil
	}
	return s.persist()
}

// SaveEvent implements eventkit.Store. Only the this-occurrence span exists.
func (s *Store) SaveEvent(ev *eventkit.Event, span eventkit.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result *multierror.Error
	if err := s.validateItem(ev.Title, ev.Calendar, eventkit.EntityEvent); err != nil {
		result = multierror.Append(result, err)
	}
	if !ev.Start.Before(ev.End) {
		result = multierror.Append(result, fmt.Errorf("event end must be after start"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	if ev.Identifier == "" {
		ev.Identifier = uuid.NewString()
	}
	s.events[ev.Identifier] = ev
	return s.persist()
}

// RemoveEvent implements eventkit.Store.
func (s *Store) RemoveEvent(ev *eventkit.Event, span eventkit.Span) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[ev.Identifier]; !ok {
		return fmt.Errorf("unknown event %s", ev.Identifier)
	}
	delete(s.events, ev.Identifier)
	return s.persist()
}

// validateItem aggregates everything wrong with an item in one error, so the
// caller's save failure names all problems at once.
func (s *Store) validateItem(title string, cal *eventkit.Calendar, entity eventkit.EntityType) error {
	var result *multierror.Error
	if title == "" {
		result = multierror.Append(result, fmt.Errorf("title must not be empty"))
	}
	if cal == nil {
		result = multierror.Append(result, fmt.Errorf("item is not bound to a calendar"))
	} else if got, ok := s.calendarEntity[cal.Identifier]; !ok || got != entity {
		result = multierror.Append(result, fmt.Errorf("calendar %q does not hold %s", cal.Title, entity))
	}
	return result.ErrorOrNil()
}

func (s *Store) findCalendar(identifier string) *eventkit.Calendar {
	for _, cal := range s.calendars {
		if cal.Identifier == identifier {
			return cal
		}
	}
	return nil
}

func calendarIDSet(calendars []*eventkit.Calendar) map[string]bool {
	if calendars == nil {
		return nil
	}
	set := make(map[string]bool, len(calendars))
	for _, cal := range calendars {
		set[cal.Identifier] = true
	}
	return set
}

// Path returns the snapshot location, empty for in-memory stores.
func (s *Store) Path() string { return s.path }

// DefaultPath returns the per-user snapshot location used when no override
// is given.
func DefaultPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "ekctl", "store.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "store.json"
	}
	return filepath.Join(home, ".local", "share", "ekctl", "store.json")
}

var _ eventkit.Store = (*Store)(nil)
