package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
)

// Snapshot schema. Calendars are referenced by identifier; handles are
// rebound on load.

type storeFile struct {
	Authorization map[string]string `json:"authorization"`
	Defaults      map[string]string `json:"defaults"`
	Calendars     []calendarRecord  `json:"calendars"`
	Reminders     []reminderRecord  `json:"reminders,omitempty"`
	Events        []eventRecord     `json:"events,omitempty"`
}

type calendarRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"source,omitempty"`
	Entity   string `json:"entity"`
	ReadOnly bool   `json:"readOnly,omitempty"`
}

type reminderRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Completed bool   `json:"completed"`
	Priority  int    `json:"priority,omitempty"`
	Calendar  string `json:"calendar"`
}

type eventRecord struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Notes    string    `json:"notes,omitempty"`
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay,omitempty"`
	Calendar string    `json:"calendar"`
}

func statusName(s eventkit.AuthorizationStatus) string {
	switch s {
	case eventkit.StatusRestricted:
		return "restricted"
	case eventkit.StatusDenied:
		return "denied"
	case eventkit.StatusFullAccess:
		return "fullAccess"
	case eventkit.StatusWriteOnly:
		return "writeOnly"
	}
	return "notDetermined"
}

func parseStatus(name string) (eventkit.AuthorizationStatus, error) {
	switch name {
	case "notDetermined", "":
		return eventkit.StatusNotDetermined, nil
	case "restricted":
		return eventkit.StatusRestricted, nil
	case "denied":
		return eventkit.StatusDenied, nil
	case "fullAccess":
		return eventkit.StatusFullAccess, nil
	case "writeOnly":
		return eventkit.StatusWriteOnly, nil
	}
	return eventkit.StatusNotDetermined, fmt.Errorf("unknown authorization status %q", name)
}

func parseEntity(name string) (eventkit.EntityType, error) {
	switch name {
	case "events":
		return eventkit.EntityEvent, nil
	case "reminders":
		return eventkit.EntityReminder, nil
	}
	return 0, fmt.Errorf("unknown entity type %q", name)
}

// load rebuilds in-memory state from snapshot bytes. Caller holds no lock;
// load runs before the store is shared.
func (s *Store) load(raw []byte) error {
	var file storeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return errors.Wrap(err, "unmarshalling snapshot")
	}

	for name, statusStr := range file.Authorization {
		entity, err := parseEntity(name)
		if err != nil {
			return err
		}
		status, err := parseStatus(statusStr)
		if err != nil {
			return err
		}
		s.auth[entity] = status
	}

	for _, rec := range file.Calendars {
		entity, err := parseEntity(rec.Entity)
		if err != nil {
			return err
		}
		cal := &eventkit.Calendar{
			Identifier:          rec.ID,
			Title:               rec.Title,
			Source:              rec.Source,
			AllowsModifications: !rec.ReadOnly,
		}
		s.calendars = append(s.calendars, cal)
		s.calendarEntity[cal.Identifier] = entity
	}

	for name, id := range file.Defaults {
		entity, err := parseEntity(name)
		if err != nil {
			return err
		}
		s.defaults[entity] = id
	}

	for _, rec := range file.Reminders {
		cal := s.findCalendar(rec.Calendar)
		if cal == nil {
			return fmt.Errorf("reminder %s references unknown calendar %s", rec.ID, rec.Calendar)
		}
		s.reminders[rec.ID] = &eventkit.Reminder{
			Identifier: rec.ID,
			Title:      rec.Title,
			Notes:      rec.Notes,
			Completed:  rec.Completed,
			Priority:   rec.Priority,
			Calendar:   cal,
		}
	}

	for _, rec := range file.Events {
		cal := s.findCalendar(rec.Calendar)
		if cal == nil {
			return fmt.Errorf("event %s references unknown calendar %s", rec.ID, rec.Calendar)
		}
		s.events[rec.ID] = &eventkit.Event{
			Identifier: rec.ID,
			Title:      rec.Title,
			Notes:      rec.Notes,
			Location:   rec.Location,
			Start:      rec.Start,
			End:        rec.End,
			AllDay:     rec.AllDay,
			Calendar:   cal,
		}
	}

	return nil
}

// persist rewrites the snapshot. Caller holds s.mu. In-memory stores skip
// the write.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}

	file := storeFile{
		Authorization: make(map[string]string, len(s.auth)),
		Defaults:      make(map[string]string, len(s.defaults)),
	}
	for entity, status := range s.auth {
		file.Authorization[entity.String()] = statusName(status)
	}
	for entity, id := range s.defaults {
		file.Defaults[entity.String()] = id
	}
	for _, cal := range s.calendars {
		file.Calendars = append(file.Calendars, calendarRecord{
			ID:       cal.Identifier,
			Title:    cal.Title,
			Source:   cal.Source,
			Entity:   s.calendarEntity[cal.Identifier].String(),
			ReadOnly: !cal.AllowsModifications,
		})
	}
	for _, r := range s.reminders {
		file.Reminders = append(file.Reminders, reminderRecord{
			ID:        r.Identifier,
			Title:     r.Title,
			Notes:     r.Notes,
			Completed: r.Completed,
			Priority:  r.Priority,
			Calendar:  r.Calendar.Identifier,
		})
	}
	for _, ev := range s.events {
		file.Events = append(file.Events, eventRecord{
			ID:       ev.Identifier,
			Title:    ev.Title,
			Notes:    ev.Notes,
			Location: ev.Location,
			Start:    ev.Start,
			End:      ev.End,
			AllDay:   ev.AllDay,
			Calendar: ev.Calendar.Identifier,
		})
	}

	raw, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling snapshot")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating store directory")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.Wrapf(err, "writing store snapshot %s", s.path)
	}
	return nil
}
