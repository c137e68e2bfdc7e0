package eventkit

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// RemindersManager exposes reminder operations over a store handle. Every
// public operation follows the same shape: check authorization, resolve
// targets, perform the store operation, translate the result. Authorization
// is process-wide and re-checked on every call.
type RemindersManager struct {
	store Store
}

// NewRemindersManager creates a manager owning its own handle to the store.
func NewRemindersManager(store Store) *RemindersManager {
	return &RemindersManager{store: store}
}

// AuthorizationStatus reports the current reminders authorization status.
func (m *RemindersManager) AuthorizationStatus() AuthorizationStatus {
	return m.store.AuthorizationStatus(EntityReminder)
}

// RequestAccess requests full access to reminders, blocking until the store
// signals completion. Returns true when access was granted.
func (m *RemindersManager) RequestAccess() (bool, error) {
	return requestAccess(m.store, EntityReminder, time.Time{})
}

// RequestAccessDeadline is RequestAccess bounded by an external deadline; on
// expiry it reports ErrOperationTimedOut and a late grant is dropped.
func (m *RemindersManager) RequestAccessDeadline(deadline time.Time) (bool, error) {
	return requestAccess(m.store, EntityReminder, deadline)
}

// EnsureAuthorized verifies access, prompting once if no choice was made yet.
func (m *RemindersManager) EnsureAuthorized() error {
	return ensureAuthorized(m.store, EntityReminder)
}

// ListCalendars enumerates all reminder lists.
func (m *RemindersManager) ListCalendars() ([]CalendarInfo, error) {
	return listCalendars(m.store, EntityReminder)
}

// DefaultCalendar returns the default list for new reminders.
func (m *RemindersManager) DefaultCalendar() (CalendarInfo, error) {
	return defaultCalendar(m.store, EntityReminder)
}

// FetchAllReminders fetches every reminder across all lists.
func (m *RemindersManager) FetchAllReminders() ([]ReminderItem, error) {
	return m.FetchReminders(nil)
}

// FetchReminders fetches reminders, optionally restricted to the named
// lists. An empty filter means all lists.
func (m *RemindersManager) FetchReminders(calendarTitles []string) ([]ReminderItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return nil, err
	}
	calendars, err := resolveCalendars(m.store, EntityReminder, calendarTitles)
	if err != nil {
		return nil, err
	}
	return m.fetch(ReminderPredicate{Calendars: calendars})
}

// FetchIncompleteReminders fetches incomplete reminders across all lists.
func (m *RemindersManager) FetchIncompleteReminders() ([]ReminderItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return nil, err
	}
	return m.fetch(ReminderPredicate{IncompleteOnly: true})
}

// fetch blocks on the store's asynchronous reminder fetch and translates the
// result. A nil completion payload is an empty successful result.
func (m *RemindersManager) fetch(pred ReminderPredicate) ([]ReminderItem, error) {
	cell := newResultCell[[]*Reminder]()
	m.store.FetchReminders(pred, func(reminders []*Reminder) {
		cell.put(reminders)
	})
	reminders := cell.wait()

	items := make([]ReminderItem, 0, len(reminders))
	for _, r := range reminders {
		items = append(items, r.Item())
	}
	log.Debugf("fetched %d reminders", len(items))
	return items, nil
}

// CreateReminder creates and commits a new reminder. An empty calendarTitle
// targets the store's default list; notes may be empty; priority 0 means
// none.
func (m *RemindersManager) CreateReminder(title, notes, calendarTitle string, priority int) (ReminderItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return ReminderItem{}, err
	}

	r := m.store.NewReminder()
	r.Title = title
	r.Notes = notes
	r.Priority = priority

	if calendarTitle != "" {
		cal, err := findCalendarByTitle(m.store, EntityReminder, calendarTitle)
		if err != nil {
			return ReminderItem{}, err
		}
		r.Calendar = cal
	} else {
		cal := m.store.DefaultCalendar(EntityReminder)
		if cal == nil {
			return ReminderItem{}, ErrNoDefaultCalendar
		}
		r.Calendar = cal
	}

	if err := m.store.SaveReminder(r, true); err != nil {
		return ReminderItem{}, &SaveFailedError{Detail: err.Error()}
	}
	log.Debugf("created reminder %s", r.Identifier)
	return r.Item(), nil
}

// UpdateReminder mutates only the fields with non-nil arguments and commits.
// Omitted fields are left untouched.
func (m *RemindersManager) UpdateReminder(identifier string, title, notes *string, completed *bool, priority *int) (ReminderItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return ReminderItem{}, err
	}

	r, err := m.findReminder(identifier)
	if err != nil {
		return ReminderItem{}, err
	}

	if title != nil {
		r.Title = *title
	}
	if notes != nil {
		r.Notes = *notes
	}
	if completed != nil {
		r.Completed = *completed
	}
	if priority != nil {
		r.Priority = *priority
	}

	if err := m.store.SaveReminder(r, true); err != nil {
		return ReminderItem{}, &SaveFailedError{Detail: err.Error()}
	}
	return r.Item(), nil
}

// CompleteReminder marks a reminder complete. Completing an already complete
// reminder is a no-op, not an error.
func (m *RemindersManager) CompleteReminder(identifier string) (ReminderItem, error) {
	completed := true
	return m.UpdateReminder(identifier, nil, nil, &completed, nil)
}

// UncompleteReminder marks a reminder incomplete.
func (m *RemindersManager) UncompleteReminder(identifier string) (ReminderItem, error) {
	completed := false
	return m.UpdateReminder(identifier, nil, nil, &completed, nil)
}

// DeleteReminder removes a reminder and commits immediately.
func (m *RemindersManager) DeleteReminder(identifier string) error {
	if err := m.EnsureAuthorized(); err != nil {
		return err
	}
	r, err := m.findReminder(identifier)
	if err != nil {
		return err
	}
	if err := m.store.RemoveReminder(r, true); err != nil {
		return &DeleteFailedError{Detail: err.Error()}
	}
	log.Debugf("deleted reminder %s", identifier)
	return nil
}

// GetReminder resolves an identifier to a reminder value record.
func (m *RemindersManager) GetReminder(identifier string) (ReminderItem, error) {
	if err := m.EnsureAuthorized(); err != nil {
		return ReminderItem{}, err
	}
	r, err := m.findReminder(identifier)
	if err != nil {
		return ReminderItem{}, err
	}
	return r.Item(), nil
}

// findReminder resolves an identifier to a reminder handle. Identifiers that
// resolve to a non-reminder item are reported as not found.
func (m *RemindersManager) findReminder(identifier string) (*Reminder, error) {
	item := m.store.CalendarItem(identifier)
	if item == nil {
		return nil, &ItemNotFoundError{Identifier: identifier}
	}
	r, ok := item.(*Reminder)
	if !ok {
		return nil, &ItemNotFoundError{Identifier: identifier}
	}
	return r, nil
}
