package eventkit

// Calendar resolution shared by both managers. Events and reminders have
// disjoint calendar sets, so every helper is keyed by entity type.

// listCalendars enumerates and translates the entity's calendars.
func listCalendars(store Store, entity EntityType) ([]CalendarInfo, error) {
	if err := ensureAuthorized(store, entity); err != nil {
		return nil, err
	}
	calendars := store.Calendars(entity)
	infos := make([]CalendarInfo, 0, len(calendars))
	for _, cal := range calendars {
		infos = append(infos, cal.Info())
	}
	return infos, nil
}

// defaultCalendar returns the store's default calendar for new items of the
// entity type.
func defaultCalendar(store Store, entity EntityType) (CalendarInfo, error) {
	if err := ensureAuthorized(store, entity); err != nil {
		return CalendarInfo{}, err
	}
	cal := store.DefaultCalendar(entity)
	if cal == nil {
		return CalendarInfo{}, ErrNoDefaultCalendar
	}
	return cal.Info(), nil
}

// resolveCalendars maps a title filter to calendar handles by exact string
// match. A nil or empty filter resolves to nil (the entity's default search
// scope). A filter matching zero calendars fails, naming every requested
// title.
func resolveCalendars(store Store, entity EntityType, titles []string) ([]*Calendar, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	var matched []*Calendar
	for _, cal := range store.Calendars(entity) {
		for _, title := range titles {
			if cal.Title == title {
				matched = append(matched, cal)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, &CalendarNotFoundError{Titles: append([]string(nil), titles...)}
	}
	return matched, nil
}

// findCalendarByTitle resolves a single title, failing when it matches
// nothing.
func findCalendarByTitle(store Store, entity EntityType, title string) (*Calendar, error) {
	for _, cal := range store.Calendars(entity) {
		if cal.Title == title {
			return cal, nil
		}
	}
	return nil, &CalendarNotFoundError{Titles: []string{title}}
}
