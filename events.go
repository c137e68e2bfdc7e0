package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
)

type addEventOptions struct {
	title    string
	start    string
	end      string
	duration int
	notes    string
	location string
	calendar string
	allDay   bool
}

// parseDateTime accepts "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in local time.
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q (expected YYYY-MM-DD or 'YYYY-MM-DD HH:MM')", s)
}

// runEventsAuthorize requests access to calendar events.
func runEventsAuthorize(m *eventkit.EventsManager, timeoutSecs int, out *outputWriter) error {
	out.writeVerbose("Requesting access to calendar events...")

	var (
		granted bool
		err     error
	)
	if timeoutSecs > 0 {
		granted, err = m.RequestAccessDeadline(time.Now().Add(time.Duration(timeoutSecs) * time.Second))
	} else {
		granted, err = m.RequestAccess()
	}
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(map[string]bool{"granted": granted})
	}

	if granted {
		out.writeMessage(out.colorize(colorGreen, "Access to calendar events granted."))
		return nil
	}

	out.writeMessage(out.colorize(colorRed, "Access to calendar events denied."))
	out.writeMessage("Grant access in System Settings > Privacy & Security > Calendars.")
	return eventkit.ErrAuthorizationDenied
}

// runEventsCalendars lists all event calendars.
func runEventsCalendars(m *eventkit.EventsManager, out *outputWriter) error {
	calendars, err := m.ListCalendars()
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(calendars)
	}

	if len(calendars) == 0 {
		out.writeMessage("No calendars found.")
		return nil
	}

	headers := []string{"TITLE", "SOURCE", "ID"}
	rows := make([][]string, len(calendars))
	for i, c := range calendars {
		title := c.Title
		if !c.AllowsModifications {
			title += " (read-only)"
		}
		rows[i] = []string{title, c.Source, c.Identifier}
	}
	return out.writeTable(headers, rows)
}

func fetchEventRange(m *eventkit.EventsManager, today bool, days int, calendars []string) ([]eventkit.EventItem, error) {
	if today {
		if len(calendars) == 0 {
			return m.FetchTodayEvents()
		}
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return m.FetchEvents(start, start.AddDate(0, 0, 1).Add(-time.Second), calendars)
	}
	if len(calendars) == 0 {
		return m.FetchUpcomingEvents(days)
	}
	now := time.Now()
	return m.FetchEvents(now, now.AddDate(0, 0, days), calendars)
}

// runEventsList lists events, grouped by day in text mode.
func runEventsList(m *eventkit.EventsManager, today bool, days int, calendars []string, all bool, out *outputWriter) error {
	events, err := fetchEventRange(m, today, days, calendars)
	if err != nil {
		return err
	}

	if out.json {
		if events == nil {
			events = []eventkit.EventItem{}
		}
		return out.writeJSON(events)
	}

	if len(events) == 0 {
		out.writeMessage("No events found.")
		return nil
	}

	if all {
		for i, ev := range events {
			if i > 0 {
				out.writeMessage("")
			}
			writeEventDetail(ev, out)
		}
		return nil
	}

	lastDay := ""
	for _, ev := range events {
		day := ev.Start.Format("Monday, January 2, 2006")
		if day != lastDay {
			if lastDay != "" {
				out.writeMessage("")
			}
			out.writeMessage(day)
			lastDay = day
		}
		out.writeMessage("  " + formatEventLine(ev))
	}
	return nil
}

func formatEventLine(ev eventkit.EventItem) string {
	when := "all day     "
	if !ev.AllDay {
		when = fmt.Sprintf("%s-%s", ev.Start.Format("15:04"), ev.End.Format("15:04"))
	}
	line := fmt.Sprintf("%s  %s", when, ev.Title)
	if ev.Location != "" {
		line += " @ " + ev.Location
	}
	return line
}

func writeEventDetail(ev eventkit.EventItem, out *outputWriter) {
	out.writeMessage(fmt.Sprintf("Title:    %s", ev.Title))
	out.writeMessage(fmt.Sprintf("ID:       %s", ev.Identifier))
	out.writeMessage(fmt.Sprintf("Calendar: %s", ev.CalendarTitle))
	if ev.AllDay {
		out.writeMessage(fmt.Sprintf("Date:     %s (all day)", ev.Start.Format("2006-01-02")))
	} else {
		out.writeMessage(fmt.Sprintf("Start:    %s", ev.Start.Format("2006-01-02 15:04")))
		out.writeMessage(fmt.Sprintf("End:      %s", ev.End.Format("2006-01-02 15:04")))
	}
	if ev.Location != "" {
		out.writeMessage(fmt.Sprintf("Location: %s", ev.Location))
	}
	if ev.Notes != "" {
		out.writeMessage(fmt.Sprintf("Notes:    %s", ev.Notes))
	}
}

// runEventsAdd creates a new event. When --end is omitted the end is derived
// from the duration, or the next day for all-day events.
func runEventsAdd(m *eventkit.EventsManager, opts addEventOptions, out *outputWriter) error {
	start, err := parseDateTime(opts.start)
	if err != nil {
		return err
	}

	var end time.Time
	switch {
	case opts.end != "":
		end, err = parseDateTime(opts.end)
		if err != nil {
			return err
		}
	case opts.allDay:
		end = start.AddDate(0, 0, 1)
	default:
		end = start.Add(time.Duration(opts.duration) * time.Minute)
	}

	ev, err := m.CreateEvent(opts.title, start, end, opts.notes, opts.location, opts.calendar, opts.allDay)
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(ev)
	}

	out.writeMessage(fmt.Sprintf("Created event %q in calendar %q (%s)", ev.Title, ev.CalendarTitle, ev.Identifier))
	return nil
}

// runEventsDelete deletes an event. Without --force it only reports what
// would be deleted.
func runEventsDelete(m *eventkit.EventsManager, id string, force bool, out *outputWriter) error {
	ev, err := m.GetEvent(id)
	if err != nil {
		return err
	}

	if !force {
		out.writeMessage(fmt.Sprintf("Would delete event %q (%s). Re-run with --force to delete.", ev.Title, ev.Identifier))
		return nil
	}

	if err := m.DeleteEvent(id); err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(map[string]string{"deleted": id})
	}

	out.writeMessage(fmt.Sprintf("Deleted event %q", ev.Title))
	return nil
}

// runEventsShow prints full details for one event.
func runEventsShow(m *eventkit.EventsManager, id string, out *outputWriter) error {
	ev, err := m.GetEvent(id)
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(ev)
	}

	writeEventDetail(ev, out)
	return nil
}

// runEventsExport writes events in the selected range as iCalendar data to w,
// or to outputPath when given. The output file is only created once the fetch
// has succeeded, so a failed export leaves nothing behind.
func runEventsExport(m *eventkit.EventsManager, today bool, days int, calendars []string, w io.Writer, outputPath string, out *outputWriter) error {
	events, err := fetchEventRange(m, today, days, calendars)
	if err != nil {
		return err
	}

	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := eventkit.EncodeICS(w, events); err != nil {
		return err
	}

	if outputPath != "" {
		out.writeMessage(fmt.Sprintf("Exported %d events to %s", len(events), outputPath))
	}
	return nil
}

// runEventsImport creates events from iCalendar data.
func runEventsImport(m *eventkit.EventsManager, r io.Reader, calendar string, dryRun bool, out *outputWriter) error {
	events, err := eventkit.ParseICS(r)
	if err != nil {
		return fmt.Errorf("failed to parse ICS data: %w", err)
	}

	if dryRun {
		if out.json {
			return out.writeJSON(events)
		}
		out.writeMessage(fmt.Sprintf("Would import %d events:", len(events)))
		for _, ev := range events {
			out.writeMessage("  " + formatEventLine(ev))
		}
		return nil
	}

	created := make([]eventkit.EventItem, 0, len(events))
	for _, ev := range events {
		item, err := m.CreateEvent(ev.Title, ev.Start, ev.End, ev.Notes, ev.Location, calendar, ev.AllDay)
		if err != nil {
			return fmt.Errorf("failed to import %q: %w", ev.Title, err)
		}
		created = append(created, item)
	}

	if out.json {
		return out.writeJSON(created)
	}

	out.writeMessage(fmt.Sprintf("Imported %d events", len(created)))
	return nil
}
