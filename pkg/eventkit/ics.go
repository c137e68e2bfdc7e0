package eventkit

import (
	"fmt"
	"io"
	"time"

	ical "github.com/emersion/go-ical"
)

// EncodeICS serializes events as a single VCALENDAR with one VEVENT per
// item. All-day events use date-valued DTSTART/DTEND.
func EncodeICS(w io.Writer, events []EventItem) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//ekctl//EN")

	for _, ev := range events {
		vevent := ical.NewComponent(ical.CompEvent)
		cal.Children = append(cal.Children, vevent)

		uid := ev.Identifier
		if uid == "" {
			uid = fmt.Sprintf("%s@ekctl", ev.Start.Format(time.RFC3339Nano))
		}
		vevent.Props.SetText(ical.PropUID, uid)
		vevent.Props.SetText(ical.PropSummary, ev.Title)
		if ev.Notes != "" {
			vevent.Props.SetText(ical.PropDescription, ev.Notes)
		}
		if ev.Location != "" {
			vevent.Props.SetText(ical.PropLocation, ev.Location)
		}

		if ev.AllDay {
			dtstart := ical.NewProp(ical.PropDateTimeStart)
			dtstart.SetDate(ev.Start)
			vevent.Props.Set(dtstart)
			dtend := ical.NewProp(ical.PropDateTimeEnd)
			dtend.SetDate(ev.End)
			vevent.Props.Set(dtend)
		} else {
			vevent.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
			vevent.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
		}

		vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now())
	}

	return ical.NewEncoder(w).Encode(cal)
}

// ParseICS decodes iCalendar data into event value records. The identifiers
// carried in UID properties belong to whatever system exported the data;
// creating the events in a store issues fresh ones.
func ParseICS(r io.Reader) ([]EventItem, error) {
	dec := ical.NewDecoder(r)

	var events []EventItem
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			ev, err := parseVEvent(component)
			if err != nil {
				return nil, fmt.Errorf("parsing event: %w", err)
			}
			events = append(events, ev)
		}
	}

	return events, nil
}

func parseVEvent(comp *ical.Component) (EventItem, error) {
	var ev EventItem

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		ev.Identifier = prop.Value
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		ev.Title = prop.Value
	}
	if prop := comp.Props.Get(ical.PropDescription); prop != nil {
		ev.Notes = prop.Value
	}
	if prop := comp.Props.Get(ical.PropLocation); prop != nil {
		ev.Location = prop.Value
	}

	if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
		start, allDay, err := parseICalDateTime(prop)
		if err != nil {
			return EventItem{}, fmt.Errorf("parsing start time: %w", err)
		}
		ev.Start = start
		ev.AllDay = allDay
	}

	if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
		end, _, err := parseICalDateTime(prop)
		if err != nil {
			return EventItem{}, fmt.Errorf("parsing end time: %w", err)
		}
		ev.End = end
	} else if !ev.Start.IsZero() {
		// No DTEND; default the way the CLI defaults durations.
		if ev.AllDay {
			ev.End = ev.Start.AddDate(0, 0, 1)
		} else {
			ev.End = ev.Start.Add(time.Hour)
		}
	}

	return ev, nil
}

// parseICalDateTime parses a date or date-time property, reporting whether
// it was date-only (an all-day boundary).
func parseICalDateTime(prop *ical.Prop) (time.Time, bool, error) {
	value := prop.Value

	if prop.Params.Get("VALUE") == "DATE" {
		t, err := time.ParseInLocation("20060102", value, time.Local)
		return t, true, err
	}

	tzid := prop.Params.Get("TZID")

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			if tzid != "" {
				if loc, err := time.LoadLocation(tzid); err == nil {
					t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
				}
			}
			return t, len(value) == 8, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unable to parse datetime: %s", value)
}
