package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
	"github.com/WeekendSuperhero/ekctl/pkg/eventkit/localstore"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local), false},
		{"2025-03-10 14:30", time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local), false},
		{"03/10/2025", time.Time{}, true},
		{"2025-03-10T14:30:00Z", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := parseDateTime(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDateTime(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDateTime(%q) error = %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDateTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRunEventsAddAndList(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	var buf bytes.Buffer
	out := &outputWriter{
		json:   true,
		writer: &buf,
	}

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	opts := addEventOptions{
		title:    "Dentist",
		start:    start.Format("2006-01-02 15:04"),
		duration: 45,
		location: "Main St",
	}
	if err := runEventsAdd(m, opts, out); err != nil {
		t.Fatalf("runEventsAdd() error = %v", err)
	}

	var created eventkit.EventItem
	if err := json.Unmarshal(buf.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if created.Title != "Dentist" {
		t.Errorf("expected title 'Dentist', got %q", created.Title)
	}
	if created.CalendarTitle != "Calendar" {
		t.Errorf("expected default calendar 'Calendar', got %q", created.CalendarTitle)
	}
	if got := created.End.Sub(created.Start); got != 45*time.Minute {
		t.Errorf("expected 45m duration, got %v", got)
	}

	buf.Reset()
	if err := runEventsList(m, false, 7, nil, false, out); err != nil {
		t.Fatalf("runEventsList() error = %v", err)
	}

	var listed []eventkit.EventItem
	if err := json.Unmarshal(buf.Bytes(), &listed); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(listed))
	}
	if listed[0].Identifier != created.Identifier {
		t.Errorf("expected event %q, got %q", created.Identifier, listed[0].Identifier)
	}
}

func TestRunEventsAddAllDay(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	var buf bytes.Buffer
	out := &outputWriter{
		json:   true,
		writer: &buf,
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	opts := addEventOptions{
		title:  "Holiday",
		start:  tomorrow.Format("2006-01-02"),
		allDay: true,
	}
	if err := runEventsAdd(m, opts, out); err != nil {
		t.Fatalf("runEventsAdd() error = %v", err)
	}

	var created eventkit.EventItem
	if err := json.Unmarshal(buf.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if !created.AllDay {
		t.Error("expected an all-day event")
	}
	if !created.End.Equal(created.Start.AddDate(0, 0, 1)) {
		t.Errorf("expected a one-day span, got %v to %v", created.Start, created.End)
	}
}

func TestRunEventsAddBadStart(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	var buf bytes.Buffer
	out := &outputWriter{writer: &buf}

	err := runEventsAdd(m, addEventOptions{title: "Bad", start: "next tuesday"}, out)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "invalid date/time") {
		t.Errorf("expected date parse error, got %v", err)
	}
}

func TestRunEventsListTodayEmpty(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	var buf bytes.Buffer
	out := &outputWriter{writer: &buf}

	if err := runEventsList(m, true, 7, nil, false, out); err != nil {
		t.Fatalf("runEventsList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No events found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestRunEventsExport(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	if _, err := m.CreateEvent("Flight", start, start.Add(2*time.Hour), "", "SFO", "", false); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	var icsBuf, msgBuf bytes.Buffer
	out := &outputWriter{writer: &msgBuf}

	if err := runEventsExport(m, false, 7, nil, &icsBuf, "", out); err != nil {
		t.Fatalf("runEventsExport() error = %v", err)
	}

	ics := icsBuf.String()
	if !strings.Contains(ics, "BEGIN:VCALENDAR") {
		t.Errorf("expected VCALENDAR wrapper, got %q", ics)
	}
	if !strings.Contains(ics, "SUMMARY:Flight") {
		t.Errorf("expected exported event, got %q", ics)
	}
}

func TestRunEventsExportFailureLeavesNoFile(t *testing.T) {
	store, err := localstore.Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SetAuthorizationStatus(eventkit.EntityEvent, eventkit.StatusDenied); err != nil {
		t.Fatalf("SetAuthorizationStatus() error = %v", err)
	}
	m := eventkit.NewEventsManager(store)

	var buf bytes.Buffer
	out := &outputWriter{writer: &buf}
	path := filepath.Join(t.TempDir(), "export.ics")

	err = runEventsExport(m, false, 7, nil, &buf, path, out)
	if err == nil {
		t.Fatal("expected an authorization error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file after a failed export, stat err = %v", statErr)
	}
}

func TestRunEventsExportToFile(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	if _, err := m.CreateEvent("Flight", start, start.Add(2*time.Hour), "", "", "", false); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	var msgBuf bytes.Buffer
	out := &outputWriter{writer: &msgBuf}
	path := filepath.Join(t.TempDir(), "export.ics")

	if err := runEventsExport(m, false, 7, nil, nil, path, out); err != nil {
		t.Fatalf("runEventsExport() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(raw), "SUMMARY:Flight") {
		t.Errorf("expected exported event in file, got %q", string(raw))
	}
	if !strings.Contains(msgBuf.String(), "Exported 1 events to "+path) {
		t.Errorf("expected export message, got %q", msgBuf.String())
	}
}

func TestRunEventsImport(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	src := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:import-1",
		"SUMMARY:Conference",
		"DTSTART:20270310T090000Z",
		"DTEND:20270310T170000Z",
		"DTSTAMP:20270301T000000Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	var buf bytes.Buffer
	out := &outputWriter{writer: &buf}

	// Dry run reports without creating.
	if err := runEventsImport(m, strings.NewReader(src), "", true, out); err != nil {
		t.Fatalf("runEventsImport(dry-run) error = %v", err)
	}
	if !strings.Contains(buf.String(), "Would import 1 events") {
		t.Errorf("expected dry-run report, got %q", buf.String())
	}

	buf.Reset()
	out.json = true
	if err := runEventsImport(m, strings.NewReader(src), "", false, out); err != nil {
		t.Fatalf("runEventsImport() error = %v", err)
	}

	var created []eventkit.EventItem
	if err := json.Unmarshal(buf.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(created))
	}
	if created[0].Title != "Conference" {
		t.Errorf("expected title 'Conference', got %q", created[0].Title)
	}
	if created[0].Identifier == "import-1" {
		t.Error("imported events should get fresh identifiers")
	}
}

func TestRunEventsDeleteDryRun(t *testing.T) {
	store := newAuthorizedStore(t)
	m := eventkit.NewEventsManager(store)

	start := time.Now().Add(time.Hour)
	created, err := m.CreateEvent("Temp", start, start.Add(time.Hour), "", "", "", false)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	var buf bytes.Buffer
	out := &outputWriter{writer: &buf}

	if err := runEventsDelete(m, created.Identifier, false, out); err != nil {
		t.Fatalf("runEventsDelete() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Would delete") {
		t.Errorf("expected dry-run message, got %q", buf.String())
	}
	if _, err := m.GetEvent(created.Identifier); err != nil {
		t.Errorf("event should survive a dry-run delete: %v", err)
	}

	if err := runEventsDelete(m, created.Identifier, true, out); err != nil {
		t.Fatalf("runEventsDelete(force) error = %v", err)
	}
	if _, err := m.GetEvent(created.Identifier); err == nil {
		t.Error("event should be gone after a forced delete")
	}
}
