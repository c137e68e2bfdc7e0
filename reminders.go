package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
)

// runRemindersAuthorize requests access to reminders, blocking until the
// store answers or the timeout expires.
func runRemindersAuthorize(m *eventkit.RemindersManager, timeoutSecs int, out *outputWriter) error {
	out.writeVerbose("Requesting access to reminders...")

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
		out.writeMessage(out.colorize(colorGreen, "Access to reminders granted."))
		return nil
	}

	out.writeMessage(out.colorize(colorRed, "Access to reminders denied."))
	out.writeMessage("Grant access in System Settings > Privacy & Security > Reminders.")
	return eventkit.ErrAuthorizationDenied
}

// runRemindersLists lists all reminder lists.
func runRemindersLists(m *eventkit.RemindersManager, out *outputWriter) error {
	lists, err := m.ListCalendars()
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(lists)
	}

	if len(lists) == 0 {
		out.writeMessage("No reminder lists found.")
		return nil
	}

	headers := []string{"TITLE", "SOURCE", "ID"}
	rows := make([][]string, len(lists))
	for i, l := range lists {
		title := l.Title
		if !l.AllowsModifications {
			title += " (read-only)"
		}
		rows[i] = []string{title, l.Source, l.Identifier}
	}
	return out.writeTable(headers, rows)
}

// runRemindersList lists reminders, optionally filtered by list and
// completion state.
func runRemindersList(m *eventkit.RemindersManager, lists []string, incomplete, completed, all bool, out *outputWriter) error {
	var (
		reminders []eventkit.ReminderItem
		err       error
	)
	if incomplete && len(lists) == 0 {
		reminders, err = m.FetchIncompleteReminders()
	} else {
		reminders, err = m.FetchReminders(lists)
	}
	if err != nil {
		return err
	}

	filtered := reminders[:0:0]
	for _, r := range reminders {
		if incomplete && r.Completed {
			continue
		}
		if completed && !r.Completed {
			continue
		}
		filtered = append(filtered, r)
	}

	if out.json {
		if filtered == nil {
			filtered = []eventkit.ReminderItem{}
		}
		return out.writeJSON(filtered)
	}

	if len(filtered) == 0 {
		out.writeMessage("No reminders found.")
		return nil
	}

	if all {
		for i, r := range filtered {
			if i > 0 {
				out.writeMessage("")
			}
			writeReminderDetail(r, out)
		}
		return nil
	}

	headers := []string{"DONE", "TITLE", "PRIORITY", "LIST", "ID"}
	rows := make([][]string, len(filtered))
	for i, r := range filtered {
		done := " "
		if r.Completed {
			done = "x"
		}
		rows[i] = []string{
			done,
			truncateString(r.Title, 40),
			r.PriorityLabel(),
			r.CalendarTitle,
			r.Identifier,
		}
	}
	return out.writeTable(headers, rows)
}

func writeReminderDetail(r eventkit.ReminderItem, out *outputWriter) {
	out.writeMessage(fmt.Sprintf("Title:     %s", r.Title))
	out.writeMessage(fmt.Sprintf("ID:        %s", r.Identifier))
	out.writeMessage(fmt.Sprintf("List:      %s", r.CalendarTitle))
	out.writeMessage(fmt.Sprintf("Completed: %s", strconv.FormatBool(r.Completed)))
	out.writeMessage(fmt.Sprintf("Priority:  %s", r.PriorityLabel()))
	if r.Notes != "" {
		out.writeMessage(fmt.Sprintf("Notes:     %s", r.Notes))
	}
}

// runRemindersAdd creates a new reminder.
func runRemindersAdd(m *eventkit.RemindersManager, title, notes, list string, priority int, out *outputWriter) error {
	if priority < 0 || priority > 9 {
		return fmt.Errorf("priority must be between 0 and 9")
	}

	r, err := m.CreateReminder(title, notes, list, priority)
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(r)
	}

	out.writeMessage(fmt.Sprintf("Created reminder %q in list %q (%s)", r.Title, r.CalendarTitle, r.Identifier))
	return nil
}

// runRemindersUpdate applies partial updates to a reminder. Priority -1 is
// the flag-omitted sentinel; any other out-of-range value is rejected.
func runRemindersUpdate(m *eventkit.RemindersManager, id, title, notes string, priority int, out *outputWriter) error {
	var (
		titlePtr    *string
		notesPtr    *string
		priorityPtr *int
	)
	if title != "" {
		titlePtr = &title
	}
	if notes != "" {
		notesPtr = &notes
	}
	if priority != -1 {
		if priority < 0 || priority > 9 {
			return fmt.Errorf("priority must be between 0 and 9")
		}
		priorityPtr = &priority
	}

	if titlePtr == nil && notesPtr == nil && priorityPtr == nil {
		out.writeMessage("No updates specified. Use --title, --notes, or --priority.")
		return nil
	}

	r, err := m.UpdateReminder(id, titlePtr, notesPtr, nil, priorityPtr)
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(r)
	}

	out.writeMessage(fmt.Sprintf("Updated reminder %q (%s)", r.Title, r.Identifier))
	return nil
}

// runRemindersComplete marks a reminder completed or not completed.
func runRemindersComplete(m *eventkit.RemindersManager, id string, completed bool, out *outputWriter) error {
	var (
		r   eventkit.ReminderItem
		err error
	)
	if completed {
		r, err = m.CompleteReminder(id)
	} else {
		r, err = m.UncompleteReminder(id)
	}
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(r)
	}

	if completed {
		out.writeMessage(fmt.Sprintf("Completed reminder %q", r.Title))
	} else {
		out.writeMessage(fmt.Sprintf("Reopened reminder %q", r.Title))
	}
	return nil
}

// runRemindersDelete deletes a reminder. Without --force it only reports
// what would be deleted.
func runRemindersDelete(m *eventkit.RemindersManager, id string, force bool, out *outputWriter) error {
	r, err := m.GetReminder(id)
	if err != nil {
		return err
	}

	if !force {
		out.writeMessage(fmt.Sprintf("Would delete reminder %q (%s). Re-run with --force to delete.", r.Title, r.Identifier))
		return nil
	}

	if err := m.DeleteReminder(id); err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(map[string]string{"deleted": id})
	}

	out.writeMessage(fmt.Sprintf("Deleted reminder %q", r.Title))
	return nil
}

// runRemindersShow prints full details for one reminder.
func runRemindersShow(m *eventkit.RemindersManager, id string, out *outputWriter) error {
	r, err := m.GetReminder(id)
	if err != nil {
		return err
	}

	if out.json {
		return out.writeJSON(r)
	}

	writeReminderDetail(r, out)
	return nil
}
