package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
)

func statusColor(status eventkit.AuthorizationStatus) *color.Color {
	switch status {
	case eventkit.StatusFullAccess, eventkit.StatusWriteOnly:
		return colorGreen
	case eventkit.StatusDenied, eventkit.StatusRestricted:
		return colorRed
	default:
		return colorYellow
	}
}

// runStatus reports the authorization status for one entity type.
func runStatus(store eventkit.Store, events bool, out *outputWriter) error {
	entity := eventkit.EntityReminder
	label := "Reminders"
	settingsPane := "Reminders"
	if events {
		entity = eventkit.EntityEvent
		label = "Calendar"
		settingsPane = "Calendars"
	}

	status := store.AuthorizationStatus(entity)

	if out.json {
		return out.writeJSON(map[string]string{
			"entity": entity.String(),
			"status": status.String(),
		})
	}

	out.writeMessage(fmt.Sprintf("%s access: %s", label, out.colorize(statusColor(status), status.String())))

	switch status {
	case eventkit.StatusNotDetermined:
		out.writeMessage(fmt.Sprintf("Run 'ekctl %s authorize' to request access.", entity))
	case eventkit.StatusDenied:
		out.writeMessage(fmt.Sprintf("Grant access in System Settings > Privacy & Security > %s.", settingsPane))
	case eventkit.StatusRestricted:
		out.writeMessage("Access is restricted by system policy and cannot be granted.")
	}

	return nil
}
