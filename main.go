package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"

	"github.com/WeekendSuperhero/ekctl/pkg/eventkit"
	"github.com/WeekendSuperhero/ekctl/pkg/eventkit/localstore"
)

var version = "dev"

type CLI struct {
	Store   string `help:"Calendar store snapshot path" type:"path"`
	JSON    bool   `help:"JSON output format"`
	Verbose bool   `help:"Verbose logging"`
	NoColor bool   `help:"Disable colored output"`

	Version struct{} `cmd:"" help:"Show version"`

	Status struct {
		Events bool `help:"Check calendar events access instead of reminders"`
	} `cmd:"" help:"Show authorization status"`

	Reminders struct {
		Authorize struct {
			Timeout int `help:"Give up after this many seconds (0 waits forever)"`
		} `cmd:"" help:"Request access to reminders"`

		Lists struct{} `cmd:"" help:"List all reminder lists"`

		List struct {
			List       []string `short:"l" help:"Filter by list title (can repeat)"`
			Incomplete bool     `short:"i" help:"Show only incomplete reminders"`
			Completed  bool     `short:"c" help:"Show only completed reminders"`
			All        bool     `short:"a" help:"Show full details"`
		} `cmd:"" help:"List reminders"`

		Add struct {
			Title    string `arg:"" help:"Reminder title"`
			Notes    string `short:"n" help:"Notes for the reminder"`
			List     string `short:"l" help:"List to add the reminder to (default list if omitted)"`
			Priority int    `short:"p" help:"Priority (0=none, 1-4=high, 5=medium, 6-9=low)"`
		} `cmd:"" help:"Create a new reminder"`

		Update struct {
			ID       string `arg:"" help:"Reminder identifier"`
			Title    string `short:"t" help:"New title"`
			Notes    string `short:"n" help:"New notes"`
			Priority int    `short:"p" default:"-1" help:"New priority (0-9)"`
		} `cmd:"" help:"Update a reminder"`

		Complete struct {
			ID string `arg:"" help:"Reminder identifier"`
		} `cmd:"" help:"Mark a reminder as completed"`

		Uncomplete struct {
			ID string `arg:"" help:"Reminder identifier"`
		} `cmd:"" help:"Mark a reminder as not completed"`

		Delete struct {
			ID    string `arg:"" help:"Reminder identifier"`
			Force bool   `short:"f" help:"Delete without confirmation"`
		} `cmd:"" help:"Delete a reminder"`

		Show struct {
			ID string `arg:"" help:"Reminder identifier"`
		} `cmd:"" help:"Show reminder details"`
	} `cmd:"" help:"Reminder operations"`

	Events struct {
		Authorize struct {
			Timeout int `help:"Give up after this many seconds (0 waits forever)"`
		} `cmd:"" help:"Request access to calendar events"`

		Calendars struct{} `cmd:"" help:"List all event calendars"`

		List struct {
			Today    bool     `short:"t" help:"Show only today's events"`
			Days     int      `short:"d" default:"7" help:"Show events for the next N days"`
			Calendar []string `short:"c" help:"Filter by calendar title (can repeat)"`
			All      bool     `short:"a" help:"Show full details"`
		} `cmd:"" help:"List events"`

		Add struct {
			Title    string `arg:"" help:"Event title"`
			Start    string `short:"s" required:"" help:"Start date/time (YYYY-MM-DD or 'YYYY-MM-DD HH:MM')"`
			End      string `short:"e" help:"End date/time (default: start + duration)"`
			Duration int    `short:"d" default:"60" help:"Duration in minutes when --end is omitted"`
			Notes    string `short:"n" help:"Notes for the event"`
			Location string `short:"l" help:"Event location"`
			Calendar string `short:"c" help:"Calendar to add the event to (default calendar if omitted)"`
			AllDay   bool   `name:"all-day" help:"Create an all-day event"`
		} `cmd:"" help:"Create a new event"`

		Delete struct {
			ID    string `arg:"" help:"Event identifier"`
			Force bool   `short:"f" help:"Delete without confirmation"`
		} `cmd:"" help:"Delete an event"`

		Show struct {
			ID string `arg:"" help:"Event identifier"`
		} `cmd:"" help:"Show event details"`

		Export struct {
			Today    bool     `short:"t" help:"Export only today's events"`
			Days     int      `short:"d" default:"7" help:"Export events for the next N days"`
			Calendar []string `short:"c" help:"Filter by calendar title (can repeat)"`
			Output   string   `short:"o" help:"Output file (default: stdout)"`
		} `cmd:"" help:"Export events as iCalendar"`

		Import struct {
			File     string `short:"f" required:"" help:"ICS file path (- for stdin)"`
			Calendar string `short:"c" help:"Calendar to import into (default calendar if omitted)"`
			DryRun   bool   `name:"dry-run" help:"Parse and report without importing"`
		} `cmd:"" help:"Import events from an ICS file"`
	} `cmd:"" help:"Calendar event operations"`
}

func openStore(path string) (*localstore.Store, error) {
	if path == "" {
		path = localstore.DefaultPath()
	}
	log.Debugf("opening calendar store at %s", path)
	return localstore.Open(path)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ekctl"),
		kong.Description("Command-line calendar and reminders client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	out := newOutputWriter(cli.JSON, cli.NoColor, cli.Verbose)

	switch ctx.Command() {
	case "version":
		fmt.Printf("ekctl %s\n", version)

	case "status":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runStatus(store, cli.Status.Events, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders authorize":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersAuthorize(eventkit.NewRemindersManager(store), cli.Reminders.Authorize.Timeout, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders lists":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersLists(eventkit.NewRemindersManager(store), out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders list":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersList(eventkit.NewRemindersManager(store), cli.Reminders.List.List,
			cli.Reminders.List.Incomplete, cli.Reminders.List.Completed, cli.Reminders.List.All, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders add <title>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersAdd(eventkit.NewRemindersManager(store), cli.Reminders.Add.Title,
			cli.Reminders.Add.Notes, cli.Reminders.Add.List, cli.Reminders.Add.Priority, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders update <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersUpdate(eventkit.NewRemindersManager(store), cli.Reminders.Update.ID,
			cli.Reminders.Update.Title, cli.Reminders.Update.Notes, cli.Reminders.Update.Priority, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders complete <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersComplete(eventkit.NewRemindersManager(store), cli.Reminders.Complete.ID, true, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders uncomplete <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersComplete(eventkit.NewRemindersManager(store), cli.Reminders.Uncomplete.ID, false, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders delete <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersDelete(eventkit.NewRemindersManager(store), cli.Reminders.Delete.ID,
			cli.Reminders.Delete.Force, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "reminders show <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runRemindersShow(eventkit.NewRemindersManager(store), cli.Reminders.Show.ID, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events authorize":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runEventsAuthorize(eventkit.NewEventsManager(store), cli.Events.Authorize.Timeout, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events calendars":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runEventsCalendars(eventkit.NewEventsManager(store), out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events list":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runEventsList(eventkit.NewEventsManager(store), cli.Events.List.Today,
			cli.Events.List.Days, cli.Events.List.Calendar, cli.Events.List.All, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events add <title>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		opts := addEventOptions{
			title:    cli.Events.Add.Title,
			start:    cli.Events.Add.Start,
			end:      cli.Events.Add.End,
			duration: cli.Events.Add.Duration,
			notes:    cli.Events.Add.Notes,
			location: cli.Events.Add.Location,
			calendar: cli.Events.Add.Calendar,
			allDay:   cli.Events.Add.AllDay,
		}
		if err := runEventsAdd(eventkit.NewEventsManager(store), opts, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events delete <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runEventsDelete(eventkit.NewEventsManager(store), cli.Events.Delete.ID,
			cli.Events.Delete.Force, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events show <id>":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runEventsShow(eventkit.NewEventsManager(store), cli.Events.Show.ID, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events export":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		if err := runEventsExport(eventkit.NewEventsManager(store), cli.Events.Export.Today,
			cli.Events.Export.Days, cli.Events.Export.Calendar, os.Stdout, cli.Events.Export.Output, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	case "events import":
		store, err := openStore(cli.Store)
		if err != nil {
			out.writeError(err)
			os.Exit(1)
		}

		var reader io.Reader
		if cli.Events.Import.File == "-" {
			reader = os.Stdin
		} else {
			f, err := os.Open(cli.Events.Import.File)
			if err != nil {
				out.writeError(fmt.Errorf("failed to open file: %w", err))
				os.Exit(1)
			}
			defer f.Close()
			reader = f
		}
		if err := runEventsImport(eventkit.NewEventsManager(store), reader,
			cli.Events.Import.Calendar, cli.Events.Import.DryRun, out); err != nil {
			out.writeError(err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", ctx.Command())
		os.Exit(1)
	}
}
