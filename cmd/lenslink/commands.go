package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/KirkDiggler/lenslink/internal/backup"
	"github.com/KirkDiggler/lenslink/internal/calendar"
	"github.com/KirkDiggler/lenslink/internal/config"
	"github.com/KirkDiggler/lenslink/internal/handlers/api"
	"github.com/KirkDiggler/lenslink/internal/handlers/discord"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/concept"
	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/golang/glog"
	"golang.org/x/term"
)

type command struct {
	summary string

	// concurrent commands serve several callers at once
	concurrent bool

	run func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]*command{
	"list":      {summary: "List sessions (--date, --upcoming)", run: runList},
	"create":    {summary: "Create a session", run: runCreate},
	"delete":    {summary: "Delete a session by ID (--yes skips the prompt)", run: runDelete},
	"connect":   {summary: "Test and save remote store credentials", run: runConnect},
	"migrate":   {summary: "Copy local sessions to the remote store", run: runMigrate},
	"provision": {summary: "Create the sessions table in the remote store", run: runProvision},
	"calendar":  {summary: "Print a month grid (--month YYYY-MM)", run: runCalendar},
	"share":     {summary: "Print the share text of a session", run: runShare},
	"concept":   {summary: "Suggest a creative concept", run: runConcept},
	"export":    {summary: "Write a JSON backup or ICS feed", run: runExport},
	"import":    {summary: "Replace every session with a JSON backup", run: runImport},
	"serve":     {summary: "Serve the HTTP API", concurrent: true, run: runServe},
	"bot":       {summary: "Run the Discord /colabos command", concurrent: true, run: runBot},
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("lenslink "+name, flag.ContinueOnError)
}

// confirm asks a yes/no question on the app's input
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *app) printStatus(ctx context.Context) error {
	st, err := a.schedule.Status(ctx, &schedule.StatusInput{})
	if err != nil {
		return err
	}
	msg, err := a.messaging.GetStatusMessage(ctx, &messaging.GetStatusMessageInput{
		Status:  st.Status.Status,
		Backend: st.Status.Backend,
		Count:   st.Count,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg.Message)
	if st.Status.LastError != "" {
		fmt.Fprintf(a.out, "Last remote error: %s\n", st.Status.LastError)
	}
	printPending(a.out, st.Status.Pending)
	return nil
}

func printPending(w io.Writer, pending int) {
	if pending == 0 {
		return
	}
	fmt.Fprintf(w, "%d local sessions are not in the cloud yet. Run \"lenslink migrate\" to upload them.\n", pending)
}

func printSessions(w io.Writer, sessions []*models.Session) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tTITLE\tLOCATION\tID")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.DisplayDate(), s.Time, s.Title, s.Location, s.ID)
	}
	tw.Flush()
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list")
	date := fs.String("date", "", "Only sessions on this YYYY-MM-DD day.")
	upcoming := fs.Bool("upcoming", false, "Only sessions from today on.")
	limit := fs.Int("limit", 0, "With --upcoming, show at most this many.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		return err
	}

	var sessions []*models.Session
	if *upcoming {
		out, err := a.schedule.Upcoming(ctx, &schedule.UpcomingInput{Limit: *limit})
		if err != nil {
			return err
		}
		sessions = out.Sessions
	} else {
		out, err := a.schedule.ListSessions(ctx, &schedule.ListSessionsInput{Date: *date})
		if err != nil {
			return err
		}
		sessions = out.Sessions
	}

	if len(sessions) == 0 && *date != "" {
		msg, err := a.messaging.GetEmptyDayMessage(ctx, &messaging.GetEmptyDayMessageInput{Date: *date})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, msg.Message)
	} else {
		printSessions(a.out, sessions)
	}

	return a.printStatus(ctx)
}

func runCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create")
	title := fs.String("title", "", "Session title.")
	date := fs.String("date", "", "Day as YYYY-MM-DD (required).")
	at := fs.String("time", "", "Start time as HH:mm.")
	location := fs.String("location", "", "Where the session takes place.")
	photographer := fs.String("photographer", "", "Photographer name.")
	photographerIG := fs.String("photographer-ig", "", "Photographer instagram handle.")
	model := fs.String("model", "", "Model name.")
	modelIG := fs.String("model-ig", "", "Model instagram handle.")
	mua := fs.String("mua", "", "Makeup artist name.")
	muaIG := fs.String("mua-ig", "", "Makeup artist instagram handle.")
	description := fs.String("description", "", "Concept notes.")
	withConcept := fs.Bool("concept", false, "Generate the concept notes when --description is empty.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess := &models.Session{
		Title:        *title,
		Date:         *date,
		Time:         *at,
		Location:     *location,
		Photographer: models.Member{Name: *photographer, Instagram: *photographerIG},
		Model:        models.Member{Name: *model, Instagram: *modelIG},
		MUA:          models.Member{Name: *mua, Instagram: *muaIG},
		Description:  *description,
	}

	if *withConcept && sess.Description == "" {
		out, err := a.concept.GenerateConcept(ctx, &concept.GenerateConceptInput{
			Title:            sess.Title,
			Location:         sess.Location,
			PhotographerName: sess.Photographer.Name,
			ModelName:        sess.Model.Name,
		})
		if err != nil {
			return err
		}
		if out.Generated {
			sess.Description = out.Text
		} else {
			fmt.Fprintln(a.out, out.Text)
		}
	}

	out, err := a.schedule.Create(ctx, &schedule.CreateInput{Session: sess})
	if err != nil {
		return err
	}
	if !out.Persisted {
		return fmt.Errorf("session %s was not saved, check the remote store", out.Session.ID)
	}

	fmt.Fprintf(a.out, "Created %s on %s\n", out.Session.ID, out.Session.DisplayDate())
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete")
	yes := fs.Bool("yes", false, "Delete without asking.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: lenslink delete [--yes] <id>")
	}
	id := fs.Arg(0)

	got, err := a.schedule.GetSession(ctx, &schedule.GetSessionInput{ID: id})
	if err != nil {
		return err
	}

	ok := *yes || a.confirm(fmt.Sprintf("Delete %q on %s?", got.Session.Title, got.Session.DisplayDate()))
	if !ok {
		fmt.Fprintln(a.out, "Nothing deleted.")
		return nil
	}

	out, err := a.schedule.Delete(ctx, &schedule.DeleteInput{ID: id, Confirmed: true})
	if err != nil {
		return err
	}
	if !out.Persisted {
		return fmt.Errorf("session %s was not deleted, check the remote store", id)
	}

	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

func runConnect(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("connect")
	url := fs.String("url", "", "Remote store URL, redis:// or postgres://.")
	key := fs.String("key", "", "Remote store key. Prompted for when omitted on a terminal.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *key == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(a.out, "Key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return fmt.Errorf("while reading key: %w", err)
		}
		*key = string(raw)
	}

	out, err := a.schedule.TestConnection(ctx, &schedule.TestConnectionInput{URL: *url, Key: *key})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, out.Result.Message)
	if !out.Result.Success {
		return fmt.Errorf("connection test failed (%s)", out.Result.Kind)
	}
	fmt.Fprintf(a.out, "%d sessions loaded.\n", len(out.Sessions))
	printPending(a.out, out.Pending)
	return nil
}

func runMigrate(ctx context.Context, a *app, args []string) error {
	if _, err := a.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		return err
	}

	out, err := a.schedule.MigrateToCloud(ctx, &schedule.MigrateToCloudInput{})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Migrated %d of %d sessions", out.Result.Migrated, out.Result.Total)
	if out.Result.Failed > 0 {
		fmt.Fprintf(a.out, ", %d failed", out.Result.Failed)
	}
	fmt.Fprintln(a.out, ".")
	return a.printStatus(ctx)
}

func runProvision(ctx context.Context, a *app, args []string) error {
	if err := a.schedule.Provision(ctx, &schedule.ProvisionInput{}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Remote sessions table is ready.")
	return nil
}

func runCalendar(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("calendar")
	month := fs.String("month", "", "Month as YYYY-MM. Defaults to the current month.")
	selected := fs.String("selected", "", "Day to list below the grid, YYYY-MM-DD.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	first := a.clock.Now().In(a.cfg.Location())
	if *month != "" {
		t, err := time.Parse("2006-01", *month)
		if err != nil {
			return fmt.Errorf("month must be YYYY-MM: %w", err)
		}
		first = t
	}

	if _, err := a.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		return err
	}
	list, err := a.schedule.ListSessions(ctx, &schedule.ListSessionsInput{})
	if err != nil {
		return err
	}

	grid, err := calendar.Build(first.Year(), first.Month(), calendar.Options{
		WeekStart: calendar.WeekStart(a.cfg.WeekStart),
		Today:     a.today(),
		Selected:  *selected,
		Sessions:  list.Sessions,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, grid.Render())

	if *selected != "" {
		day, err := a.schedule.ListSessions(ctx, &schedule.ListSessionsInput{Date: *selected})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out)
		printSessions(a.out, day.Sessions)
	}
	return nil
}

func runShare(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: lenslink share <id>")
	}

	got, err := a.schedule.GetSession(ctx, &schedule.GetSessionInput{ID: args[0]})
	if err != nil {
		return err
	}

	msg, err := a.messaging.GetShareMessage(ctx, &messaging.GetShareMessageInput{Session: got.Session})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg.Message)
	return nil
}

func runConcept(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("concept")
	title := fs.String("title", "", "Session title (required).")
	location := fs.String("location", "", "Location (required).")
	photographer := fs.String("photographer", "", "Photographer name.")
	model := fs.String("model", "", "Model name.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := a.concept.GenerateConcept(ctx, &concept.GenerateConceptInput{
		Title:            *title,
		Location:         *location,
		PhotographerName: *photographer,
		ModelName:        *model,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, out.Text)
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("export")
	format := fs.String("format", "json", "json or ics.")
	path := fs.String("out", "", "Output file, - for stdout. Defaults to a dated file name.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		return err
	}
	list, err := a.schedule.ListSessions(ctx, &schedule.ListSessionsInput{})
	if err != nil {
		return err
	}

	now := a.clock.Now().In(a.cfg.Location())
	var write func(io.Writer) error
	switch *format {
	case "json":
		if *path == "" {
			*path = backup.FileName(now)
		}
		write = func(w io.Writer) error { return backup.ExportJSON(w, list.Sessions) }
	case "ics":
		if *path == "" {
			*path = "colabos.ics"
		}
		write = func(w io.Writer) error {
			return backup.ExportICS(w, list.Sessions, backup.ICSOptions{Location: a.cfg.Location(), Now: now})
		}
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	if *path == "-" {
		return write(a.out)
	}

	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", *path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote %d sessions to %s\n", len(list.Sessions), *path)
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("import")
	yes := fs.Bool("yes", false, "Replace without asking.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: lenslink import [--yes] <backup.json>")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	sessions, err := backup.ImportJSON(f)
	f.Close()
	if err != nil {
		return err
	}

	ok := *yes || a.confirm(fmt.Sprintf("Replace every session with %d from %s?", len(sessions), fs.Arg(0)))
	if !ok {
		fmt.Fprintln(a.out, "Nothing imported.")
		return nil
	}

	out, err := a.schedule.Import(ctx, &schedule.ImportInput{Sessions: sessions, Confirmed: true})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Imported %d sessions.\n", out.Imported)
	return nil
}

func runServe(ctx context.Context, a *app, args []string) error {
	if _, err := a.schedule.Load(ctx, &schedule.LoadInput{}); err != nil {
		return err
	}

	srv, err := api.NewServer(&api.Config{
		Schedule:         a.schedule,
		Concept:          a.concept,
		Messaging:        a.messaging,
		Clock:            a.clock,
		Location:         a.cfg.Location(),
		WeekStart:        calendar.WeekStart(a.cfg.WeekStart),
		AllowedOrigins:   a.cfg.AllowedOrigins,
		ConceptPerMinute: a.cfg.ConceptLimit.PerMinute,
		ConceptBurst:     a.cfg.ConceptLimit.Burst,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx, a.cfg.Listen)
}

func runBot(ctx context.Context, a *app, args []string) error {
	if a.cfg.Discord.Token == "" {
		return fmt.Errorf("a Discord token is required, set discord.token or %s", config.EnvDiscord)
	}

	bot, err := discord.New(&discord.Config{
		Token:         a.cfg.Discord.Token,
		ApplicationID: a.cfg.Discord.ApplicationID,
		GuildID:       a.cfg.Discord.GuildID,
		Schedule:      a.schedule,
		Messaging:     a.messaging,
	})
	if err != nil {
		return err
	}

	if err := bot.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	if err := bot.Stop(); err != nil {
		glog.Warningf("error stopping bot: %v", err)
	}
	glog.Info("bot has been shut down")
	return nil
}
