package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/jobtracker/internal/config"
	"git.home.luguber.info/inful/jobtracker/internal/export"
	"git.home.luguber.info/inful/jobtracker/internal/storage"
	"git.home.luguber.info/inful/jobtracker/internal/store"
	"git.home.luguber.info/inful/jobtracker/internal/theme"
	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// runInit writes a default configuration file.
func runInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	raw, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

// runOneShot hydrates the store, executes one command against it, and
// flushes before exit so the debounce window cannot swallow the change.
func runOneShot(command string, cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}

	driver := storage.Open(storage.Options{
		Mode:    storage.Mode(cfg.Storage.Mode),
		DataDir: cfg.DataDir,
		Logger:  logger,
	})
	defer driver.Close()

	st := store.New(store.Options{
		Driver:          driver,
		Logger:          logger,
		SaveDelay:       cfg.Storage.SaveDelay.Value(),
		ThemePreference: theme.EnvPreference,
	})
	st.Hydrate(ctx)
	defer st.Flush(ctx)

	switch command {
	case "add <company> <position>":
		return runAdd(st)
	case "list":
		return runList(st)
	case "status <id> <status>":
		return runStatus(st)
	case "task add <title>":
		return runTaskAdd(st)
	case "task done <id>":
		return runTaskDone(st)
	case "export":
		return runExport(st)
	case "import <file>":
		return runImport(st)
	case "report":
		return runReport(st)
	case "reset":
		return runReset(ctx, st)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func runAdd(st *store.Store) error {
	app := st.AddApplication(tracker.ApplicationPatch{
		Company:  &CLI.Add.Company,
		Position: &CLI.Add.Position,
		Location: optional(CLI.Add.Location),
		Link:     optional(CLI.Add.Link),
		Source:   optional(CLI.Add.Source),
		Notes:    optional(CLI.Add.Notes),
	})
	fmt.Printf("Added %s at %s (%s)\n", app.Position, app.Company, app.ID)
	return nil
}

func runList(st *store.Store) error {
	state := st.State()
	apps := tracker.FilterApplications(state.Applications, tracker.Filters{
		Status: CLI.List.Status,
		Search: CLI.List.Search,
	}, time.Now())
	apps = tracker.SortApplications(apps, state.Settings.Sort)

	if len(apps) == 0 {
		fmt.Println("No applications found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tPOSITION\tSTATUS\tFOLLOW-UP")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			app.ID, app.Company, app.Position, app.Status, app.FollowUpDate)
	}
	return w.Flush()
}

func runStatus(st *store.Store) error {
	status := tracker.Status(CLI.Status.Status)
	if !status.Valid() {
		return fmt.Errorf("unknown status %q (one of %v)", CLI.Status.Status, tracker.AllStatuses)
	}
	st.ChangeStatus(CLI.Status.ID, status)
	fmt.Printf("Status set to %s\n", status)
	return nil
}

func runTaskAdd(st *store.Store) error {
	task := st.AddTask(tracker.TaskPatch{
		Title:         &CLI.Task.Add.Title,
		ApplicationID: optional(CLI.Task.Add.App),
		DueDate:       optional(CLI.Task.Add.Due),
	})
	fmt.Printf("Added task %q (%s)\n", task.Title, task.ID)
	return nil
}

func runTaskDone(st *store.Store) error {
	done := true
	st.UpdateTask(CLI.Task.Done.ID, tracker.TaskPatch{
		Done:           &done,
		CompletionNote: optional(CLI.Task.Done.Note),
	})
	fmt.Println("Task marked as done")
	return nil
}

func runExport(st *store.Store) error {
	path := CLI.Export.Output
	if path == "" {
		path = export.BackupFilename(time.Now())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if err := tracker.EncodeBackup(f, st.ExportBackup()); err != nil {
		return err
	}
	fmt.Printf("Exported backup to %s\n", path)
	return nil
}

func runImport(st *store.Store) error {
	f, err := os.Open(CLI.Import.File)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	backup, err := tracker.DecodeBackup(f)
	if err != nil {
		return err
	}
	if err := st.ImportBackup(backup); err != nil {
		return err
	}

	state := st.State()
	fmt.Printf("Imported %d applications and %d tasks\n",
		len(state.Applications), len(state.Tasks))
	return nil
}

func runReport(st *store.Store) error {
	report := export.BuildMarkdownReport(st.State(), time.Now())

	if CLI.Report.Output == "" {
		fmt.Print(report)
		return nil
	}
	if err := os.WriteFile(CLI.Report.Output, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Wrote report to %s\n", CLI.Report.Output)
	return nil
}

func runReset(ctx context.Context, st *store.Store) error {
	if !CLI.Reset.Yes {
		fmt.Print("This deletes all tracked data. Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	st.Reset(ctx)
	fmt.Println("All data deleted.")
	return nil
}
