package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/jobtracker/internal/config"
	"git.home.luguber.info/inful/jobtracker/internal/daemon"
	"git.home.luguber.info/inful/jobtracker/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"jobtracker.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct{} `cmd:"" help:"Run the tracker daemon with the local HTTP API"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a default configuration file"`

	Add struct {
		Company  string `arg:"" help:"Company name"`
		Position string `arg:"" help:"Position title"`
		Location string `help:"Job location"`
		Link     string `help:"Posting URL"`
		Source   string `help:"Where the posting was found"`
		Notes    string `help:"Free-form notes"`
	} `cmd:"" help:"Add a job application"`

	List struct {
		Status string `help:"Filter by status (All matches everything)"`
		Search string `help:"Filter by company or position"`
	} `cmd:"" help:"List job applications"`

	Status struct {
		ID     string `arg:"" help:"Application id"`
		Status string `arg:"" help:"New status"`
	} `cmd:"" help:"Change an application's status"`

	Task struct {
		Add struct {
			Title string `arg:"" help:"Task title"`
			App   string `help:"Application id the task belongs to"`
			Due   string `help:"Due date (YYYY-MM-DD)"`
		} `cmd:"" help:"Add a task"`

		Done struct {
			ID   string `arg:"" help:"Task id"`
			Note string `help:"Completion note"`
		} `cmd:"" help:"Mark a task as done"`
	} `cmd:"" help:"Manage tasks"`

	Export struct {
		Output string `short:"o" help:"Output file (defaults to a dated name)"`
	} `cmd:"" help:"Export a backup file"`

	Import struct {
		File string `arg:"" type:"existingfile" help:"Backup file to import"`
	} `cmd:"" help:"Import a backup file, replacing current data"`

	Report struct {
		Output string `short:"o" help:"Output file (defaults to stdout)"`
	} `cmd:"" help:"Render a markdown status report"`

	Reset struct {
		Yes bool `help:"Skip the confirmation prompt"`
	} `cmd:"" help:"Delete all tracked data"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := cfg.LogLevel()
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		if err := runServe(cfg, CLI.Config, logger); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	default:
		if err := runOneShot(ctx.Command(), cfg, logger); err != nil {
			slog.Error("Command failed", "error", err)
			os.Exit(1)
		}
	}
}

// runServe runs the daemon until SIGINT or SIGTERM.
func runServe(cfg *config.Config, configPath string, logger *slog.Logger) error {
	slog.Info("Starting jobtracker", "version", version.Version)

	d, err := daemon.New(cfg, configPath, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}
