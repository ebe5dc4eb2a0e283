package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/cli"
	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	opts := []service.CalendarOption{
		service.WithLogger(logger),
		service.WithDirectory(calendar.StaticDirectory(cfg.People)),
	}
	if cfg.LogCalls {
		opts = append(opts, service.WithObserver(service.NewLogUseCaseObserver(os.Stderr)))
	}

	eventRepo := repository.NewSQLiteEventRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	view, _ := domain.ParseViewMode(cfg.DefaultView)

	app := &cli.App{
		Calendar:       service.NewCalendarService(eventRepo, uow, opts...),
		DefaultProject: cfg.DefaultProject,
		DefaultView:    view,
		Config:         cfg,
		ConfigPath:     config.Path(),
	}

	// Forms and the TUI only run on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
