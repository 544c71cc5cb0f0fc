package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/rosterboard/internal/config"
	"github.com/dgallion1/rosterboard/internal/render"
	"github.com/dgallion1/rosterboard/internal/service"
	"github.com/dgallion1/rosterboard/internal/sheets"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "rosterboard",
		Short:         "Render a filtered roster from a published Google Sheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newRenderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the components shared by every subcommand.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	client *sheets.Client
	stats  *sheets.FetchStats
	board  *render.Board
	page   *render.Page
	svc    *service.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := cfg.Level()
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	filter, err := cfg.FilterOptions()
	if err != nil {
		return nil, err
	}
	page, err := render.NewPage(cfg.PageTitle, cfg.PageIntro)
	if err != nil {
		return nil, err
	}

	stats := sheets.NewFetchStats(cfg.FetchStatsWindow)
	client := sheets.NewClient(cfg.SheetsBaseURL, cfg.SheetID, cfg.SheetName, stats)
	board := render.NewBoard()
	svc := service.New(client, board, service.Options{
		Filter:  filter,
		Genders: cfg.Genders(),
	}, log)

	return &app{
		cfg:    cfg,
		log:    log,
		client: client,
		stats:  stats,
		board:  board,
		page:   page,
		svc:    svc,
	}, nil
}

func (a *app) title() string {
	if a.cfg.PageTitle != "" {
		return a.cfg.PageTitle
	}
	return render.DefaultTitle
}
