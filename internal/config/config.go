package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dgallion1/rosterboard/internal/roster"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream sheet
	SheetsBaseURL string `env:"SHEETS_BASE_URL" envDefault:"https://docs.google.com"`
	SheetID       string `env:"SHEET_ID" envDefault:"1_Kgl8UQXRsVATt_BOHYQjVWYKkRIBA12R-qnsBoSUzc"`
	SheetName     string `env:"SHEET_NAME" envDefault:"បញ្ជឺឈ្មោះរួម"`

	// Row selection
	FilterRole string `env:"FILTER_ROLE" envDefault:"ប្រធានក្រុម-DI"`
	Columns    string `env:"COLUMNS" envDefault:"id=E,group=G,name=L,gender=N,role=S,telegram=W"`
	HeaderRows int    `env:"HEADER_ROWS" envDefault:"8"`

	// Tally literals
	GenderMale   string `env:"GENDER_MALE" envDefault:"ប្រុស"`
	GenderFemale string `env:"GENDER_FEMALE" envDefault:"ស្រី"`

	// Page
	PageTitle string `env:"PAGE_TITLE"`
	PageIntro string `env:"PAGE_INTRO"`

	FetchStatsWindow time.Duration `env:"FETCH_STATS_WINDOW" envDefault:"1h"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over .env.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FetchStatsWindow <= 0 {
		cfg.FetchStatsWindow = time.Hour
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SheetID == "" {
		return fmt.Errorf("SHEET_ID is required")
	}
	if c.SheetName == "" {
		return fmt.Errorf("SHEET_NAME is required")
	}
	if c.FilterRole == "" {
		return fmt.Errorf("FILTER_ROLE is required")
	}
	if c.HeaderRows < 0 {
		return fmt.Errorf("HEADER_ROWS must not be negative, got %d", c.HeaderRows)
	}
	if c.GenderMale == "" || c.GenderFemale == "" {
		return fmt.Errorf("GENDER_MALE and GENDER_FEMALE are required")
	}
	if c.GenderMale == c.GenderFemale {
		return fmt.Errorf("GENDER_MALE and GENDER_FEMALE must differ")
	}
	if _, err := roster.ParseColumns(c.Columns); err != nil {
		return fmt.Errorf("COLUMNS: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// FilterOptions builds the row filter settings.
func (c Config) FilterOptions() (roster.Options, error) {
	cols, err := roster.ParseColumns(c.Columns)
	if err != nil {
		return roster.Options{}, fmt.Errorf("COLUMNS: %w", err)
	}
	return roster.Options{
		Columns:    cols,
		HeaderRows: c.HeaderRows,
		Role:       c.FilterRole,
	}, nil
}

func (c Config) Genders() roster.Genders {
	return roster.Genders{Male: c.GenderMale, Female: c.GenderFemale}
}

// Level maps LOG_LEVEL to a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
