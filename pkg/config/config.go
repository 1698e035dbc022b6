package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/chaunnm/update-ranking-daily/pkg/batch"
	"github.com/chaunnm/update-ranking-daily/pkg/grid"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"
	"github.com/chaunnm/update-ranking-daily/pkg/updater"

	"github.com/pelletier/go-toml/v2"
)

const DefaultFilename = "update-ranking.toml"

// Settings is the part of the configuration persisted to the toml file.
type Settings struct {
	ListenAddress   string
	CredentialsFile string

	// Sheets per batch and how many of them may run at once.
	BatchSize int
	Workers   int

	HeaderRow    int
	DataStartRow int
	// DateLayout is a Go time layout; "02/01" gives DD/MM.
	DateLayout string
	// Timezone is an IANA name or "Local".
	Timezone      string
	ReapplyFilter bool

	RequestsPerMinute     int
	MaxRetries            int
	RequestTimeoutSeconds int
}

type Config struct {
	Filename string
	Store    Settings
	// CredentialsJSON comes from the environment only and is never saved.
	CredentialsJSON []byte
}

func defaultSettings() Settings {
	layout := grid.DefaultLayout()
	return Settings{
		ListenAddress:     ":3000",
		CredentialsFile:   "credentials.json",
		BatchSize:         batch.DefaultSize,
		Workers:           1,
		HeaderRow:         layout.HeaderRow,
		DataStartRow:      layout.DataStartRow,
		DateLayout:        updater.DefaultDateLayout,
		Timezone:          "Local",
		ReapplyFilter:     true,
		RequestsPerMinute: 60,
	}
}

// Write the current config out to a toml file.
func (c *Config) Save() error {
	b, err := toml.Marshal(c.Store)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Filename, b, 0644)
}

// Load the current config from a toml file.
func (c *Config) Load() error {
	b, err := os.ReadFile(c.Filename)
	if err != nil {
		return err
	}
	return toml.Unmarshal(b, &c.Store)
}

// New reads filename, writing one with default settings when it does not
// exist yet, then applies environment overrides.
func New(filename string) (*Config, error) {
	c := &Config{
		Filename: filename,
		Store:    defaultSettings(),
	}
	if err := c.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", filename, err)
		}
		if err := c.Save(); err != nil {
			return nil, fmt.Errorf("write default config %s: %w", filename, err)
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Store.ListenAddress = ":" + port
	}
	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		c.Store.CredentialsFile = path
	}
	if creds := os.Getenv("GOOGLE_SHEETS_CREDENTIALS"); creds != "" {
		c.CredentialsJSON = []byte(creds)
	}
}

func (c *Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if c.Store.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.Store.BatchSize)
	}
	if c.Store.DateLayout == "" {
		return errors.New("date layout must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Layout() grid.Layout {
	return grid.Layout{HeaderRow: c.Store.HeaderRow, DataStartRow: c.Store.DataStartRow}
}

func (c *Config) Location() (*time.Location, error) {
	if c.Store.Timezone == "" || c.Store.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Store.Timezone, err)
	}
	return loc, nil
}

// RequestTimeout bounds the processing of one request. Zero means no limit.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Store.RequestTimeoutSeconds) * time.Second
}

func (c *Config) BatchOptions() batch.Options {
	return batch.Options{Size: c.Store.BatchSize, Workers: c.Store.Workers}
}

func (c *Config) Credentials() sheets.Credentials {
	return sheets.Credentials{File: c.Store.CredentialsFile, JSON: c.CredentialsJSON}
}

func (c *Config) SheetsOptions() sheets.Options {
	return sheets.Options{
		RequestsPerMinute: c.Store.RequestsPerMinute,
		MaxRetries:        c.Store.MaxRetries,
	}
}

func (c *Config) UpdaterOptions() (updater.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return updater.Options{}, err
	}
	return updater.Options{
		Layout:        c.Layout(),
		DateLayout:    c.Store.DateLayout,
		Location:      loc,
		ReapplyFilter: c.Store.ReapplyFilter,
	}, nil
}
