package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"eventboard/internal/events"
	"eventboard/internal/notion"
)

// ErrMissingCredentials is returned by Validate when the Notion token or
// database id could not be resolved from the file or the environment.
var ErrMissingCredentials = errors.New("missing NOTION_TOKEN or NOTION_DATABASE_ID")

// PropertyOverrides name the database columns to try before the built-in
// guesses for each field.
type PropertyOverrides struct {
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Date     string `yaml:"date,omitempty" json:"date,omitempty"`
	Time     string `yaml:"time,omitempty" json:"time,omitempty"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	Price    string `yaml:"price,omitempty" json:"price,omitempty"`
}

// NotionConfig describes how to reach the content database.
type NotionConfig struct {
	// Token is the integration secret. Usually supplied via NOTION_TOKEN.
	Token string `yaml:"token,omitempty" json:"-"`
	// DatabaseID identifies the queried database.
	DatabaseID string `yaml:"database_id,omitempty" json:"database_id,omitempty"`
	BaseURL    string `yaml:"base_url" json:"base_url"`
	Version    string `yaml:"version" json:"version"`

	// PageSize is sent with every query; MaxRecords caps the whole fetch.
	PageSize   int `yaml:"page_size" json:"page_size"`
	MaxRecords int `yaml:"max_records" json:"max_records"`

	// Timeout bounds each query request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	Properties PropertyOverrides `yaml:"properties" json:"properties"`
}

// FilterConfig holds the allow/deny lists applied before publishing.
type FilterConfig struct {
	AllowedStatuses []string `yaml:"allowed_statuses" json:"allowed_statuses"`
	Place           string   `yaml:"place" json:"place"`
	DeniedTypes     []string `yaml:"denied_types" json:"denied_types"`
	MaxEvents       int      `yaml:"max_events" json:"max_events"`
	// Timezone is the IANA zone used to decide what "today" is. Empty means
	// the process local zone.
	Timezone string `yaml:"timezone,omitempty" json:"timezone,omitempty"`
}

// OutputConfig names the published artifacts.
type OutputConfig struct {
	Events string `yaml:"events" json:"events"`
	// ICS, if set, receives an iCalendar rendition of the same feed.
	ICS string `yaml:"ics,omitempty" json:"ics,omitempty"`
}

// DisplayConfig configures the board server (serve command).
type DisplayConfig struct {
	Listen string `yaml:"listen" json:"listen"`
	// Refresh is a standard 5-field cron expression for feed regeneration.
	// Empty disables periodic refresh.
	Refresh   string `yaml:"refresh" json:"refresh"`
	ImagesDir string `yaml:"images_dir" json:"images_dir"`
	// QRImage is shown next to the board title when set.
	QRImage string `yaml:"qr_image,omitempty" json:"qr_image,omitempty"`
}

// MetricsConfig controls run metrics export.
type MetricsConfig struct {
	// Textfile, if set, receives the metrics after every fetch run in the
	// node exporter textfile format.
	Textfile string `yaml:"textfile,omitempty" json:"textfile,omitempty"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// Config is the top-level application configuration.
type Config struct {
	Notion  NotionConfig  `yaml:"notion" json:"notion"`
	Filter  FilterConfig  `yaml:"filter" json:"filter"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Display DisplayConfig `yaml:"display" json:"display"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = notion.DefaultBaseURL
	}
	c.Notion.BaseURL = strings.TrimRight(c.Notion.BaseURL, "/")
	if c.Notion.Version == "" {
		c.Notion.Version = notion.DefaultVersion
	}
	if c.Notion.PageSize <= 0 {
		c.Notion.PageSize = notion.DefaultPageSize
	}
	if c.Notion.MaxRecords <= 0 {
		c.Notion.MaxRecords = notion.DefaultMaxRecords
	}
	if c.Notion.Timeout < 0 {
		c.Notion.Timeout = 0
	}

	rules := events.DefaultRules()
	if c.Filter.AllowedStatuses == nil {
		c.Filter.AllowedStatuses = rules.AllowedStatuses
	}
	if c.Filter.Place == "" {
		c.Filter.Place = rules.Place
	}
	if c.Filter.DeniedTypes == nil {
		c.Filter.DeniedTypes = rules.DeniedTypes
	}
	if c.Filter.MaxEvents <= 0 {
		c.Filter.MaxEvents = rules.MaxEvents
	}

	if c.Output.Events == "" {
		c.Output.Events = "public/events.json"
	}

	if c.Display.Listen == "" {
		c.Display.Listen = "127.0.0.1:8080"
	}
	if c.Display.ImagesDir == "" {
		c.Display.ImagesDir = "images"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks everything the fetch pipeline needs before the first
// network call.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Notion.Token) == "" || strings.TrimSpace(c.Notion.DatabaseID) == "" {
		return ErrMissingCredentials
	}
	if c.Display.Refresh != "" {
		if _, err := cron.ParseStandard(c.Display.Refresh); err != nil {
			return fmt.Errorf("config: invalid display.refresh %q: %w", c.Display.Refresh, err)
		}
	}
	if c.Filter.Timezone != "" {
		if _, err := time.LoadLocation(c.Filter.Timezone); err != nil {
			return fmt.Errorf("config: invalid filter.timezone %q: %w", c.Filter.Timezone, err)
		}
	}
	return nil
}

// Location resolves Filter.Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Filter.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Filter.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path and overlays the
// process environment.
//
// Behavior:
//   - If the file does not exist, defaults are used (see `config init` to
//     write one).
//   - If the file exists, YAML is unmarshalled into Config.
//   - Environment variables are applied last and win over the file.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// Run on defaults plus environment.
		default:
			return nil, err
		}
	}

	ApplyEnv(cfg, lookup)
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventboard-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
