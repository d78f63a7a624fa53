package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/franklin0603/schooldb"
)

// DefaultHighSchoolsURL is the published high-school directory extract.
const DefaultHighSchoolsURL = "https://raw.githubusercontent.com/sql-fundamentals-jigsaw/mod-1-sql-curriculum/master/2-sql-relations/2-belongs-to-hs/data/highschools.csv"

// Config represents the application configuration.
type Config struct {
	Database        string        `mapstructure:"database" yaml:"database"`
	Sources         Sources       `mapstructure:"sources" yaml:"sources"`
	IdentifierMode  string        `mapstructure:"identifier_mode" yaml:"identifier_mode"`
	AnalyticsErrors string        `mapstructure:"analytics_errors" yaml:"analytics_errors"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	Log             Log           `mapstructure:"log" yaml:"log"`
}

// Sources holds the locators used by the seed command.
type Sources struct {
	HighSchools string `mapstructure:"high_schools" yaml:"high_schools"`
	SATRecords  string `mapstructure:"sat_records" yaml:"sat_records"`
}

// Log holds logging preferences.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate reports the first setting that cannot be used.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Database) == "" {
		return fmt.Errorf("database: path must not be empty")
	}
	if _, err := cfg.identifierMode(); err != nil {
		return err
	}
	if _, err := cfg.errorPolicy(); err != nil {
		return err
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout: must be positive, got %s", cfg.HTTPTimeout)
	}
	if _, err := cfg.level(); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}
	return nil
}

// Logger builds the slog logger described by the log section.
func (cfg *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Options converts the configuration into Database options.
func (cfg *Config) Options(logger *slog.Logger) ([]schooldb.Option, error) {
	mode, err := cfg.identifierMode()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.errorPolicy()
	if err != nil {
		return nil, err
	}
	return []schooldb.Option{
		schooldb.WithLogger(logger),
		schooldb.WithIdentifierMode(mode),
		schooldb.WithAnalyticsErrorPolicy(policy),
		schooldb.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}, nil
}

func (cfg *Config) identifierMode() (schooldb.IdentifierMode, error) {
	switch cfg.IdentifierMode {
	case "strict":
		return schooldb.IdentifierStrict, nil
	case "raw":
		return schooldb.IdentifierRaw, nil
	default:
		return 0, fmt.Errorf("identifier_mode: unknown mode %q", cfg.IdentifierMode)
	}
}

func (cfg *Config) errorPolicy() (schooldb.ErrorPolicy, error) {
	switch cfg.AnalyticsErrors {
	case "swallow":
		return schooldb.SwallowErrors, nil
	case "return":
		return schooldb.ReturnErrors, nil
	default:
		return 0, fmt.Errorf("analytics_errors: unknown policy %q", cfg.AnalyticsErrors)
	}
}

func (cfg *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
