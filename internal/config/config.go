package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these paths
	// are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "kennel"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "kennel"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: KENNEL_* (highest among these sources)
	v.SetEnvPrefix("kennel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}

	// Allow comma-separated env override for list.columns
	if s, ok := v.Get("list.columns").(string); ok {
		v.Set("list.columns", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/kennel or ~/.local/share/kennel
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "kennel")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "kennel")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "kennel", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

var (
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"console", "json"}
	OutputFormats = []string{"plain", "pretty", "json", "ndjson", "tui"}
	ListColumns   = []string{"id", "name", "breed", "age", "gender", "weight", "intake", "flags"}
)

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/kennel.db"},
		{Key: "storage_url", Default: "", Comment: "Annotation store: sqlite://path, postgres://... or mem://; empty uses data_dir/kennel.db"},
		{Key: "http_addr", Default: "127.0.0.1:8080", Comment: "Listen address for `kennel-cli serve`"},

		{Key: "api.url", Default: "https://proxy.crbapps.com", Comment: "Base URL of the adoption listing service"},
		{Key: "api.page_size", Default: 200, Comment: "Dogs requested from the listing in one call"},
		{Key: "api.timeout", Default: "15s", Comment: "Per-request timeout for the listing service"},

		{Key: "backfill.concurrency", Default: 4, Comment: "Parallel detail lookups when refreshing photos of unlisted dogs"},
		{Key: "catalog.strict", Default: false, Comment: "Fail loading on listing records with an unknown age group instead of skipping them"},

		{Key: "log.level", Default: "warn", Comment: "Log level: debug, info, warn or error"},
		{Key: "log.format", Default: "console", Comment: "Log encoding: console or json"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required by the HTTP API; empty disables auth"},
		{Key: "server.refresh_minutes", Default: 30, Comment: "Reload the listing this often while serving; 0 disables"},

		{Key: "export.output", Default: "plain", Comment: "Default output for list: plain, pretty, json, ndjson or tui"},
		{Key: "list.columns", Default: slices.Clone(ListColumns), Comment: "Columns shown by plain list output"},
	}
}

// ResolveStorageURL returns storage_url, or the sqlite file under data_dir.
func ResolveStorageURL(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("storage_url")); u != "" {
		return u
	}
	return "sqlite://" + ResolveDBPath(v)
}

// ResolveDBPath uses data_dir and defaults to return the sqlite DB file path.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "kennel.db")
}

// Config is the typed view of the settings the app wires from.
type Config struct {
	StorageURL          string
	HTTPAddr            string
	APIURL              string
	APIPageSize         int
	APITimeout          time.Duration
	BackfillConcurrency int
	Strict              bool
	LogLevel            string
	LogFormat           string
	AuthToken           string
	RefreshEvery        time.Duration
	Output              string
	Columns             []string
}

// FromViper reads a Config out of a loaded Viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		StorageURL:          ResolveStorageURL(v),
		HTTPAddr:            v.GetString("http_addr"),
		APIURL:              v.GetString("api.url"),
		APIPageSize:         v.GetInt("api.page_size"),
		APITimeout:          v.GetDuration("api.timeout"),
		BackfillConcurrency: v.GetInt("backfill.concurrency"),
		Strict:              v.GetBool("catalog.strict"),
		LogLevel:            v.GetString("log.level"),
		LogFormat:           v.GetString("log.format"),
		AuthToken:           v.GetString("auth.token"),
		RefreshEvery:        time.Duration(v.GetInt("server.refresh_minutes")) * time.Minute,
		Output:              v.GetString("export.output"),
		Columns:             v.GetStringSlice("list.columns"),
	}
}

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if s := strings.TrimSpace(v.GetString("storage_url")); s != "" {
		scheme, _, ok := strings.Cut(s, "://")
		if !ok || !slices.Contains([]string{"sqlite", "file", "postgres", "postgresql", "mem"}, scheme) {
			add("storage_url %q must use sqlite://, postgres:// or mem://", s)
		}
	}
	if u, err := url.ParseRequestURI(v.GetString("api.url")); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		add("api.url must be an http(s) url")
	}
	if v.GetInt("api.page_size") <= 0 {
		add("api.page_size must be greater than 0")
	}
	if d, err := time.ParseDuration(v.GetString("api.timeout")); err != nil || d <= 0 {
		add("api.timeout must be a positive duration")
	}
	if v.GetInt("backfill.concurrency") <= 0 {
		add("backfill.concurrency must be greater than 0")
	}
	if l := v.GetString("log.level"); !slices.Contains(LogLevels, l) {
		add("log.level %q must be one of %s", l, strings.Join(LogLevels, ", "))
	}
	if f := v.GetString("log.format"); !slices.Contains(LogFormats, f) {
		add("log.format %q must be one of %s", f, strings.Join(LogFormats, ", "))
	}
	if v.GetInt("server.refresh_minutes") < 0 {
		add("server.refresh_minutes must not be negative")
	}
	if o := v.GetString("export.output"); !slices.Contains(OutputFormats, o) {
		add("export.output %q must be one of %s", o, strings.Join(OutputFormats, ", "))
	}
	for _, c := range v.GetStringSlice("list.columns") {
		if !slices.Contains(ListColumns, c) {
			add("list.columns has unknown column %q", c)
		}
	}
	return errs
}
