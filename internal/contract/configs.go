package contract

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/learnstat/schema"
)

// Default values for configuration.
const (
	DefaultInfoDenominator = 3
	DefaultTermDenominator = 60
	DefaultWindow          = 7
	MaxWindow              = 366
	MaxSpanDays            = 366
	DefaultPrecision       = 1
	DefaultStatsPath       = "learnstat.json"
	DefaultStatsTimeout    = 10 * time.Second
	DefaultCacheTTL        = 10 * time.Minute
	DefaultListen          = ":8080"
	DefaultDebounce        = 250 * time.Millisecond
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for building dashboards.
// This struct remains the "final, validated" config.
type Config struct {
	SessionID   string
	Period      schema.PeriodType
	CustomStart string // YYYY-MM-DD, only used with the custom period
	CustomEnd   string // YYYY-MM-DD, only used with the custom period
	Today       time.Time

	Denominators schema.Denominators
	Window       int

	StatsSource  schema.StatsSource
	StatsPath    string
	StatsURL     string
	StatsTimeout time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Listen   string
	Debounce time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Session         string `mapstructure:"session"`
	Period          string `mapstructure:"period"`
	Start           string `mapstructure:"start"`
	End             string `mapstructure:"end"`
	Today           string `mapstructure:"today"`
	InfoDenominator int    `mapstructure:"info-denominator"`
	TermDenominator int    `mapstructure:"term-denominator"`
	Window          int    `mapstructure:"window"`
	StatsSource     string `mapstructure:"stats-source"`
	StatsPath       string `mapstructure:"stats-path"`
	StatsURL        string `mapstructure:"stats-url"`
	StatsTimeout    string `mapstructure:"stats-timeout"`
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	CacheTTL        string `mapstructure:"cache-ttl"`
	RunsBackend     string `mapstructure:"runs-backend"`
	RunsDBConnect   string `mapstructure:"runs-db-connect"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Precision       int    `mapstructure:"precision"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`

	// --- Fields from serveCmd.Flags() ---
	Listen string `mapstructure:"listen"`

	// --- Fields from watchCmd.Flags() ---
	Debounce string `mapstructure:"debounce"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithPeriod creates a copy of the Config with a different period selection.
func (c *Config) CloneWithPeriod(period schema.PeriodType, start, end string) *Config {
	clone := c.Clone()
	clone.Period = period
	clone.CustomStart = start
	clone.CustomEnd = end
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPeriod(cfg, input); err != nil {
		return err
	}
	if err := processStatsSource(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processServerInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for the host:port address")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl value '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	// --- Run History Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("runs-db-connect: %w", err)
	}

	// Validate that cache and run history use different SQLite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		runsPath := cfg.RunsDBConnect
		if runsPath == "" {
			runsPath = GetRunsDBFilePath()
		}
		if filepath.Clean(cachePath) == filepath.Clean(runsPath) {
			return fmt.Errorf("cache and run history must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the rendering and engine fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.SessionID = strings.TrimSpace(input.Session)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseColorSetting(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Denominator Validation ---
	if input.InfoDenominator <= 0 {
		return fmt.Errorf("info-denominator must be greater than 0 (received %d)", input.InfoDenominator)
	}
	if input.TermDenominator <= 0 {
		return fmt.Errorf("term-denominator must be greater than 0 (received %d)", input.TermDenominator)
	}
	cfg.Denominators = schema.Denominators{Info: input.InfoDenominator, Terms: input.TermDenominator}

	// --- 2. Window Validation ---
	if input.Window < 1 || input.Window > MaxWindow {
		return fmt.Errorf("window must be between 1 and %d (received %d)", MaxWindow, input.Window)
	}
	cfg.Window = input.Window

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	return nil
}

// processPeriod resolves "today" and validates the period selection and custom bounds.
func processPeriod(cfg *Config, input *ConfigRawInput) error {
	today, err := ParseToday(input.Today, time.Now())
	if err != nil {
		return err
	}
	cfg.Today = today

	cfg.Period = schema.PeriodType(strings.ToLower(input.Period))
	if cfg.Period == "" {
		cfg.Period = schema.WeekPeriod
	}
	if _, ok := schema.ValidPeriodTypes[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be week, month, custom", input.Period)
	}

	cfg.CustomStart = strings.TrimSpace(input.Start)
	cfg.CustomEnd = strings.TrimSpace(input.End)
	bounds := []struct{ flag, value string }{
		{"start", cfg.CustomStart},
		{"end", cfg.CustomEnd},
	}
	for _, b := range bounds {
		if b.value == "" {
			continue
		}
		if _, err := time.Parse(schema.DayKeyLayout, b.value); err != nil {
			return fmt.Errorf("invalid --%s date '%s'. expected YYYY-MM-DD", b.flag, b.value)
		}
	}
	if cfg.Period == schema.CustomPeriod {
		if err := ValidateSpan(cfg.CustomStart, cfg.CustomEnd); err != nil {
			return err
		}
	}

	return nil
}

// ParseToday returns the calendar day that counts as "today". An empty value uses now.
func ParseToday(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation(schema.DayKeyLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today date '%s'. expected YYYY-MM-DD", value)
	}
	return t, nil
}

// processStatsSource validates where period statistics come from.
func processStatsSource(cfg *Config, input *ConfigRawInput) error {
	cfg.StatsSource = schema.StatsSource(strings.ToLower(input.StatsSource))
	if cfg.StatsSource == "" {
		cfg.StatsSource = schema.FileSource
	}
	if _, ok := schema.ValidStatsSources[cfg.StatsSource]; !ok {
		return fmt.Errorf("invalid stats source '%s'. must be file, http", input.StatsSource)
	}

	cfg.StatsTimeout = DefaultStatsTimeout
	if input.StatsTimeout != "" {
		timeout, err := time.ParseDuration(input.StatsTimeout)
		if err != nil {
			return fmt.Errorf("invalid --stats-timeout value '%s': %w", input.StatsTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("stats-timeout must be positive (received %s)", input.StatsTimeout)
		}
		cfg.StatsTimeout = timeout
	}

	switch cfg.StatsSource {
	case schema.FileSource:
		cfg.StatsPath = input.StatsPath
		if cfg.StatsPath == "" {
			cfg.StatsPath = DefaultStatsPath
		}
		switch strings.ToLower(filepath.Ext(cfg.StatsPath)) {
		case ".json", ".yaml", ".yml":
		default:
			return fmt.Errorf("stats-path must end with .json, .yaml or .yml (received %s)", cfg.StatsPath)
		}
	case schema.HTTPSource:
		cfg.StatsURL = strings.TrimRight(strings.TrimSpace(input.StatsURL), "/")
		if cfg.StatsURL == "" {
			return fmt.Errorf("stats-url is required when using the http stats source")
		}
		u, err := url.Parse(cfg.StatsURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid --stats-url '%s'. expected an http(s) base URL", input.StatsURL)
		}
	}

	return nil
}

// processServerInputs handles the serve and watch parameters.
func processServerInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Listen = input.Listen
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}

	cfg.Debounce = DefaultDebounce
	if input.Debounce != "" {
		debounce, err := time.ParseDuration(input.Debounce)
		if err != nil {
			return fmt.Errorf("invalid --debounce value '%s': %w", input.Debounce, err)
		}
		if debounce < 0 {
			return fmt.Errorf("debounce cannot be negative (received %s)", input.Debounce)
		}
		cfg.Debounce = debounce
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Selection holds the per-request overrides accepted by the MCP and HTTP surfaces.
// Empty fields and a zero window keep the base configuration.
type Selection struct {
	Session string
	Period  string
	Start   string
	End     string
	Window  int
}

// RevalidateSelection validates a per-request selection and applies it to cfg,
// which should be a clone of the shared configuration.
func RevalidateSelection(cfg *Config, sel Selection) error {
	if s := strings.TrimSpace(sel.Session); s != "" {
		cfg.SessionID = s
	}
	if cfg.SessionID == "" {
		return fmt.Errorf("session is required")
	}

	if sel.Period != "" {
		period := schema.PeriodType(strings.ToLower(sel.Period))
		if _, ok := schema.ValidPeriodTypes[period]; !ok {
			return fmt.Errorf("invalid period '%s'. must be week, month, custom", sel.Period)
		}
		cfg.Period = period
	}

	bounds := []struct {
		flag  string
		value string
		dst   *string
	}{
		{"start_date", strings.TrimSpace(sel.Start), &cfg.CustomStart},
		{"end_date", strings.TrimSpace(sel.End), &cfg.CustomEnd},
	}
	for _, b := range bounds {
		if b.value == "" {
			continue
		}
		if _, err := time.Parse(schema.DayKeyLayout, b.value); err != nil {
			return fmt.Errorf("invalid %s '%s'. expected YYYY-MM-DD", b.flag, b.value)
		}
		*b.dst = b.value
	}

	if sel.Window != 0 {
		if sel.Window < 1 || sel.Window > MaxWindow {
			return fmt.Errorf("window must be between 1 and %d (received %d)", MaxWindow, sel.Window)
		}
		cfg.Window = sel.Window
	}

	if cfg.Period == schema.CustomPeriod {
		return ValidateSpan(cfg.CustomStart, cfg.CustomEnd)
	}
	return nil
}

// ValidateSpan rejects inclusive date ranges longer than MaxSpanDays.
// Missing, malformed or inverted bounds pass, since they produce no oversized series.
func ValidateSpan(start, end string) error {
	if days := inclusiveDays(start, end); days > MaxSpanDays {
		return fmt.Errorf("date range %s to %s spans %d days. must be at most %d", start, end, days, MaxSpanDays)
	}
	return nil
}
