package contract

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/trendbox/schema"
)

// Default values for configuration.
const (
	DefaultTrailingWeeks = 6
	DefaultMonthCount    = 12
	DefaultPrecision     = 1
	DefaultTimezone      = "UTC"
	DefaultServeAddr     = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for one pipeline invocation.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	InputFormat schema.InputFormat
	Sheet       string
	HasHeader   bool
	Mapping     schema.FieldMapping

	TrailingWeeks int
	MonthCount    int
	ReferenceNow  time.Time
	Location      *time.Location

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	Style schema.Style

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	ServeAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct. Range checks live in the validate tags.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Input shape ---
	Format          string `mapstructure:"format"`
	Sheet           string `mapstructure:"sheet"`
	NoHeader        bool   `mapstructure:"no-header"`
	DateField       string `mapstructure:"date-field" validate:"required"`
	ValueField      string `mapstructure:"value-field" validate:"required"`
	TargetField     string `mapstructure:"target-field"`
	HistoricalField string `mapstructure:"historical-field"`

	// --- Window ---
	Weeks    int    `mapstructure:"weeks" validate:"min=1,max=520"`
	Months   int    `mapstructure:"months" validate:"min=1,max=240"`
	Now      string `mapstructure:"now"`
	Timezone string `mapstructure:"timezone"`

	// --- Series toggles ---
	ShowTargets     string `mapstructure:"show-targets"`
	ShowHistorical  string `mapstructure:"show-historical"`
	ShowGrowthRates string `mapstructure:"show-growth-rates"`

	// --- Output ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision" validate:"min=0,max=4"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width" validate:"min=0"`
	Verbose    bool   `mapstructure:"verbose"`

	// --- Style hints ---
	GraphNumber     int    `mapstructure:"graph-number" validate:"min=1"`
	LineColor       string `mapstructure:"line-color" validate:"omitempty,hexcolor"`
	HistoricalColor string `mapstructure:"historical-color" validate:"omitempty,hexcolor"`
	TargetColor     string `mapstructure:"target-color" validate:"omitempty,hexcolor"`

	// --- Run history ---
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report the flag name instead of the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ActiveMapping returns the field mapping with disabled optional series removed,
// so a hidden target or historical series is absent throughout the pipeline.
func (c *Config) ActiveMapping() schema.FieldMapping {
	m := c.Mapping
	if !c.Style.ShowTargets {
		m = m.WithoutTarget()
	}
	if !c.Style.ShowHistorical {
		m = m.WithoutHistorical()
	}
	return m
}

// Params returns the configuration recorded alongside a history run.
func (c *Config) Params() map[string]any {
	return map[string]any{
		"input":            c.InputPath,
		"format":           string(c.InputFormat),
		"date_field":       c.Mapping.Date.String(),
		"value_field":      c.Mapping.Value.String(),
		"target_field":     c.Mapping.Target.String(),
		"historical_field": c.Mapping.Historical.String(),
		"weeks":            c.TrailingWeeks,
		"months":           c.MonthCount,
		"reference_now":    c.ReferenceNow.Format(DateTimeFormat),
		"timezone":         c.Location.String(),
		"show_targets":     c.Style.ShowTargets,
		"show_historical":  c.Style.ShowHistorical,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validate.Struct(input); err != nil {
		return describeValidationError(err)
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInputSource(cfg, input); err != nil {
		return err
	}
	if err := processMapping(cfg, input); err != nil {
		return err
	}
	if err := processTimeSettings(cfg, input); err != nil {
		return err
	}
	if err := processStyle(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// describeValidationError flattens validator errors into one readable message.
func describeValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s (received %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s (received %q)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("%w: %s", schema.ErrInvalidArgument, strings.Join(parts, "; "))
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
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

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.Precision = input.Precision
	cfg.TrailingWeeks = input.Weeks
	cfg.MonthCount = input.Months

	cfg.ServeAddr = input.Addr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	return nil
}

// processInputSource resolves the input path and its format. The format falls
// back to the file extension and then to CSV.
func processInputSource(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)
	cfg.Sheet = strings.TrimSpace(input.Sheet)
	cfg.HasHeader = !input.NoHeader

	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = InferInputFormat(cfg.InputPath)
	}
	cfg.InputFormat = schema.InputFormat(format)
	if _, ok := schema.ValidInputFormats[cfg.InputFormat]; !ok {
		return fmt.Errorf("invalid input format '%s'. must be csv, json, xlsx", format)
	}
	if cfg.InputFormat == schema.XLSXInput && (cfg.InputPath == "" || cfg.InputPath == "-") {
		return fmt.Errorf("xlsx input cannot be read from stdin")
	}
	return nil
}

// InferInputFormat guesses the input format from a file extension.
func InferInputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return string(schema.JSONInput)
	case ".xlsx", ".xlsm":
		return string(schema.XLSXInput)
	default:
		return string(schema.CSVInput)
	}
}

// processMapping parses the field references. Date and value must be present;
// target and historical are optional.
func processMapping(cfg *Config, input *ConfigRawInput) error {
	refs := []struct {
		flag string
		raw  string
		dst  *schema.FieldRef
	}{
		{"date-field", input.DateField, &cfg.Mapping.Date},
		{"value-field", input.ValueField, &cfg.Mapping.Value},
		{"target-field", input.TargetField, &cfg.Mapping.Target},
		{"historical-field", input.HistoricalField, &cfg.Mapping.Historical},
	}
	for _, r := range refs {
		ref, err := schema.ParseFieldRef(r.raw)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", r.flag, err)
		}
		*r.dst = ref
	}
	return nil
}

// processTimeSettings resolves the time zone and the reference time used by
// the twelve-month window.
func processTimeSettings(cfg *Config, input *ConfigRawInput) error {
	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	cfg.Location = loc

	now, err := ParseReferenceTime(input.Now, time.Now(), loc)
	if err != nil {
		return err
	}
	cfg.ReferenceNow = now
	return nil
}

// processStyle fills the render hints, falling back to the chart defaults.
func processStyle(cfg *Config, input *ConfigRawInput) error {
	toggles := []struct {
		flag string
		raw  string
		dst  *bool
	}{
		{"show-targets", input.ShowTargets, &cfg.Style.ShowTargets},
		{"show-historical", input.ShowHistorical, &cfg.Style.ShowHistorical},
		{"show-growth-rates", input.ShowGrowthRates, &cfg.Style.ShowGrowthRates},
	}
	for _, tg := range toggles {
		if tg.raw == "" {
			*tg.dst = true
			continue
		}
		v, err := ParseBoolString(tg.raw)
		if err != nil {
			return fmt.Errorf("invalid --%s value: %w", tg.flag, err)
		}
		*tg.dst = v
	}

	cfg.Style.GraphNumber = input.GraphNumber
	cfg.Style.LineColor = orDefault(input.LineColor, schema.DefaultLineColor)
	cfg.Style.HistoricalColor = orDefault(input.HistoricalColor, schema.DefaultHistoricalColor)
	cfg.Style.TargetColor = orDefault(input.TargetColor, schema.DefaultTargetColor)
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
