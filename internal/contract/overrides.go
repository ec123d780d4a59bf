package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/trendbox/schema"
)

// Overrides carries per-request settings from the HTTP and MCP surfaces.
// Zero values keep the base configuration.
type Overrides struct {
	DateField       string `json:"date_field"`
	ValueField      string `json:"value_field"`
	TargetField     string `json:"target_field"`
	HistoricalField string `json:"historical_field"`
	Weeks           int    `json:"weeks" mapstructure:"weeks" validate:"omitempty,min=1,max=520"`
	Months          int    `json:"months" mapstructure:"months" validate:"omitempty,min=1,max=240"`
	Now             string `json:"now"`
	Timezone        string `json:"timezone"`
	ShowTargets     *bool  `json:"show_targets"`
	ShowHistorical  *bool  `json:"show_historical"`
}

// ApplyOverrides returns a copy of base with o layered on top. An explicit
// reference time or time zone is resolved again against the wall clock.
func ApplyOverrides(base *Config, o Overrides) (*Config, error) {
	if err := validate.Struct(o); err != nil {
		return nil, describeValidationError(err)
	}

	cfg := base.Clone()

	refs := []struct {
		name string
		raw  string
		dst  *schema.FieldRef
	}{
		{"date_field", o.DateField, &cfg.Mapping.Date},
		{"value_field", o.ValueField, &cfg.Mapping.Value},
		{"target_field", o.TargetField, &cfg.Mapping.Target},
		{"historical_field", o.HistoricalField, &cfg.Mapping.Historical},
	}
	for _, r := range refs {
		if strings.TrimSpace(r.raw) == "" {
			continue
		}
		ref, err := schema.ParseFieldRef(r.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", r.name, err)
		}
		*r.dst = ref
	}

	if o.Weeks > 0 {
		cfg.TrailingWeeks = o.Weeks
	}
	if o.Months > 0 {
		cfg.MonthCount = o.Months
	}
	if o.ShowTargets != nil {
		cfg.Style.ShowTargets = *o.ShowTargets
	}
	if o.ShowHistorical != nil {
		cfg.Style.ShowHistorical = *o.ShowHistorical
	}

	if tz := strings.TrimSpace(o.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timezone '%s'", schema.ErrInvalidArgument, tz)
		}
		cfg.Location = loc
		if !cfg.ReferenceNow.IsZero() {
			cfg.ReferenceNow = cfg.ReferenceNow.In(loc)
		}
	}
	if strings.TrimSpace(o.Now) != "" {
		now, err := ParseReferenceTime(o.Now, time.Now(), cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrInvalidArgument, err)
		}
		cfg.ReferenceNow = now
	}

	return cfg, nil
}
