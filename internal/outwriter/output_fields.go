package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
)

// PrintFieldDefinitions displays the row fields the pipeline reads and how each
// chart variant windows them. This is a static display that reads no input.
func PrintFieldDefinitions(cfg *contract.Config) error {
	renderModel := BuildFieldsRenderModel(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONFields(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVFields(w, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printFieldsText(w, renderModel)
		}, "Wrote text")
	}
}

// printFieldsText displays the field definitions in human-readable text format.
func printFieldsText(w io.Writer, m *schema.FieldsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📊 %s\n%s\n\n", m.Title, m.Description); err != nil {
		return err
	}

	for _, f := range m.Fields {
		current := f.Current
		if current == "" {
			current = "(disabled)"
		}
		need := "optional"
		if f.Required {
			need = "required"
		}
		if _, err := fmt.Fprintf(w, "--%s (%s, %s): %s\n   Current: %s\n", f.Flag, f.Role, need, f.Description, current); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n🗓️  Variants\n"); err != nil {
		return err
	}
	for _, v := range m.Variants {
		if _, err := fmt.Fprintf(w, "%s: %s buckets, %s. Box score: %s, %s\n", v.Name, v.Granularity, v.Window, v.LastLabel, v.PriorLabel); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n📐 Growth Metrics\n"); err != nil {
		return err
	}
	for _, key := range metricOrder {
		if _, err := fmt.Fprintf(w, "%s: %s\n", key, m.Metrics[key]); err != nil {
			return err
		}
	}
	return nil
}

// metricOrder is the box score order of the growth metrics.
var metricOrder = []string{"WoW", "YoY", "MTD", "QTD", "YTD"}

// BuildFieldsRenderModel describes the configured fields, variants and growth metrics.
func BuildFieldsRenderModel(cfg *contract.Config) *schema.FieldsRenderModel {
	mapping := cfg.ActiveMapping()
	return &schema.FieldsRenderModel{
		Title:       "Trendbox Fields",
		Description: "Fields are addressed by header name or by 1-based position (#N)",
		Fields: []schema.FieldRole{
			{Flag: "date-field", Role: "dimension", Required: true, Current: mapping.Date.String(), Description: "Calendar date of the observation"},
			{Flag: "value-field", Role: "measure", Required: true, Current: mapping.Value.String(), Description: "Primary measure that is charted and compared"},
			{Flag: "target-field", Role: "measure", Required: false, Current: mapping.Target.String(), Description: "Goal for the same date"},
			{Flag: "historical-field", Role: "measure", Required: false, Current: mapping.Historical.String(), Description: "Same measure one year earlier, used for YoY and to-date growth"},
		},
		Variants: []schema.VariantDefinition{
			{
				Name:        schema.SixWeekVariant,
				Granularity: schema.SixWeekVariant.BucketGranularity(),
				Window:      "last " + strconv.Itoa(cfg.TrailingWeeks) + " buckets",
				LastLabel:   schema.SixWeekVariant.LastValueLabel(),
				PriorLabel:  schema.SixWeekVariant.PriorPeriodLabel(),
			},
			{
				Name:        schema.TwelveMonthVariant,
				Granularity: schema.TwelveMonthVariant.BucketGranularity(),
				Window:      "points within " + strconv.Itoa(cfg.MonthCount) + " months of the reference time",
				LastLabel:   schema.TwelveMonthVariant.LastValueLabel(),
				PriorLabel:  schema.TwelveMonthVariant.PriorPeriodLabel(),
			},
		},
		Metrics: map[string]string{
			"WoW": "last bucket vs the bucket before it",
			"YoY": "last bucket vs its historical value",
			"MTD": "last bucket vs the historical value of the first bucket in its month",
			"QTD": "last bucket vs the historical value of the first bucket in its quarter",
			"YTD": "last bucket vs the historical value of the first bucket in its year",
		},
	}
}
