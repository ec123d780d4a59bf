package schema

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/guregu/null.v3"
)

// NotAvailable is shown in place of an absent metric.
const NotAvailable = "N/A"

// groupPrinter formats numbers with thousands separators.
var groupPrinter = message.NewPrinter(language.English)

// FormatValue renders v with thousands grouping and the given decimal precision.
func FormatValue(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return groupPrinter.Sprintf(fmt.Sprintf("%%.%df", precision), v)
}

// FormatPercent renders a signed one-decimal percentage, or N/A when absent.
func FormatPercent(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%+.1f%%", v.Float64)
}

// FormatOptional renders an optional measure, or N/A when absent.
func FormatOptional(v null.Float, precision int) string {
	if !v.Valid {
		return NotAvailable
	}
	return FormatValue(v.Float64, precision)
}

// BoxScoreItems lays out the box score the way the chart shows it.
func BoxScoreItems(variant Variant, box BoxScore, precision int) []BoxScoreItem {
	return []BoxScoreItem{
		{Label: variant.LastValueLabel(), Display: FormatValue(box.LastValue, precision)},
		{Label: variant.PriorPeriodLabel(), Display: FormatPercent(box.WeekOverWeek)},
		{Label: "YoY", Display: FormatPercent(box.YearOverYear)},
		{Label: "MTD", Display: FormatPercent(box.MonthToDate)},
		{Label: "QTD", Display: FormatPercent(box.QuarterToDate)},
		{Label: "YTD", Display: FormatPercent(box.YearToDate)},
	}
}

// NullableFloat converts an optional measure into a pointer for storage layers.
func NullableFloat(v null.Float) *float64 {
	return v.Ptr()
}
