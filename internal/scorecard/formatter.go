package scorecard

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/pkg/utils"
)

// printer formats numbers with English thousand separators
var printer = message.NewPrinter(language.English)

// FormatKg formats a kilogram value with thousand separators and fixed precision.
// Example: FormatKg(12345.678, 1) returns "12,345.7".
func FormatKg(kg float64, precision int) string {
	formatted := strconv.FormatFloat(utils.RoundTo(kg, precision), 'f', precision, 64)

	intPart, frac, hasFrac := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}

	grouped := printer.Sprintf("%d", n)
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

// Summary renders a plain-text scorecard for terminals and logs
func Summary(sc domain.Scorecard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total estimated footprint: %s kg/yr (%s)\n", FormatKg(sc.TotalKg, 1), sc.Classification)
	fmt.Fprintf(&b, "Requires %s trees to offset annually\n", printer.Sprintf("%d", sc.OffsetUnits))
	b.WriteString("\n")

	for _, e := range sc.Breakdown {
		fmt.Fprintf(&b, "  %-16s %12s kg\n", e.Label, FormatKg(e.KgCO2, 2))
	}

	if len(sc.VisionLog) > 0 {
		b.WriteString("\nComputer vision log:\n")
		for _, item := range sc.VisionLog {
			fmt.Fprintf(&b, "  %-12s %3.0f%%  %8.1fg  %.3f kg\n",
				item.Material, item.Confidence*100, item.WeightG, item.CarbonKg)
		}
	}

	if sc.Sensor != nil {
		fmt.Fprintf(&b, "\nLive sensor: %s kg so far, %s kg predicted by midnight\n",
			FormatKg(sc.Sensor.CurrentCumulativeKg, 2), FormatKg(sc.Sensor.PredictedMidnightKg, 2))
	}

	if len(sc.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range sc.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	return b.String()
}
