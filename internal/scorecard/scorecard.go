// Package scorecard turns model contributions into the aggregated,
// display-ready footprint shown after the wizard completes.
package scorecard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scoring"
	"github.com/ecoguard/backend/pkg/utils"
)

// maxFactorHints caps how many lifestyle factors get a reduction hint
const maxFactorHints = 2

var factorHints = map[string]string{
	scoring.FactorTransport: "Reducing private transport mileage is the fastest way to lower your lifestyle score.",
	scoring.FactorAirTravel: "Replacing some flights with rail travel removes a large share of your footprint.",
	scoring.FactorHeating:   "Moving your heating away from coal or gas lowers your yearly base emissions.",
	scoring.FactorDiet:      "Shifting meals toward plant-based options reduces diet-related emissions.",
	scoring.FactorGroceries: "Buying local, seasonal groceries trims consumption emissions.",
	scoring.FactorClothing:  "Buying fewer new clothes each month cuts consumption emissions.",
	scoring.FactorWaste:     "Producing fewer or smaller waste bags each week lowers landfill emissions.",
}

// Build aggregates a prediction into a Scorecard.
//
// answers is optional; when present (and the result is not a fallback) the
// largest lifestyle factors get reduction suggestions.
func Build(result domain.PredictionResult, answers *domain.SurveyAnswers) domain.Scorecard {
	lifestyle := utils.Saturate(utils.NonNegative(result.Lifestyle), scoring.MaxTermKg)
	vision := scoring.VisionTotal(result.Vision)
	sensor := scoring.SensorContribution(result.Sensor)
	total := lifestyle + vision + sensor

	class := Classify(total)

	sc := domain.Scorecard{
		LifestyleKg:    lifestyle,
		VisionKg:       vision,
		SensorKg:       sensor,
		TotalKg:        total,
		Classification: class,
		Color:          ClassColor(class),
		OffsetUnits:    OffsetUnits(total),
		Breakdown: []domain.BreakdownEntry{
			{Source: domain.SourceLifestyle, Label: LabelLifestyle, KgCO2: lifestyle, Color: ColorLifestyle},
			{Source: domain.SourceVision, Label: LabelVision, KgCO2: utils.RoundTo(vision, 2), Color: ColorVision},
			{Source: domain.SourceSensor, Label: LabelSensor, KgCO2: sensor, Color: ColorSensor},
		},
		Fallback: result.Fallback,
	}

	if len(result.Vision) > 0 {
		sc.VisionLog = slices.Clone(result.Vision)
	}

	if result.Sensor != nil {
		sc.Sensor = &domain.SensorPanel{
			CurrentCumulativeKg: utils.Saturate(result.Sensor.CurrentCumulativeKg, scoring.MaxTermKg),
			PredictedMidnightKg: utils.Saturate(result.Sensor.PredictedMidnightKg, scoring.MaxTermKg),
			RawADCHistory:       slices.Clone(result.Sensor.RawADCHistory),
		}
	}

	sc.Suggestions = suggestions(sc, answers)
	return sc
}

// Classify maps a total to Low (< 1500), High (> 3500) or Medium
func Classify(totalKg float64) domain.Classification {
	switch {
	case totalKg < LowThresholdKg:
		return domain.ClassificationLow
	case totalKg > HighThresholdKg:
		return domain.ClassificationHigh
	default:
		return domain.ClassificationMedium
	}
}

// ClassColor returns the display colour of a classification
func ClassColor(c domain.Classification) string {
	switch c {
	case domain.ClassificationLow:
		return ColorLow
	case domain.ClassificationHigh:
		return ColorHigh
	default:
		return ColorMedium
	}
}

// OffsetUnits is the number of tree-years needed to absorb the total, rounded up
func OffsetUnits(totalKg float64) int {
	return utils.CeilDiv(utils.NonNegative(totalKg), TreeAbsorptionKgPerYear)
}

func suggestions(sc domain.Scorecard, answers *domain.SurveyAnswers) []string {
	out := []string{fmt.Sprintf("Your carbon footprint is classified as %s.", sc.Classification)}

	if sc.Fallback {
		out = append(out, "The prediction models were unavailable, so this estimate uses a typical lifestyle footprint.")
		return out
	}

	if answers != nil {
		factors := scoring.LifestyleBreakdown(*answers)
		slices.SortStableFunc(factors, func(a, b scoring.FactorContribution) int {
			return cmp.Compare(b.Kg, a.Kg)
		})

		hints := 0
		for _, f := range factors {
			hint, ok := factorHints[f.Factor]
			if !ok || f.Kg <= 0 {
				continue
			}
			out = append(out, hint)
			hints++
			if hints == maxFactorHints {
				break
			}
		}
	}

	if len(sc.VisionLog) > 0 {
		materials := make([]string, 0, len(sc.VisionLog))
		for _, item := range sc.VisionLog {
			if !slices.Contains(materials, item.Material) {
				materials = append(materials, item.Material)
			}
		}
		out = append(out, fmt.Sprintf(
			"Your waste scan found %s; sorting these for recycling prevents downstream emissions.",
			strings.Join(materials, ", "),
		))
	}

	if sc.Sensor != nil {
		out = append(out, fmt.Sprintf(
			"Your live gas sensor forecasts %s kg by midnight; improving ventilation keeps it in check.",
			FormatKg(sc.Sensor.PredictedMidnightKg, 2),
		))
	}

	return out
}
