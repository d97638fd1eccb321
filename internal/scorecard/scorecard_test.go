package scorecard

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scoring"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		total float64
		want  domain.Classification
	}{
		{0, domain.ClassificationLow},
		{1499, domain.ClassificationLow},
		{1499.99, domain.ClassificationLow},
		{1500, domain.ClassificationMedium},
		{2435, domain.ClassificationMedium},
		{3500, domain.ClassificationMedium},
		{3500.01, domain.ClassificationHigh},
		{3501, domain.ClassificationHigh},
	}

	for _, tt := range tests {
		sc := Build(domain.PredictionResult{Lifestyle: tt.total}, nil)
		assert.Equal(t, tt.want, sc.Classification, "total %v", tt.total)
		assert.Equal(t, tt.want, Classify(tt.total))
	}
}

func TestOffsetUnits(t *testing.T) {
	assert.Equal(t, 100, Build(domain.PredictionResult{Lifestyle: 2170}, nil).OffsetUnits)
	assert.Equal(t, 101, Build(domain.PredictionResult{Lifestyle: 2171}, nil).OffsetUnits)
	assert.Equal(t, 0, OffsetUnits(0))
	assert.Equal(t, 1, OffsetUnits(0.5))
	assert.Equal(t, 113, OffsetUnits(FallbackLifestyleKg))
	assert.Equal(t, math.MaxInt, OffsetUnits(math.Inf(1)))
	assert.Equal(t, math.MaxInt, OffsetUnits(math.MaxFloat64))
	assert.Equal(t, 0, OffsetUnits(math.NaN()))
}

func TestBuild_SaturatesHugeContributions(t *testing.T) {
	answers := domain.DefaultAnswers()
	answers.MonthlyGroceryBill = 1.5e308

	sc := Build(domain.PredictionResult{
		Lifestyle: scoring.Lifestyle(answers),
		Vision: []domain.DetectedItem{
			{Material: "plastic", CarbonKg: math.MaxFloat64},
			{Material: "metal", CarbonKg: math.MaxFloat64},
		},
		Sensor: &domain.SensorFeed{PredictedMidnightKg: math.Inf(1)},
	}, &answers)

	assert.False(t, math.IsInf(sc.TotalKg, 0))
	assert.Equal(t, scoring.MaxTermKg, sc.VisionKg)
	assert.Equal(t, scoring.MaxTermKg, sc.SensorKg)
	assert.Equal(t, scoring.MaxTermKg, sc.Sensor.PredictedMidnightKg)
	assert.Equal(t, domain.ClassificationHigh, sc.Classification)
	assert.Equal(t, OffsetUnits(sc.TotalKg), sc.OffsetUnits)
	assert.Positive(t, sc.OffsetUnits)

	_, err := json.Marshal(sc)
	assert.NoError(t, err)

	sc = Build(domain.PredictionResult{Lifestyle: math.Inf(1)}, nil)
	assert.Equal(t, scoring.MaxTermKg, sc.LifestyleKg)
}

func TestBuild_LifestyleOnly(t *testing.T) {
	sc := Build(domain.PredictionResult{Lifestyle: 1352}, nil)

	assert.Equal(t, 1352.0, sc.TotalKg)
	assert.Equal(t, domain.ClassificationLow, sc.Classification)
	assert.Equal(t, ColorLow, sc.Color)
	assert.Nil(t, sc.VisionLog, "vision log is omitted without detections")
	assert.Nil(t, sc.Sensor)

	require.Len(t, sc.Breakdown, 3, "every source is listed even when absent")
	assert.Equal(t, domain.BreakdownEntry{Source: domain.SourceLifestyle, Label: LabelLifestyle, KgCO2: 1352, Color: ColorLifestyle}, sc.Breakdown[0])
	assert.Equal(t, 0.0, sc.Breakdown[1].KgCO2)
	assert.Equal(t, 0.0, sc.Breakdown[2].KgCO2)
}

func TestBuild_TriModal(t *testing.T) {
	result := domain.PredictionResult{
		Lifestyle: 3400,
		Vision: []domain.DetectedItem{
			{Material: "plastic", Confidence: 0.97, WeightG: 82.9, CarbonKg: 0.207},
			{Material: "cardboard", Confidence: 0.89, WeightG: 150.5, CarbonKg: 0.135},
		},
		Sensor: &domain.SensorFeed{
			RawADCHistory:       []float64{110, 120, 130},
			CurrentCumulativeKg: 40.5,
			PredictedMidnightKg: 99.8,
		},
	}

	sc := Build(result, nil)

	assert.InDelta(t, 3500.142, sc.TotalKg, 1e-9)
	assert.Equal(t, domain.ClassificationHigh, sc.Classification)
	assert.Equal(t, ColorHigh, sc.Color)
	assert.Equal(t, 0.34, sc.Breakdown[1].KgCO2)
	assert.Equal(t, 99.8, sc.Breakdown[2].KgCO2)
	assert.Equal(t, result.Vision, sc.VisionLog)
	require.NotNil(t, sc.Sensor)
	assert.Equal(t, []float64{110, 120, 130}, sc.Sensor.RawADCHistory)
	assert.Equal(t, 40.5, sc.Sensor.CurrentCumulativeKg)

	assert.Contains(t, sc.Suggestions, "Your waste scan found plastic, cardboard; sorting these for recycling prevents downstream emissions.")
	assert.Contains(t, sc.Suggestions, "Your live gas sensor forecasts 99.80 kg by midnight; improving ventilation keeps it in check.")
}

func TestBuild_Fallback(t *testing.T) {
	sc := Build(domain.PredictionResult{Lifestyle: FallbackLifestyleKg, Fallback: true}, nil)

	assert.Equal(t, FallbackLifestyleKg, sc.TotalKg)
	assert.True(t, sc.Fallback)
	assert.Equal(t, domain.ClassificationMedium, sc.Classification)
	require.Len(t, sc.Suggestions, 2)
	assert.Contains(t, sc.Suggestions[1], "unavailable")
}

func TestBuild_FactorSuggestions(t *testing.T) {
	answers := domain.DefaultAnswers()
	answers.Transport = domain.TransportPrivate
	answers.VehicleType = domain.VehicleDiesel
	answers.VehicleMonthlyDistanceKm = 5000
	answers.AirTravel = domain.AirVeryFrequently

	sc := Build(domain.PredictionResult{Lifestyle: 6000}, &answers)

	require.Len(t, sc.Suggestions, 3)
	assert.Equal(t, "Your carbon footprint is classified as High.", sc.Suggestions[0])
	assert.Equal(t, factorHints["air_travel"], sc.Suggestions[1])
	assert.Equal(t, factorHints["transport"], sc.Suggestions[2])
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	result := domain.PredictionResult{
		Vision: []domain.DetectedItem{{Material: "glass", CarbonKg: 1}},
		Sensor: &domain.SensorFeed{RawADCHistory: []float64{1, 2}},
	}

	sc := Build(result, nil)
	sc.VisionLog[0].Material = "changed"
	sc.Sensor.RawADCHistory[0] = 99

	assert.Equal(t, "glass", result.Vision[0].Material)
	assert.Equal(t, 1.0, result.Sensor.RawADCHistory[0])
}

func TestFormatKg(t *testing.T) {
	assert.Equal(t, "12,345.7", FormatKg(12345.678, 1))
	assert.Equal(t, "2,435", FormatKg(2435, 0))
	assert.Equal(t, "0.34", FormatKg(0.342, 2))
}

func TestSummary(t *testing.T) {
	sc := Build(domain.PredictionResult{
		Lifestyle: 2170,
		Vision:    []domain.DetectedItem{{Material: "plastic", Confidence: 0.97, WeightG: 82.9, CarbonKg: 0.207}},
	}, nil)

	out := Summary(sc)
	assert.Contains(t, out, "Total estimated footprint: 2,170.2 kg/yr (Medium)")
	assert.Contains(t, out, "Requires 101 trees")
	assert.Contains(t, out, "Visual Waste")
	assert.Contains(t, out, "Computer vision log")
	assert.NotContains(t, out, "Live sensor")
}
