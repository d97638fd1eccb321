package scorecard

// Classification thresholds in kg CO2e per year. Both are strict: a total of
// exactly LowThresholdKg or HighThresholdKg is Medium.
const (
	LowThresholdKg  = 1500.0
	HighThresholdKg = 3500.0
)

// TreeAbsorptionKgPerYear is the CO2 a mature tree absorbs in a year; one
// offset unit is one tree-year.
const TreeAbsorptionKgPerYear = 21.7

// FallbackLifestyleKg is the lifestyle value shown when any model call fails
const FallbackLifestyleKg = 2435.0

// Display colours
const (
	ColorLow    = "#10b981"
	ColorMedium = "#fbbf24"
	ColorHigh   = "#ef4444"

	ColorLifestyle = "#10b981"
	ColorVision    = "#8b5cf6"
	ColorSensor    = "#f59e0b"
)

// Breakdown labels
const (
	LabelLifestyle = "Lifestyle"
	LabelVision    = "Visual Waste"
	LabelSensor    = "Sensor Forecast"
)
