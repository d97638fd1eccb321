package domain

// Classification is the qualitative footprint level
type Classification string

const (
	ClassificationLow    Classification = "Low"
	ClassificationMedium Classification = "Medium"
	ClassificationHigh   Classification = "High"
)

// Contribution sources shown in the breakdown chart
const (
	SourceLifestyle = "lifestyle"
	SourceVision    = "vision"
	SourceSensor    = "sensor"
)

// BreakdownEntry is one bar of the contribution chart
type BreakdownEntry struct {
	Source string  `json:"source"`
	Label  string  `json:"label"`
	KgCO2  float64 `json:"kg_co2"`
	Color  string  `json:"color"`
}

// SensorPanel is the live monitoring block of the scorecard
type SensorPanel struct {
	CurrentCumulativeKg float64   `json:"current_cumulative_kg"`
	PredictedMidnightKg float64   `json:"predicted_midnight_kg"`
	RawADCHistory       []float64 `json:"raw_adc_history"`
}

// Viewer is the signed-in affordance attached to a scorecard
type Viewer struct {
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Scorecard is the aggregated, display-ready result of one submission.
// It is derived on every submission and never stored.
type Scorecard struct {
	LifestyleKg    float64          `json:"lifestyle_kg"`
	VisionKg       float64          `json:"vision_kg"`
	SensorKg       float64          `json:"sensor_kg"`
	TotalKg        float64          `json:"total_kg"`
	Classification Classification   `json:"classification"`
	Color          string           `json:"color"`
	OffsetUnits    int              `json:"offset_units"`
	Breakdown      []BreakdownEntry `json:"breakdown"`
	VisionLog      []DetectedItem   `json:"vision_log,omitempty"`
	Sensor         *SensorPanel     `json:"sensor,omitempty"`
	Suggestions    []string         `json:"suggestions"`
	Fallback       bool             `json:"fallback"`
	Viewer         *Viewer          `json:"viewer,omitempty"`
}
