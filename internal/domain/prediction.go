package domain

import "context"

// Image is an uploaded waste photo. The core never decodes it.
type Image struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// DetectedItem is one material detection returned by the vision engine
type DetectedItem struct {
	Material   string  `json:"material"`
	Confidence float64 `json:"confidence"`
	WeightG    float64 `json:"weight_g"`
	CarbonKg   float64 `json:"carbon_kg"`
}

// SensorFeed is the live gas sensor summary with its end-of-day forecast
type SensorFeed struct {
	RawADCHistory       []float64 `json:"raw_adc_history"`
	CurrentCumulativeKg float64   `json:"current_cumulative_kg"`
	PredictedMidnightKg float64   `json:"predicted_midnight_kg"`
}

// LifestylePrediction is the lifestyle collaborator response
type LifestylePrediction struct {
	LifestyleCarbon float64 `json:"lifestyle_carbon"`
}

// PredictionResult holds the contributions of one submission.
// Vision and Sensor are nil when the source produced nothing.
type PredictionResult struct {
	Lifestyle float64        `json:"lifestyle"`
	Vision    []DetectedItem `json:"vision,omitempty"`
	Sensor    *SensorFeed    `json:"sensor,omitempty"`
	Fallback  bool           `json:"fallback"`
}

// LifestylePredictor estimates yearly lifestyle carbon from survey answers
type LifestylePredictor interface {
	PredictLifestyle(ctx context.Context, answers SurveyAnswers) (LifestylePrediction, error)
}

// VisionPredictor detects waste materials in an image. A nil image yields no items.
type VisionPredictor interface {
	PredictImage(ctx context.Context, img *Image) ([]DetectedItem, error)
}

// SensorForecaster reads the live sensor feed
type SensorForecaster interface {
	ForecastSensor(ctx context.Context) (*SensorFeed, error)
}
