package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scoring"
)

// MLBridgeConfig points the bridge at the Python model services.
// An empty URL selects the local mock for that model.
type MLBridgeConfig struct {
	LifestyleURL   string
	VisionURL      string
	SensorURL      string
	SensorDisabled bool

	// Artificial latency of the local mocks, standing in for the network call
	LifestyleDelay time.Duration
	VisionDelay    time.Duration

	HTTPTimeout time.Duration
}

// MLBridge handles communication with the Python ML services.
// It implements domain.LifestylePredictor, domain.VisionPredictor and
// domain.SensorForecaster.
type MLBridge struct {
	cfg        MLBridgeConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(cfg MLBridgeConfig, logger zerolog.Logger) *MLBridge {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	return &MLBridge{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger.With().Str("component", "ml_bridge").Logger(),
	}
}

// PredictLifestyle calls POST /predict_lifestyle, or scores locally when no
// lifestyle service is configured.
func (b *MLBridge) PredictLifestyle(ctx context.Context, answers domain.SurveyAnswers) (domain.LifestylePrediction, error) {
	if b.cfg.LifestyleURL == "" {
		if err := sleep(ctx, b.cfg.LifestyleDelay); err != nil {
			return domain.LifestylePrediction{}, fmt.Errorf("ml_bridge: lifestyle mock interrupted: %w", err)
		}
		return domain.LifestylePrediction{LifestyleCarbon: scoring.Lifestyle(answers)}, nil
	}

	body, err := json.Marshal(answers)
	if err != nil {
		return domain.LifestylePrediction{}, fmt.Errorf("ml_bridge: failed to marshal answers: %w", err)
	}

	url := fmt.Sprintf("%s/predict_lifestyle", b.cfg.LifestyleURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.LifestylePrediction{}, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var prediction domain.LifestylePrediction
	if err := b.do(httpReq, &prediction); err != nil {
		return domain.LifestylePrediction{}, fmt.Errorf("ml_bridge: lifestyle prediction failed: %w", err)
	}

	b.logger.Debug().Float64("lifestyle_carbon", prediction.LifestyleCarbon).Msg("lifestyle prediction received")
	return prediction, nil
}

// PredictImage uploads the image to POST /predict as multipart field "file".
// A nil image yields no detections without contacting the service.
func (b *MLBridge) PredictImage(ctx context.Context, img *domain.Image) ([]domain.DetectedItem, error) {
	if b.cfg.VisionURL == "" {
		if err := sleep(ctx, b.cfg.VisionDelay); err != nil {
			return nil, fmt.Errorf("ml_bridge: vision mock interrupted: %w", err)
		}
		return mockDetections(img), nil
	}
	if img == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, img.Filename))
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("ml_bridge: failed to create upload part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("ml_bridge: failed to write image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("ml_bridge: failed to finish upload: %w", err)
	}

	url := fmt.Sprintf("%s/predict", b.cfg.VisionURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var items []domain.DetectedItem
	if err := b.do(httpReq, &items); err != nil {
		return nil, fmt.Errorf("ml_bridge: vision prediction failed: %w", err)
	}

	b.logger.Debug().Int("items", len(items)).Str("file", img.Filename).Msg("vision prediction received")
	return items, nil
}

// ForecastSensor reads GET /api/sensor_data from the sensor middleware
func (b *MLBridge) ForecastSensor(ctx context.Context) (*domain.SensorFeed, error) {
	if b.cfg.SensorDisabled {
		return nil, nil
	}
	if b.cfg.SensorURL == "" {
		return mockSensorFeed(), nil
	}

	url := fmt.Sprintf("%s/api/sensor_data", b.cfg.SensorURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}

	var feed domain.SensorFeed
	if err := b.do(httpReq, &feed); err != nil {
		return nil, fmt.Errorf("ml_bridge: sensor forecast failed: %w", err)
	}

	return &feed, nil
}

// Health reports the status of each model: "mock", "disabled", "ok" or the probe error
func (b *MLBridge) Health(ctx context.Context) map[string]string {
	status := map[string]string{
		domain.SourceLifestyle: b.probe(ctx, b.cfg.LifestyleURL),
		domain.SourceVision:    b.probe(ctx, b.cfg.VisionURL),
		domain.SourceSensor:    b.probe(ctx, b.cfg.SensorURL),
	}
	if b.cfg.SensorDisabled {
		status[domain.SourceSensor] = "disabled"
	}
	return status
}

func (b *MLBridge) probe(ctx context.Context, baseURL string) string {
	if baseURL == "" {
		return "mock"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/", nil)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return "ok"
}

// do executes the request and decodes a 200 JSON response into out
func (b *MLBridge) do(req *http.Request, out any) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mockDetections mirrors a typical detector response for a photo of mixed waste
func mockDetections(img *domain.Image) []domain.DetectedItem {
	if img == nil {
		return nil
	}
	return []domain.DetectedItem{
		{Material: "plastic", Confidence: 0.97, WeightG: 82.9, CarbonKg: 0.207},
		{Material: "cardboard", Confidence: 0.89, WeightG: 150.5, CarbonKg: 0.135},
	}
}

// mockSensorFeed returns a fixed 15-sample MQ-7 history and its forecast
func mockSensorFeed() *domain.SensorFeed {
	return &domain.SensorFeed{
		RawADCHistory: []float64{
			112, 118, 121, 119, 126, 134, 141, 138,
			145, 152, 149, 158, 163, 171, 168,
		},
		CurrentCumulativeKg: 2.14,
		PredictedMidnightKg: 4.87,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
