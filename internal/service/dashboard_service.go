package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/scorecard"
)

// DashboardService runs the three models for a submission and aggregates them
type DashboardService struct {
	lifestyle domain.LifestylePredictor
	vision    domain.VisionPredictor
	sensor    domain.SensorForecaster

	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewDashboardService creates a new dashboard service. A zero callTimeout
// leaves the calls unbounded.
func NewDashboardService(
	lifestyle domain.LifestylePredictor,
	vision domain.VisionPredictor,
	sensor domain.SensorForecaster,
	callTimeout time.Duration,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		lifestyle:   lifestyle,
		vision:      vision,
		sensor:      sensor,
		callTimeout: callTimeout,
		logger:      logger.With().Str("component", "dashboard").Logger(),
	}
}

// Evaluate predicts and aggregates one submission. It always returns a scorecard.
func (s *DashboardService) Evaluate(ctx context.Context, answers domain.SurveyAnswers, img *domain.Image) domain.Scorecard {
	answers = answers.Normalize()
	result := s.Predict(ctx, answers, img)
	return scorecard.Build(result, &answers)
}

// Predict fetches all contributions concurrently and waits for every call.
// If any call fails, times out or panics, the whole result is replaced by the
// fallback lifestyle value with no vision or sensor contribution.
func (s *DashboardService) Predict(ctx context.Context, answers domain.SurveyAnswers, img *domain.Image) domain.PredictionResult {
	var (
		lifestyle domain.LifestylePrediction
		items     []domain.DetectedItem
		feed      *domain.SensorFeed
	)

	started := time.Now()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.call(gCtx, domain.SourceLifestyle, func(ctx context.Context) (err error) {
			lifestyle, err = s.lifestyle.PredictLifestyle(ctx, answers)
			return err
		})
	})

	g.Go(func() error {
		return s.call(gCtx, domain.SourceVision, func(ctx context.Context) (err error) {
			items, err = s.vision.PredictImage(ctx, img)
			return err
		})
	})

	g.Go(func() error {
		return s.call(gCtx, domain.SourceSensor, func(ctx context.Context) (err error) {
			feed, err = s.sensor.ForecastSensor(ctx)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Dur("elapsed", time.Since(started)).Msg("prediction failed, using fallback")
		return domain.PredictionResult{
			Lifestyle: scorecard.FallbackLifestyleKg,
			Fallback:  true,
		}
	}

	if len(items) == 0 {
		items = nil
	}

	s.logger.Info().
		Float64("lifestyle", lifestyle.LifestyleCarbon).
		Int("vision_items", len(items)).
		Bool("sensor", feed != nil).
		Dur("elapsed", time.Since(started)).
		Msg("prediction complete")

	return domain.PredictionResult{
		Lifestyle: lifestyle.LifestyleCarbon,
		Vision:    items,
		Sensor:    feed,
	}
}

// call runs one model under the per-call timeout and turns panics into errors
func (s *DashboardService) call(ctx context.Context, source string, fn func(context.Context) error) (err error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", source, r)
		}
	}()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	return nil
}
