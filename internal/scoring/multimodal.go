package scoring

import (
	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/pkg/utils"
)

// VisionTotal sums the carbon of every detected item, saturating at MaxTermKg.
// No items means no contribution.
func VisionTotal(items []domain.DetectedItem) float64 {
	total := 0.0
	for _, item := range items {
		total += utils.NonNegative(item.CarbonKg)
	}
	return utils.Saturate(total, MaxTermKg)
}

// SensorContribution is the forecast end-of-day total, or 0 without a feed
func SensorContribution(feed *domain.SensorFeed) float64 {
	if feed == nil {
		return 0
	}
	return utils.Saturate(utils.NonNegative(feed.PredictedMidnightKg), MaxTermKg)
}
