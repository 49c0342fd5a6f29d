package detection

import (
	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"
)

// SeverityFromScore maps an anomaly score to a discrete severity tier.
// More negative scores mean higher severity; scores at or above the low
// boundary still floor at "low".
func SeverityFromScore(cfg *config.DetectionConfig, score float64) string {
	switch {
	case score < cfg.Severity.High:
		return models.SeverityHigh
	case score < cfg.Severity.Medium:
		return models.SeverityMedium
	case score < cfg.Severity.Low:
		return models.SeverityLow
	default:
		return models.SeverityLow
	}
}

// ConfidenceFromScore is the model confidence reported alongside a
// decision: the score magnitude, clamped to [0, 1].
func ConfidenceFromScore(score float64) float64 {
	c := score
	if c < 0 {
		c = -c
	}
	if c > 1 {
		c = 1
	}
	return c
}
