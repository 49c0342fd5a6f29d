package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

func TestSeverityFromScore(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		score float64
		want  string
	}{
		{-0.9, models.SeverityHigh},
		{-0.8, models.SeverityHigh},
		{-0.16, models.SeverityHigh},
		{-0.15, models.SeverityMedium},
		{-0.1, models.SeverityMedium},
		{-0.08, models.SeverityLow},
		{-0.05, models.SeverityLow},
		{-0.03, models.SeverityLow}, // at the boundary, floors at low
		{-0.01, models.SeverityLow},
		{0.0, models.SeverityLow},
		{0.5, models.SeverityLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFromScore(cfg, tt.score), "score %v", tt.score)
	}
}

func TestConfidenceFromScore(t *testing.T) {
	assert.Equal(t, 0.8, ConfidenceFromScore(-0.8))
	assert.Equal(t, 0.12, ConfidenceFromScore(0.12))
	assert.Equal(t, 0.0, ConfidenceFromScore(0))
	assert.Equal(t, 1.0, ConfidenceFromScore(-1.5))
}
