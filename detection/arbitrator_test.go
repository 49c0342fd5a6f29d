package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

// stubScorer is a fixed-verdict scorer for arbitration tests.
type stubScorer struct {
	available bool
	isOutlier bool
	score     float64
}

func (s *stubScorer) Available() bool { return s.available }

func (s *stubScorer) Score(_, _, _ float64) (bool, float64) {
	if !s.available {
		return false, 0.0
	}
	return s.isOutlier, s.score
}

func newArbitrator(scorer OutlierScorer) *Arbitrator {
	cfg := testConfig()
	return NewArbitrator(NewRuleClassifier(cfg), scorer, cfg)
}

// A "normal" rule verdict always wins, even against a scorer that flags
// everything as an outlier.
func TestDecideNormalShortCircuit(t *testing.T) {
	arb := newArbitrator(&stubScorer{available: true, isOutlier: true, score: -0.5})

	d := arb.Decide(Snapshot{Moisture: 65, Temperature: 24, Humidity: 70})

	assert.False(t, d.IsAnomaly)
	assert.Equal(t, models.AnomalyNormal, d.AnomalyType)
	assert.Equal(t, 0.5, d.Score)
	assert.False(t, d.MLUsed)
}

func TestDecideModelAgrees(t *testing.T) {
	arb := newArbitrator(&stubScorer{available: true, isOutlier: true, score: -0.12})

	d := arb.Decide(Snapshot{Moisture: 25, Temperature: 24, Humidity: 70})

	assert.True(t, d.IsAnomaly)
	assert.Equal(t, models.AnomalySoilMoistureLow, d.AnomalyType)
	assert.Equal(t, -0.12, d.Score)
	assert.True(t, d.MLUsed)
}

// A hard extreme overrides a disagreeing model at the fixed override score.
func TestDecideExtremeOverride(t *testing.T) {
	arb := newArbitrator(&stubScorer{available: true, isOutlier: false, score: 0.1})

	tests := []Snapshot{
		{Moisture: 25, Temperature: 24, Humidity: 70},
		{Moisture: 90, Temperature: 24, Humidity: 70},
		{Moisture: 65, Temperature: 5, Humidity: 70},
		{Moisture: 65, Temperature: 38, Humidity: 70},
		{Moisture: 65, Temperature: 24, Humidity: 20},
		{Moisture: 65, Temperature: 24, Humidity: 95},
	}
	for _, snap := range tests {
		d := arb.Decide(snap)
		assert.True(t, d.IsAnomaly, "snapshot %+v", snap)
		assert.Equal(t, -0.9, d.Score, "snapshot %+v", snap)
		assert.True(t, d.MLUsed)
	}
}

// On soft/compound categories the model gets the final word.
func TestDecideModelWinsOnCompound(t *testing.T) {
	arb := newArbitrator(&stubScorer{available: true, isOutlier: false, score: 0.1})

	// Drought stress: rule fires but no sensor is at a hard extreme.
	d := arb.Decide(Snapshot{Moisture: 35, Temperature: 30, Humidity: 70})

	assert.False(t, d.IsAnomaly)
	assert.Equal(t, models.AnomalyNormal, d.AnomalyType)
	assert.Equal(t, 0.5, d.Score)
	assert.True(t, d.MLUsed)
}

// Without a model the rules decide alone at the fallback score.
func TestDecideFailSoft(t *testing.T) {
	for _, scorer := range []OutlierScorer{nil, &stubScorer{available: false}} {
		arb := newArbitrator(scorer)

		d := arb.Decide(Snapshot{Moisture: 25, Temperature: 24, Humidity: 70})

		assert.True(t, d.IsAnomaly)
		assert.Equal(t, models.AnomalySoilMoistureLow, d.AnomalyType)
		assert.Equal(t, -0.8, d.Score)
		assert.False(t, d.MLUsed)

		// Normal stays normal without a model too.
		d = arb.Decide(Snapshot{Moisture: 65, Temperature: 24, Humidity: 70})
		assert.False(t, d.IsAnomaly)
		assert.Equal(t, models.AnomalyNormal, d.AnomalyType)
	}
}

func TestDecisionValidate(t *testing.T) {
	assert.NotPanics(t, func() {
		Decision{IsAnomaly: false, AnomalyType: models.AnomalyNormal}.validate()
		Decision{IsAnomaly: true, AnomalyType: models.AnomalySoilMoistureLow}.validate()
	})
	assert.Panics(t, func() {
		Decision{IsAnomaly: true, AnomalyType: models.AnomalyNormal}.validate()
	})
}
