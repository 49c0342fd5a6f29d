package detection

import (
	"fmt"
	"log"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"
)

// OutlierScorer is the inference contract of the statistical model. Score
// must never fail: an unavailable model reports (false, 0.0) and
// Available() false, and the arbitrator runs rule-only.
type OutlierScorer interface {
	Available() bool
	Score(moisture, temperature, humidity float64) (isOutlier bool, score float64)
}

// Decision is the arbitrator's verdict for one snapshot.
type Decision struct {
	IsAnomaly   bool     `json:"is_anomaly"`
	AnomalyType string   `json:"anomaly_type"`
	Score       float64  `json:"score"`
	MLUsed      bool     `json:"ml_used"`
	Snapshot    Snapshot `json:"snapshot"`
}

// Arbitrator reconciles the rule classifier with the outlier scorer.
//
// Precedence policy: a "normal" rule verdict always wins, the rules define
// ground truth for clearly-in-range data. When the rules flag an anomaly,
// the model adjudicates - except at hard extremes, where the rules override
// a disagreeing model.
type Arbitrator struct {
	rules  *RuleClassifier
	scorer OutlierScorer
	cfg    *config.DetectionConfig
}

func NewArbitrator(rules *RuleClassifier, scorer OutlierScorer, cfg *config.DetectionConfig) *Arbitrator {
	return &Arbitrator{rules: rules, scorer: scorer, cfg: cfg}
}

// Decide produces the final anomaly decision for a snapshot.
func (a *Arbitrator) Decide(snap Snapshot) Decision {
	category := a.rules.Classify(snap)

	// Short-circuit: in-range data is normal no matter what the model says.
	if category == models.AnomalyNormal {
		return Decision{
			IsAnomaly:   false,
			AnomalyType: models.AnomalyNormal,
			Score:       a.cfg.Scores.Neutral,
			MLUsed:      false,
			Snapshot:    snap,
		}
	}

	if a.scorer != nil && a.scorer.Available() {
		isOutlier, score := a.scorer.Score(snap.Moisture, snap.Temperature, snap.Humidity)

		if !isOutlier {
			if a.rules.HardExtreme(snap) {
				// Extreme readings are dangerous regardless of model opinion.
				log.Printf("Extreme value detected, overriding ML verdict (%s)", category)
				return Decision{
					IsAnomaly:   true,
					AnomalyType: category,
					Score:       a.cfg.Scores.ExtremeOverride,
					MLUsed:      true,
					Snapshot:    snap,
				}
			}
			// Rule fired only on a soft/compound condition; the model gets
			// the final word there.
			return Decision{
				IsAnomaly:   false,
				AnomalyType: models.AnomalyNormal,
				Score:       a.cfg.Scores.Neutral,
				MLUsed:      true,
				Snapshot:    snap,
			}
		}

		return Decision{
			IsAnomaly:   true,
			AnomalyType: category,
			Score:       score,
			MLUsed:      true,
			Snapshot:    snap,
		}
	}

	// Model unavailable: trust the rules alone at moderate confidence.
	return Decision{
		IsAnomaly:   true,
		AnomalyType: category,
		Score:       a.cfg.Scores.RuleFallback,
		MLUsed:      false,
		Snapshot:    snap,
	}
}

// validate panics on decisions that violate the category/anomaly invariant.
// Such decisions are programming errors and must never reach the stores.
func (d Decision) validate() {
	if d.AnomalyType == models.AnomalyNormal && d.IsAnomaly {
		panic(fmt.Sprintf("detection: normal decision flagged as anomaly: %+v", d))
	}
	if d.IsAnomaly && d.AnomalyType == "" {
		panic(fmt.Sprintf("detection: anomaly decision without category: %+v", d))
	}
}
