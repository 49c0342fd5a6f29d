package agent

import (
	"fmt"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

// Recommendation is the agent's output for one anomaly event.
type Recommendation struct {
	RecommendedAction string  `json:"recommended_action"`
	ExplanationText   string  `json:"explanation_text"`
	Confidence        float64 `json:"confidence"`
}

// Agent generates agricultural recommendations from detected anomalies.
// Deterministic rule-based system: the same anomaly event always yields
// the same recommendation text.
type Agent struct{}

func New() *Agent {
	return &Agent{}
}

// Recommend builds the recommendation for an anomaly event. Total over any
// category string: unknown categories get the default recommendation, the
// agent never fails.
func (a *Agent) Recommend(event *models.AnomalyEvent) Recommendation {
	r, ok := knowledgeBase[event.AnomalyType]
	if !ok {
		return defaultRecommendation(event)
	}

	return Recommendation{
		RecommendedAction: r.RecommendedAction,
		ExplanationText:   buildExplanation(event, r),
		Confidence:        calculateConfidence(event.ModelConfidence, r.BaseConfidence, event.Severity),
	}
}

// buildExplanation follows the template:
// "On {timestamp}, sensor readings detected an **{type}** on {plot}
// (model confidence: {score}). {why}. Agent recommends: {action}.
// Confidence: {level}."
func buildExplanation(event *models.AnomalyEvent, r rule) string {
	return fmt.Sprintf(
		"On %s, sensor readings detected an **%s** on %s (model confidence: %.2f). %s Agent recommends: %s Confidence: %s.",
		event.Timestamp.Format("2006-01-02 at 15:04"),
		event.AnomalyType,
		event.PlotName(),
		event.ModelConfidence,
		r.ExplanationTemplate,
		r.RecommendedAction,
		confidenceLevel(event.Severity),
	)
}

// calculateConfidence combines model confidence (60%) with the rule base
// confidence (40%), scaled by severity and clamped to [0, 1].
func calculateConfidence(modelConfidence, ruleConfidence float64, severity string) float64 {
	base := modelConfidence*0.6 + ruleConfidence*0.4

	multiplier := 1.0
	switch severity {
	case models.SeverityLow:
		multiplier = 0.9
	case models.SeverityMedium:
		multiplier = 1.0
	case models.SeverityHigh:
		multiplier = 1.1
	case models.SeverityCritical:
		multiplier = 1.2
	}

	confidence := base * multiplier
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// confidenceLevel converts a severity into the human wording used in
// explanations.
func confidenceLevel(severity string) string {
	switch severity {
	case models.SeverityLow:
		return "low"
	case models.SeverityMedium:
		return "medium"
	case models.SeverityHigh:
		return "high"
	case models.SeverityCritical:
		return "very high"
	default:
		return "medium"
	}
}

func defaultRecommendation(event *models.AnomalyEvent) Recommendation {
	explanation := fmt.Sprintf(
		"On %s, sensor readings detected an **%s** (model confidence: %.2f). "+
			"Uncommon anomaly type detected. Agent recommends monitoring the plot closely "+
			"and conducting manual inspection to verify conditions. Confidence: medium.",
		event.Timestamp.Format("2006-01-02 at 15:04"),
		event.AnomalyType,
		event.ModelConfidence,
	)

	return Recommendation{
		RecommendedAction: "Monitor the plot closely and conduct manual inspection to verify conditions.",
		ExplanationText:   explanation,
		Confidence:        0.5,
	}
}
