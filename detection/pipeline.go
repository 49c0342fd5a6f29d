package detection

import (
	"log"
	"time"

	"github.com/sarraz13/agri-monitoring-backend/agent"
	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"
)

// PlotStore resolves plot references for recommendation context. Get
// returns (nil, nil) for an unknown plot; the explanation then falls back
// to a generic descriptor.
type PlotStore interface {
	Get(plotID uint) (*models.FieldPlot, error)
}

// RecommendationStore is the persistence surface for agent recommendations.
type RecommendationStore interface {
	ExistsFor(anomalyEventID uint) (bool, error)
	Create(rec *models.AgentRecommendation) error
}

// Pipeline is the full anomaly detection and recommendation chain,
// invoked synchronously per incoming reading. It holds no durable state of
// its own; everything durable lives behind the store interfaces.
type Pipeline struct {
	cfg        *config.DetectionConfig
	aggregator *Aggregator
	arbitrator *Arbitrator
	dedup      *Deduplicator

	plots     PlotStore
	anomalies AnomalyStore
	recs      RecommendationStore
	agent     *agent.Agent
}

func NewPipeline(
	cfg *config.DetectionConfig,
	readings ReadingStore,
	plots PlotStore,
	anomalies AnomalyStore,
	recs RecommendationStore,
	scorer OutlierScorer,
) *Pipeline {
	rules := NewRuleClassifier(cfg)
	return &Pipeline{
		cfg:        cfg,
		aggregator: NewAggregator(readings, cfg),
		arbitrator: NewArbitrator(rules, scorer, cfg),
		dedup:      NewDeduplicator(anomalies, cfg.Cooldown()),
		plots:      plots,
		anomalies:  anomalies,
		recs:       recs,
		agent:      agent.New(),
	}
}

// OnNewReading runs detection for a plot after a reading was ingested.
// Returns the decision and the created anomaly event, or a nil event when
// the snapshot was normal or the anomaly was suppressed as a duplicate.
// Store failures propagate: the caller must know the decision was not
// recorded.
func (p *Pipeline) OnNewReading(plotID uint) (Decision, *models.AnomalyEvent, error) {
	snap, err := p.aggregator.LatestSnapshot(plotID)
	if err != nil {
		return Decision{}, nil, err
	}

	decision := p.arbitrator.Decide(snap)
	decision.validate()

	if !decision.IsAnomaly {
		return decision, nil, nil
	}

	severity := SeverityFromScore(p.cfg, decision.Score)
	confidence := ConfidenceFromScore(decision.Score)
	now := time.Now()

	// Serialize the exists check and the create per (plot, category) so
	// two near-simultaneous detections cannot both pass the check.
	lock := p.dedup.Lock(plotID, decision.AnomalyType)
	defer lock.Unlock()

	suppress, err := p.dedup.ShouldSuppress(plotID, decision.AnomalyType, now)
	if err != nil {
		return decision, nil, err
	}
	if suppress {
		log.Printf("Similar anomaly recently detected on plot %d (%s) - skipping duplicate",
			plotID, decision.AnomalyType)
		return decision, nil, nil
	}

	plot, err := p.plots.Get(plotID)
	if err != nil {
		return decision, nil, err
	}

	event := &models.AnomalyEvent{
		Timestamp:       now,
		PlotID:          plotID,
		Plot:            plot,
		AnomalyType:     decision.AnomalyType,
		Severity:        severity,
		ModelConfidence: confidence,
	}
	if err := p.anomalies.Create(event); err != nil {
		return decision, nil, err
	}

	log.Printf("Anomaly detected: plot %d, %s (severity: %s, confidence: %.2f, ml: %v)",
		plotID, event.AnomalyType, severity, confidence, decision.MLUsed)

	return decision, event, nil
}

// OnNewAnomaly generates and persists the recommendation for a freshly
// created anomaly event. Idempotent: when a recommendation already exists
// for the event, nothing new is created and nil is returned.
func (p *Pipeline) OnNewAnomaly(event *models.AnomalyEvent) (*models.AgentRecommendation, error) {
	exists, err := p.recs.ExistsFor(event.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Printf("Recommendation already exists for anomaly %d", event.ID)
		return nil, nil
	}

	result := p.agent.Recommend(event)

	rec := &models.AgentRecommendation{
		Timestamp:         time.Now(),
		AnomalyEventID:    event.ID,
		RecommendedAction: result.RecommendedAction,
		ExplanationText:   result.ExplanationText,
		Confidence:        result.Confidence,
	}
	if err := p.recs.Create(rec); err != nil {
		return nil, err
	}

	log.Printf("Recommendation generated for anomaly %d (confidence: %.2f)", event.ID, rec.Confidence)
	return rec, nil
}

// Scorer exposes the arbitrator's scorer, mainly for status endpoints.
func (p *Pipeline) Scorer() OutlierScorer {
	return p.arbitrator.scorer
}
