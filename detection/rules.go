package detection

import (
	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"
)

// RuleClassifier maps a snapshot to a semantic anomaly category using the
// configured thresholds. It is a total function: every input yields exactly
// one category.
type RuleClassifier struct {
	cfg *config.DetectionConfig
}

func NewRuleClassifier(cfg *config.DetectionConfig) *RuleClassifier {
	return &RuleClassifier{cfg: cfg}
}

// Classify returns the anomaly category for a snapshot, or "normal".
//
// First match wins. Single-sensor extremes rank above compound patterns,
// and temperature extremes are checked first as the most time-critical
// failure mode.
func (r *RuleClassifier) Classify(snap Snapshot) string {
	rules := &r.cfg.Rules

	if snap.Temperature < rules.TemperatureLow {
		return models.AnomalyTemperatureLow
	}
	if snap.Temperature > rules.TemperatureHigh {
		return models.AnomalyTemperatureHigh
	}

	if snap.Moisture < rules.MoistureLow {
		return models.AnomalySoilMoistureLow
	}
	if snap.Moisture > rules.MoistureHigh {
		return models.AnomalySoilMoistureHigh
	}

	if snap.Humidity < rules.HumidityLow {
		return models.AnomalyHumidityLow
	}
	if snap.Humidity > rules.HumidityHigh {
		return models.AnomalyHumidityHigh
	}

	// Compound conditions, only reachable when no single sensor is extreme.
	if snap.Temperature > rules.HeatStressTemp && snap.Humidity > rules.HeatStressHumidity {
		return models.AnomalyHeatStress
	}
	if snap.Moisture < rules.DroughtMoisture && snap.Temperature > rules.DroughtTemp {
		return models.AnomalyDroughtStress
	}
	if snap.Moisture > rules.WaterlogMoisture && snap.Humidity > rules.WaterlogHumidity {
		return models.AnomalyWaterlogging
	}

	return models.AnomalyNormal
}

// HardExtreme reports whether any reading is past a single-sensor
// threshold. Hard extremes are ground-truth dangerous and outrank a
// disagreeing model verdict.
func (r *RuleClassifier) HardExtreme(snap Snapshot) bool {
	rules := &r.cfg.Rules
	return snap.Moisture < rules.MoistureLow || snap.Moisture > rules.MoistureHigh ||
		snap.Temperature < rules.TemperatureLow || snap.Temperature > rules.TemperatureHigh ||
		snap.Humidity < rules.HumidityLow || snap.Humidity > rules.HumidityHigh
}
