package models

import "time"

// Anomaly categories. This is the wire-level vocabulary consumed by the
// dashboard and must not be renamed.
const (
	AnomalyNormal           = "normal"
	AnomalySoilMoistureLow  = "soil_moisture_low"
	AnomalySoilMoistureHigh = "soil_moisture_high"
	AnomalyTemperatureLow   = "temperature_low"
	AnomalyTemperatureHigh  = "temperature_high"
	AnomalyHumidityLow      = "humidity_low"
	AnomalyHumidityHigh     = "humidity_high"
	AnomalyHeatStress       = "temperature_high_heat_stress"
	AnomalyDroughtStress    = "drought_stress"
	AnomalyWaterlogging     = "waterlogging_risk"

	// Accepted by the recommendation knowledge base but not produced by
	// the detector yet.
	AnomalySensorFailure = "sensor_failure"
	AnomalyDriftDetected = "drift_detected"
)

// Severity levels for anomaly events.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	// Reserved for sensor_failure; the detector never emits it.
	SeverityCritical = "critical"
)

// AnomalyEvent records a detected anomaly on a plot.
type AnomalyEvent struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Timestamp       time.Time  `json:"timestamp" gorm:"index"`
	PlotID          uint       `json:"plot_id" gorm:"not null;index"`
	Plot            *FieldPlot `json:"-" gorm:"foreignKey:PlotID;constraint:OnDelete:CASCADE"`
	AnomalyType     string     `json:"anomaly_type" gorm:"not null;index"`
	Severity        string     `json:"severity" gorm:"not null"`
	ModelConfidence float64    `json:"model_confidence"` // 0-1, from the detector
}

// PlotName returns a human descriptor for the plot, falling back to a
// generic label when the plot is not loaded.
func (e *AnomalyEvent) PlotName() string {
	if e.Plot != nil && e.Plot.CropVariety != "" {
		return e.Plot.CropVariety
	}
	return "the plot"
}
