// Package store provides the gorm-backed implementations of the detection
// pipeline's store interfaces.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

// Readings queries sensor readings.
type Readings struct {
	db *gorm.DB
}

func NewReadings(db *gorm.DB) *Readings {
	return &Readings{db: db}
}

// Latest returns the most recent reading of the given sensor type for the
// plot, or (nil, nil) when the plot has none. Absence of data is not a
// failure.
func (r *Readings) Latest(plotID uint, sensorType string) (*models.SensorReading, error) {
	var reading models.SensorReading
	err := r.db.
		Where("plot_id = ? AND sensor_type = ?", plotID, sensorType).
		Order("timestamp desc").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// Plots resolves plot references.
type Plots struct {
	db *gorm.DB
}

func NewPlots(db *gorm.DB) *Plots {
	return &Plots{db: db}
}

// Get returns the plot, or (nil, nil) when it does not exist.
func (p *Plots) Get(plotID uint) (*models.FieldPlot, error) {
	var plot models.FieldPlot
	err := p.db.First(&plot, plotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plot, nil
}

// Anomalies persists anomaly events.
type Anomalies struct {
	db *gorm.DB
}

func NewAnomalies(db *gorm.DB) *Anomalies {
	return &Anomalies{db: db}
}

// ExistsRecent reports whether a same-category event for the plot was
// detected at or after since.
func (a *Anomalies) ExistsRecent(plotID uint, anomalyType string, since time.Time) (bool, error) {
	var count int64
	err := a.db.Model(&models.AnomalyEvent{}).
		Where("plot_id = ? AND anomaly_type = ? AND timestamp >= ?", plotID, anomalyType, since).
		Count(&count).Error
	return count > 0, err
}

func (a *Anomalies) Create(event *models.AnomalyEvent) error {
	return a.db.Create(event).Error
}

// Recommendations persists agent recommendations.
type Recommendations struct {
	db *gorm.DB
}

func NewRecommendations(db *gorm.DB) *Recommendations {
	return &Recommendations{db: db}
}

func (r *Recommendations) ExistsFor(anomalyEventID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.AgentRecommendation{}).
		Where("anomaly_event_id = ?", anomalyEventID).
		Count(&count).Error
	return count > 0, err
}

func (r *Recommendations) Create(rec *models.AgentRecommendation) error {
	return r.db.Create(rec).Error
}
