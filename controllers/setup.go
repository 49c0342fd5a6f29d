package controllers

import (
	"gorm.io/gorm"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/detection"
	"github.com/sarraz13/agri-monitoring-backend/ml"
	"github.com/sarraz13/agri-monitoring-backend/store"
)

var (
	pipeline *detection.Pipeline
	scorer   *ml.Scorer
)

// SetupPipeline wires the detection pipeline against the database. Called
// once at startup, after migrations.
func SetupPipeline(db *gorm.DB, s *ml.Scorer, cfg *config.DetectionConfig) {
	scorer = s
	pipeline = detection.NewPipeline(
		cfg,
		store.NewReadings(db),
		store.NewPlots(db),
		store.NewAnomalies(db),
		store.NewRecommendations(db),
		s,
	)
}
