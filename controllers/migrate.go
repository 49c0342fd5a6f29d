package controllers

import (
	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"

	"gorm.io/gorm"
)

// MigrateModels runs the database migrations
func MigrateModels(db *gorm.DB) {
	config.DB = db
	db.AutoMigrate(
		&models.User{},
		&models.FarmProfile{},
		&models.FieldPlot{},
		&models.SensorReading{},
		&models.AnomalyEvent{},
		&models.AgentRecommendation{},
	)
}
