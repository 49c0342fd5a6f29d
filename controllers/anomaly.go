package controllers

import (
	"net/http"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAnomalies lists anomaly events visible to the user, newest first.
// Supports ?plot_id= and ?severity= filters.
func GetAnomalies(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := anomaliesScope(user).Order("timestamp desc")
	if plotID := c.Query("plot_id"); plotID != "" {
		query = query.Where("anomaly_events.plot_id = ?", plotID)
	}
	if severity := c.Query("severity"); severity != "" {
		query = query.Where("anomaly_events.severity = ?", severity)
	}

	var events []models.AnomalyEvent
	if err := query.Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch anomalies"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetAnomalyCount returns the number of anomaly events visible to the user.
func GetAnomalyCount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var count int64
	if err := anomaliesScope(user).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count anomalies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// RecommendAnomaly generates (or returns the existing) recommendation for
// an anomaly event. Idempotent: at most one recommendation ever exists per
// event.
func RecommendAnomaly(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var event models.AnomalyEvent
	if err := config.DB.Preload("Plot").First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Anomaly not found"})
		return
	}
	if _, ok := ownedPlot(c, user, event.PlotID); !ok {
		return
	}

	var existing models.AgentRecommendation
	err := config.DB.Where("anomaly_event_id = ?", event.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing recommendation"})
		return
	}

	rec, err := pipeline.OnNewAnomaly(&event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation generation failed", "details": err.Error()})
		return
	}
	if rec == nil {
		// Created concurrently between our check and the pipeline's own.
		config.DB.Where("anomaly_event_id = ?", event.ID).First(&existing)
		c.JSON(http.StatusOK, existing)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// anomaliesScope restricts anomaly queries to plots the user owns.
func anomaliesScope(user *models.User) *gorm.DB {
	query := config.DB.Model(&models.AnomalyEvent{})
	if isAdmin(user) {
		return query
	}
	return query.
		Joins("JOIN field_plots ON field_plots.id = anomaly_events.plot_id").
		Joins("JOIN farm_profiles ON farm_profiles.id = field_plots.farm_id").
		Where("farm_profiles.owner_id = ?", user.ID)
}
