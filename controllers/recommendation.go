package controllers

import (
	"net/http"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"

	"github.com/gin-gonic/gin"
)

// GetRecommendations lists agent recommendations visible to the user,
// newest first. Supports ?plot_id= and ?anomaly_id= filters.
func GetRecommendations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.AgentRecommendation{}).Order("agent_recommendations.timestamp desc")
	if !isAdmin(user) {
		query = query.
			Joins("JOIN anomaly_events ON anomaly_events.id = agent_recommendations.anomaly_event_id").
			Joins("JOIN field_plots ON field_plots.id = anomaly_events.plot_id").
			Joins("JOIN farm_profiles ON farm_profiles.id = field_plots.farm_id").
			Where("farm_profiles.owner_id = ?", user.ID)
	} else if c.Query("plot_id") != "" {
		query = query.
			Joins("JOIN anomaly_events ON anomaly_events.id = agent_recommendations.anomaly_event_id")
	}

	if plotID := c.Query("plot_id"); plotID != "" {
		query = query.Where("anomaly_events.plot_id = ?", plotID)
	}
	if anomalyID := c.Query("anomaly_id"); anomalyID != "" {
		query = query.Where("agent_recommendations.anomaly_event_id = ?", anomalyID)
	}

	var recs []models.AgentRecommendation
	if err := query.Find(&recs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
		return
	}
	c.JSON(http.StatusOK, recs)
}
