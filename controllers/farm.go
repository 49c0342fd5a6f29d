package controllers

import (
	"net/http"
	"time"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"

	"github.com/gin-gonic/gin"
)

// CreateFarm registers a new farm for the authenticated user.
func CreateFarm(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var farm models.FarmProfile
	if err := c.ShouldBindJSON(&farm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	farm.OwnerID = user.ID

	if err := config.DB.Create(&farm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create farm"})
		return
	}
	c.JSON(http.StatusCreated, farm)
}

// GetFarms lists the user's farms (all farms for admins).
func GetFarms(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var farms []models.FarmProfile
	query := config.DB.Order("id")
	if !isAdmin(user) {
		query = query.Where("owner_id = ?", user.ID)
	}
	if err := query.Find(&farms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch farms"})
		return
	}
	c.JSON(http.StatusOK, farms)
}

// DeleteFarm removes a farm and, by cascade, its plots, readings and
// anomalies.
func DeleteFarm(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var farm models.FarmProfile
	if err := config.DB.First(&farm, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farm not found"})
		return
	}
	if !isAdmin(user) && farm.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your farm"})
		return
	}

	if err := config.DB.Delete(&farm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete farm"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Farm deleted successfully"})
}

// CreatePlot adds a plot to one of the user's farms.
func CreatePlot(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var plot models.FieldPlot
	if err := c.ShouldBindJSON(&plot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var farm models.FarmProfile
	if err := config.DB.First(&farm, plot.FarmID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farm not found"})
		return
	}
	if !isAdmin(user) && farm.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your farm"})
		return
	}

	if err := config.DB.Create(&plot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plot"})
		return
	}
	c.JSON(http.StatusCreated, plot)
}

// GetPlots lists plots visible to the user, optionally filtered by farm.
func GetPlots(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var plots []models.FieldPlot
	query := config.DB.Order("id")
	if !isAdmin(user) {
		query = query.
			Joins("JOIN farm_profiles ON farm_profiles.id = field_plots.farm_id").
			Where("farm_profiles.owner_id = ?", user.ID)
	}
	if farmID := c.Query("farm_id"); farmID != "" {
		query = query.Where("field_plots.farm_id = ?", farmID)
	}
	if err := query.Find(&plots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plots"})
		return
	}
	c.JSON(http.StatusOK, plots)
}

// DeletePlot removes a plot and its readings/anomalies.
func DeletePlot(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	plot, ok := ownedPlot(c, user, c.Param("id"))
	if !ok {
		return
	}

	if err := config.DB.Delete(plot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plot deleted successfully"})
}

// GetPlotStatus summarizes a plot's recent anomaly state: "alert" when a
// high-severity anomaly fired in the last hour, "warning" for any other
// recent anomaly, otherwise "ok".
func GetPlotStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	plot, ok := ownedPlot(c, user, c.Param("id"))
	if !ok {
		return
	}

	since := time.Now().Add(-1 * time.Hour)

	var high, total int64
	config.DB.Model(&models.AnomalyEvent{}).
		Where("plot_id = ? AND timestamp >= ? AND severity = ?", plot.ID, since, models.SeverityHigh).
		Count(&high)
	config.DB.Model(&models.AnomalyEvent{}).
		Where("plot_id = ? AND timestamp >= ?", plot.ID, since).
		Count(&total)

	status := "ok"
	if high > 0 {
		status = "alert"
	} else if total > 0 {
		status = "warning"
	}

	c.JSON(http.StatusOK, gin.H{
		"plot_id":          plot.ID,
		"status":           status,
		"recent_anomalies": total,
	})
}

// ownedPlot loads a plot and verifies the user may access it. Writes the
// error response itself when not.
func ownedPlot(c *gin.Context, user *models.User, plotID interface{}) (*models.FieldPlot, bool) {
	var plot models.FieldPlot
	if err := config.DB.Preload("Farm").First(&plot, plotID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plot not found"})
		return nil, false
	}
	if !isAdmin(user) && (plot.Farm == nil || plot.Farm.OwnerID != user.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your plot"})
		return nil, false
	}
	return &plot, true
}
