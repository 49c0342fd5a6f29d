package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReceiveReading ingests a sensor reading and runs the anomaly pipeline.
func ReceiveReading(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		PlotID     uint    `json:"plot_id" binding:"required"`
		SensorType string  `json:"sensor_type" binding:"required"`
		Value      float64 `json:"value"`
		Source     string  `json:"source"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if !models.ValidSensorType(input.SensorType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sensor type"})
		return
	}

	if _, ok := ownedPlot(c, user, input.PlotID); !ok {
		return
	}

	reading := models.SensorReading{
		Timestamp:  time.Now(),
		PlotID:     input.PlotID,
		SensorType: input.SensorType,
		Value:      input.Value,
		Source:     input.Source,
	}
	if reading.Source == "" {
		reading.Source = "api"
	}
	if err := config.DB.Create(&reading).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reading"})
		return
	}

	BroadcastUpdate(reading)

	// Detection runs synchronously: the event must be durably persisted
	// before recommendation generation begins.
	decision, event, err := pipeline.OnNewReading(reading.PlotID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Anomaly detection failed", "details": err.Error()})
		return
	}

	response := gin.H{
		"message":  "Reading received successfully",
		"reading":  reading,
		"decision": decision,
	}

	if event != nil {
		rec, err := pipeline.OnNewAnomaly(event)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation generation failed", "details": err.Error()})
			return
		}
		BroadcastAnomaly(event, rec)
		response["anomaly"] = event
		if rec != nil {
			response["recommendation"] = rec
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetHistory returns sensor reading history, owner-scoped, optionally
// filtered by plot.
func GetHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := readingsScope(user).Order("timestamp desc")
	if plotID := c.Query("plot_id"); plotID != "" {
		query = query.Where("sensor_readings.plot_id = ?", plotID)
	}

	var records []models.SensorReading
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// DownloadCSV sends the user's sensor readings as a CSV file.
func DownloadCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var records []models.SensorReading
	if err := readingsScope(user).Order("timestamp desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=sensor_readings.csv")
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"timestamp", "plot_id", "sensor_type", "value", "source"})
	for _, record := range records {
		writer.Write([]string{
			record.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", record.PlotID),
			record.SensorType,
			fmt.Sprintf("%.2f", record.Value),
			record.Source,
		})
	}
}

// DeleteReading deletes a single sensor reading.
func DeleteReading(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var record models.SensorReading
	if err := config.DB.First(&record, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reading not found"})
		return
	}
	if _, ok := ownedPlot(c, user, record.PlotID); !ok {
		return
	}

	if err := config.DB.Delete(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reading deleted successfully"})
}

// DeleteAllReadings deletes all sensor readings (admin only).
func DeleteAllReadings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !isAdmin(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete all readings"})
		return
	}

	result := config.DB.Where("1 = 1").Delete(&models.SensorReading{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete readings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "All readings deleted successfully",
		"deleted_count": result.RowsAffected,
	})
}

// readingsScope restricts reading queries to plots the user owns; admins
// see everything.
func readingsScope(user *models.User) *gorm.DB {
	query := config.DB.Model(&models.SensorReading{})
	if isAdmin(user) {
		return query
	}
	return query.
		Joins("JOIN field_plots ON field_plots.id = sensor_readings.plot_id").
		Joins("JOIN farm_profiles ON farm_profiles.id = field_plots.farm_id").
		Where("farm_profiles.owner_id = ?", user.ID)
}
