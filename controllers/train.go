package controllers

import (
	"net/http"
	"time"

	"github.com/sarraz13/agri-monitoring-backend/ml"

	"github.com/gin-gonic/gin"
)

// TrainModel retrains the isolation forest on the synthetic agricultural
// distribution, saves it, and hot-reloads the scorer (admin only).
func TrainModel(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !isAdmin(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can train the model"})
		return
	}

	var req struct {
		Seed int64 `json:"seed"`
	}
	// Body is optional; default seed keeps training reproducible.
	_ = c.ShouldBindJSON(&req)
	if req.Seed == 0 {
		req.Seed = 42
	}

	_, summary, err := ml.TrainSynthetic(scorer.ModelPath(), req.Seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Training failed", "details": err.Error()})
		return
	}

	if err := scorer.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Model trained but reload failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Model training completed",
		"summary": summary,
	})
}

// GetModelStatus reports whether the statistical model is loaded and when
// it was trained. Unavailable is not an error: the pipeline runs rule-only.
func GetModelStatus(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	status := gin.H{
		"available":  scorer.Available(),
		"model_path": scorer.ModelPath(),
	}
	if t := scorer.TrainedAt(); !t.IsZero() {
		status["trained_at"] = t.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, status)
}
