package store

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FarmProfile{},
		&models.FieldPlot{},
		&models.SensorReading{},
		&models.AnomalyEvent{},
		&models.AgentRecommendation{},
	))
	return db
}

func seedPlot(t *testing.T, db *gorm.DB) *models.FieldPlot {
	t.Helper()
	farm := models.FarmProfile{OwnerID: 1, Location: "Testfield", Size: 1, CropType: "wheat"}
	require.NoError(t, db.Create(&farm).Error)
	plot := models.FieldPlot{FarmID: farm.ID, CropVariety: "winter wheat"}
	require.NoError(t, db.Create(&plot).Error)
	return &plot
}

func TestReadingsLatest(t *testing.T) {
	db := testDB(t)
	plot := seedPlot(t, db)
	readings := NewReadings(db)

	base := time.Now().Add(-time.Hour)
	for i, v := range []float64{40, 50, 45} {
		require.NoError(t, db.Create(&models.SensorReading{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			PlotID:     plot.ID,
			SensorType: models.SensorMoisture,
			Value:      v,
		}).Error)
	}
	// A different sensor type must not shadow the moisture stream.
	require.NoError(t, db.Create(&models.SensorReading{
		Timestamp:  base.Add(time.Hour),
		PlotID:     plot.ID,
		SensorType: models.SensorTemperature,
		Value:      24,
	}).Error)

	latest, err := readings.Latest(plot.ID, models.SensorMoisture)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 45.0, latest.Value)

	// No humidity readings: (nil, nil), absence is not a failure.
	latest, err = readings.Latest(plot.ID, models.SensorHumidity)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestPlotsGet(t *testing.T) {
	db := testDB(t)
	plot := seedPlot(t, db)
	plots := NewPlots(db)

	got, err := plots.Get(plot.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "winter wheat", got.CropVariety)

	got, err = plots.Get(9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnomaliesExistsRecent(t *testing.T) {
	db := testDB(t)
	plot := seedPlot(t, db)
	anomalies := NewAnomalies(db)

	event := &models.AnomalyEvent{
		Timestamp:       time.Now().Add(-30 * time.Second),
		PlotID:          plot.ID,
		AnomalyType:     models.AnomalySoilMoistureLow,
		Severity:        models.SeverityHigh,
		ModelConfidence: 0.8,
	}
	require.NoError(t, anomalies.Create(event))

	since := time.Now().Add(-time.Minute)

	exists, err := anomalies.ExistsRecent(plot.ID, models.AnomalySoilMoistureLow, since)
	require.NoError(t, err)
	assert.True(t, exists)

	// Category-exact: a different category does not match.
	exists, err = anomalies.ExistsRecent(plot.ID, models.AnomalyTemperatureHigh, since)
	require.NoError(t, err)
	assert.False(t, exists)

	// Outside the window.
	exists, err = anomalies.ExistsRecent(plot.ID, models.AnomalySoilMoistureLow, time.Now().Add(-10*time.Second))
	require.NoError(t, err)
	assert.False(t, exists)

	// Different plot.
	exists, err = anomalies.ExistsRecent(plot.ID+1, models.AnomalySoilMoistureLow, since)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecommendationsExistsFor(t *testing.T) {
	db := testDB(t)
	plot := seedPlot(t, db)
	recs := NewRecommendations(db)

	event := &models.AnomalyEvent{
		Timestamp:   time.Now(),
		PlotID:      plot.ID,
		AnomalyType: models.AnomalyTemperatureHigh,
		Severity:    models.SeverityMedium,
	}
	require.NoError(t, db.Create(event).Error)

	exists, err := recs.ExistsFor(event.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, recs.Create(&models.AgentRecommendation{
		Timestamp:         time.Now(),
		AnomalyEventID:    event.ID,
		RecommendedAction: "Increase shade coverage.",
		ExplanationText:   "Sustained high temperature.",
		Confidence:        0.8,
	}))

	exists, err = recs.ExistsFor(event.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
