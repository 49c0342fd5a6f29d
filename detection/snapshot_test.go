package detection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

// fakeReadings serves canned latest readings per (plot, sensor type).
type fakeReadings struct {
	values map[string]float64
	err    error
}

func (f *fakeReadings) Latest(plotID uint, sensorType string) (*models.SensorReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[sensorType]
	if !ok {
		return nil, nil
	}
	return &models.SensorReading{
		PlotID:     plotID,
		SensorType: sensorType,
		Value:      v,
		Timestamp:  time.Now(),
	}, nil
}

func TestLatestSnapshot(t *testing.T) {
	agg := NewAggregator(&fakeReadings{values: map[string]float64{
		models.SensorMoisture:    42,
		models.SensorTemperature: 31,
		models.SensorHumidity:    55,
	}}, testConfig())

	snap, err := agg.LatestSnapshot(1)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Moisture: 42, Temperature: 31, Humidity: 55}, snap)
}

// Missing sensors degrade to defaults, never to an error. The lookups are
// independent: one present sensor does not mask the other defaults.
func TestLatestSnapshotDefaults(t *testing.T) {
	agg := NewAggregator(&fakeReadings{values: map[string]float64{}}, testConfig())
	snap, err := agg.LatestSnapshot(1)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Moisture: 60, Temperature: 24, Humidity: 65}, snap)

	agg = NewAggregator(&fakeReadings{values: map[string]float64{
		models.SensorMoisture: 20,
	}}, testConfig())
	snap, err = agg.LatestSnapshot(1)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Moisture: 20, Temperature: 24, Humidity: 65}, snap)
}

// Store failures are not data absence; they propagate.
func TestLatestSnapshotStoreError(t *testing.T) {
	agg := NewAggregator(&fakeReadings{err: errors.New("connection refused")}, testConfig())
	_, err := agg.LatestSnapshot(1)
	assert.Error(t, err)
}
