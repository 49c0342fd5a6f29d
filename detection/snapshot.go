package detection

import (
	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"
)

// ReadingStore is the query surface the aggregator needs from the reading
// store. Latest returns (nil, nil) when the plot has no reading of that
// sensor type; only real store failures produce an error.
type ReadingStore interface {
	Latest(plotID uint, sensorType string) (*models.SensorReading, error)
}

// Snapshot is the latest known value for each sensor kind on a plot at
// decision time. Always complete: missing sensors are filled with the
// configured defaults.
type Snapshot struct {
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Aggregator builds plot snapshots from the most recent reading of each
// sensor type. Snapshots are computed fresh on every call, never cached.
type Aggregator struct {
	store ReadingStore
	cfg   *config.DetectionConfig
}

func NewAggregator(store ReadingStore, cfg *config.DetectionConfig) *Aggregator {
	return &Aggregator{store: store, cfg: cfg}
}

// LatestSnapshot looks up the most recent reading of each sensor type for
// the plot. The three lookups are independent: a plot with only moisture
// readings still yields a full snapshot with defaulted temperature and
// humidity.
func (a *Aggregator) LatestSnapshot(plotID uint) (Snapshot, error) {
	snap := Snapshot{
		Moisture:    a.cfg.Defaults.Moisture,
		Temperature: a.cfg.Defaults.Temperature,
		Humidity:    a.cfg.Defaults.Humidity,
	}

	if v, err := a.latest(plotID, models.SensorMoisture); err != nil {
		return snap, err
	} else if v != nil {
		snap.Moisture = *v
	}
	if v, err := a.latest(plotID, models.SensorTemperature); err != nil {
		return snap, err
	} else if v != nil {
		snap.Temperature = *v
	}
	if v, err := a.latest(plotID, models.SensorHumidity); err != nil {
		return snap, err
	} else if v != nil {
		snap.Humidity = *v
	}

	return snap, nil
}

func (a *Aggregator) latest(plotID uint, sensorType string) (*float64, error) {
	reading, err := a.store.Latest(plotID, sensorType)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, nil
	}
	return &reading.Value, nil
}
