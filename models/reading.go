package models

import "time"

// Sensor types accepted on a reading. These are the wire values the
// simulator and the dashboard use.
const (
	SensorMoisture    = "moisture"    // soil moisture (%)
	SensorTemperature = "temperature" // air temperature (°C)
	SensorHumidity    = "humidity"    // air humidity (%)
)

// SensorReading is a single immutable reading from a plot.
type SensorReading struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Timestamp  time.Time  `json:"timestamp" gorm:"index"`
	PlotID     uint       `json:"plot_id" gorm:"not null;index:idx_readings_plot_type"`
	Plot       *FieldPlot `json:"-" gorm:"foreignKey:PlotID;constraint:OnDelete:CASCADE"`
	SensorType string     `json:"sensor_type" gorm:"not null;index:idx_readings_plot_type"`
	Value      float64    `json:"value"`
	Source     string     `json:"source" gorm:"default:simulator"` // data provenance
}

// ValidSensorType reports whether t is one of the three supported kinds.
func ValidSensorType(t string) bool {
	return t == SensorMoisture || t == SensorTemperature || t == SensorHumidity
}
