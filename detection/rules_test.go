package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarraz13/agri-monitoring-backend/config"
	"github.com/sarraz13/agri-monitoring-backend/models"
)

func testConfig() *config.DetectionConfig {
	cfg := config.DefaultDetectionConfig()
	return &cfg
}

func TestClassify(t *testing.T) {
	rules := NewRuleClassifier(testConfig())

	tests := []struct {
		name string
		snap Snapshot
		want string
	}{
		{"normal", Snapshot{Moisture: 65, Temperature: 24, Humidity: 70}, models.AnomalyNormal},
		{"defaults are normal", Snapshot{Moisture: 60, Temperature: 24, Humidity: 65}, models.AnomalyNormal},

		{"temperature low", Snapshot{Moisture: 65, Temperature: 5, Humidity: 70}, models.AnomalyTemperatureLow},
		{"temperature high", Snapshot{Moisture: 65, Temperature: 38, Humidity: 70}, models.AnomalyTemperatureHigh},
		{"moisture low", Snapshot{Moisture: 25, Temperature: 24, Humidity: 70}, models.AnomalySoilMoistureLow},
		{"moisture high", Snapshot{Moisture: 90, Temperature: 24, Humidity: 70}, models.AnomalySoilMoistureHigh},
		{"humidity low", Snapshot{Moisture: 65, Temperature: 24, Humidity: 20}, models.AnomalyHumidityLow},
		{"humidity high", Snapshot{Moisture: 65, Temperature: 24, Humidity: 95}, models.AnomalyHumidityHigh},

		// Temperature outranks moisture and humidity when several sensors
		// are extreme at once.
		{"temperature beats moisture", Snapshot{Moisture: 25, Temperature: 38, Humidity: 70}, models.AnomalyTemperatureHigh},
		{"temperature beats humidity", Snapshot{Moisture: 65, Temperature: 5, Humidity: 95}, models.AnomalyTemperatureLow},
		{"moisture beats humidity", Snapshot{Moisture: 25, Temperature: 24, Humidity: 95}, models.AnomalySoilMoistureLow},

		// Compound conditions only fire when no single sensor is extreme.
		{"heat stress", Snapshot{Moisture: 65, Temperature: 33, Humidity: 82}, models.AnomalyHeatStress},
		{"drought stress", Snapshot{Moisture: 35, Temperature: 30, Humidity: 70}, models.AnomalyDroughtStress},
		{"waterlogging risk", Snapshot{Moisture: 82, Temperature: 24, Humidity: 87}, models.AnomalyWaterlogging},

		// Boundary values are not extreme: thresholds are strict.
		{"moisture at low boundary", Snapshot{Moisture: 30, Temperature: 24, Humidity: 70}, models.AnomalyNormal},
		{"moisture at boundary with heat", Snapshot{Moisture: 30, Temperature: 30, Humidity: 70}, models.AnomalyDroughtStress},
		{"temperature at high boundary", Snapshot{Moisture: 65, Temperature: 35, Humidity: 70}, models.AnomalyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Classify(tt.snap))
		})
	}
}

// Classify is total: every input yields exactly one known category.
func TestClassifyTotality(t *testing.T) {
	rules := NewRuleClassifier(testConfig())

	known := map[string]bool{
		models.AnomalyNormal:           true,
		models.AnomalySoilMoistureLow:  true,
		models.AnomalySoilMoistureHigh: true,
		models.AnomalyTemperatureLow:   true,
		models.AnomalyTemperatureHigh:  true,
		models.AnomalyHumidityLow:      true,
		models.AnomalyHumidityHigh:     true,
		models.AnomalyHeatStress:       true,
		models.AnomalyDroughtStress:    true,
		models.AnomalyWaterlogging:     true,
	}

	for m := -20.0; m <= 120; m += 10 {
		for temp := -20.0; temp <= 60; temp += 5 {
			for h := -20.0; h <= 120; h += 10 {
				got := rules.Classify(Snapshot{Moisture: m, Temperature: temp, Humidity: h})
				assert.True(t, known[got], "unknown category %q for (%v, %v, %v)", got, m, temp, h)
			}
		}
	}
}

func TestHardExtreme(t *testing.T) {
	rules := NewRuleClassifier(testConfig())

	assert.True(t, rules.HardExtreme(Snapshot{Moisture: 25, Temperature: 24, Humidity: 70}))
	assert.True(t, rules.HardExtreme(Snapshot{Moisture: 65, Temperature: 38, Humidity: 70}))
	assert.True(t, rules.HardExtreme(Snapshot{Moisture: 65, Temperature: 24, Humidity: 95}))

	// Compound-only conditions are not hard extremes.
	assert.False(t, rules.HardExtreme(Snapshot{Moisture: 35, Temperature: 30, Humidity: 70}))
	assert.False(t, rules.HardExtreme(Snapshot{Moisture: 65, Temperature: 33, Humidity: 82}))
	assert.False(t, rules.HardExtreme(Snapshot{Moisture: 65, Temperature: 24, Humidity: 70}))
}
