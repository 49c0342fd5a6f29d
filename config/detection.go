package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// DetectionConfig holds every tunable of the anomaly pipeline. The rule
// thresholds, severity boundaries and the override/fallback scores are tied
// to the score distribution of the currently trained model, so they live in
// configuration rather than code.
type DetectionConfig struct {
	Rules struct {
		MoistureLow     float64 `mapstructure:"moisture_low"`
		MoistureHigh    float64 `mapstructure:"moisture_high"`
		TemperatureLow  float64 `mapstructure:"temperature_low"`
		TemperatureHigh float64 `mapstructure:"temperature_high"`
		HumidityLow     float64 `mapstructure:"humidity_low"`
		HumidityHigh    float64 `mapstructure:"humidity_high"`

		HeatStressTemp     float64 `mapstructure:"heat_stress_temp"`
		HeatStressHumidity float64 `mapstructure:"heat_stress_humidity"`
		DroughtMoisture    float64 `mapstructure:"drought_moisture"`
		DroughtTemp        float64 `mapstructure:"drought_temp"`
		WaterlogMoisture   float64 `mapstructure:"waterlog_moisture"`
		WaterlogHumidity   float64 `mapstructure:"waterlog_humidity"`
	} `mapstructure:"rules"`

	Severity struct {
		High   float64 `mapstructure:"high"`   // score below this => high
		Medium float64 `mapstructure:"medium"` // score below this => medium
		Low    float64 `mapstructure:"low"`    // score below this => low
	} `mapstructure:"severity"`

	Scores struct {
		Neutral         float64 `mapstructure:"neutral"`          // rule verdict "normal"
		ExtremeOverride float64 `mapstructure:"extreme_override"` // rule extreme beats model
		RuleFallback    float64 `mapstructure:"rule_fallback"`    // model unavailable
	} `mapstructure:"scores"`

	Defaults struct {
		Moisture    float64 `mapstructure:"moisture"`
		Temperature float64 `mapstructure:"temperature"`
		Humidity    float64 `mapstructure:"humidity"`
	} `mapstructure:"defaults"`

	CooldownMinutes int    `mapstructure:"cooldown_minutes"`
	ModelPath       string `mapstructure:"model_path"`
}

// Cooldown returns the duplicate-suppression window as a duration.
func (c *DetectionConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

// Detection is the loaded pipeline configuration.
var Detection DetectionConfig

// LoadDetectionConfig reads detection.yaml from the given path. The file is
// optional; missing keys fall back to the defaults below.
func LoadDetectionConfig(path string) error {
	v := viper.New()
	v.SetConfigName("detection")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AutomaticEnv()

	setDetectionDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("No detection config file found, using defaults: %v", err)
	}

	if err := v.Unmarshal(&Detection); err != nil {
		return err
	}
	return nil
}

// DefaultDetectionConfig returns the built-in tuning without touching the
// filesystem. Used by tests.
func DefaultDetectionConfig() DetectionConfig {
	v := viper.New()
	setDetectionDefaults(v)
	var cfg DetectionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err) // static defaults, cannot fail
	}
	return cfg
}

func setDetectionDefaults(v *viper.Viper) {
	v.SetDefault("rules.moisture_low", 30.0)
	v.SetDefault("rules.moisture_high", 85.0)
	v.SetDefault("rules.temperature_low", 10.0)
	v.SetDefault("rules.temperature_high", 35.0)
	v.SetDefault("rules.humidity_low", 30.0)
	v.SetDefault("rules.humidity_high", 90.0)

	v.SetDefault("rules.heat_stress_temp", 32.0)
	v.SetDefault("rules.heat_stress_humidity", 80.0)
	v.SetDefault("rules.drought_moisture", 40.0)
	v.SetDefault("rules.drought_temp", 28.0)
	v.SetDefault("rules.waterlog_moisture", 80.0)
	v.SetDefault("rules.waterlog_humidity", 85.0)

	v.SetDefault("severity.high", -0.15)
	v.SetDefault("severity.medium", -0.08)
	v.SetDefault("severity.low", -0.03)

	v.SetDefault("scores.neutral", 0.5)
	v.SetDefault("scores.extreme_override", -0.9)
	v.SetDefault("scores.rule_fallback", -0.8)

	v.SetDefault("defaults.moisture", 60.0)
	v.SetDefault("defaults.temperature", 24.0)
	v.SetDefault("defaults.humidity", 65.0)

	v.SetDefault("cooldown_minutes", 1)
	v.SetDefault("model_path", "isolation_forest.json")
}
