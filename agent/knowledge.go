package agent

import "github.com/sarraz13/agri-monitoring-backend/models"

// rule is one knowledge base entry: the single best action for an anomaly
// category, why it is recommended, and how much the rule base trusts it.
type rule struct {
	RecommendedAction   string
	ExplanationTemplate string
	BaseConfidence      float64
	Priority            string
}

// knowledgeBase maps anomaly categories to corrective actions. Action and
// template strings are fixed: recommendations must be reproducible.
var knowledgeBase = map[string]rule{
	models.AnomalySoilMoistureLow: {
		RecommendedAction:   "Increase irrigation frequency by 30% for the next 3 days and check for leaks.",
		ExplanationTemplate: "Soil moisture below optimal range (30-70%). Sudden drop detected indicating possible irrigation failure.",
		BaseConfidence:      0.85,
		Priority:            "high",
	},
	models.AnomalySoilMoistureHigh: {
		RecommendedAction:   "Reduce irrigation, check drainage system, and aerate soil to prevent root rot.",
		ExplanationTemplate: "Soil moisture above optimal range. Risk of waterlogging and fungal diseases.",
		BaseConfidence:      0.80,
		Priority:            "medium",
	},
	models.AnomalyTemperatureLow: {
		RecommendedAction:   "Install thermal covers for sensitive crops and monitor for frost damage overnight.",
		ExplanationTemplate: "Temperature below crop-specific optimal range. Risk of growth inhibition and frost damage.",
		BaseConfidence:      0.75,
		Priority:            "medium",
	},
	models.AnomalyTemperatureHigh: {
		RecommendedAction:   "Increase shade coverage and adjust irrigation to early morning/late evening to reduce heat stress.",
		ExplanationTemplate: "Temperature above optimal range. Sustained high temperature detected (>5°C above normal).",
		BaseConfidence:      0.82,
		Priority:            "high",
	},
	models.AnomalyHumidityHigh: {
		RecommendedAction:   "Improve ventilation, reduce irrigation frequency, and monitor for fungal diseases.",
		ExplanationTemplate: "High humidity promotes fungal growth and reduces transpiration efficiency.",
		BaseConfidence:      0.78,
		Priority:            "medium",
	},
	models.AnomalyHumidityLow: {
		RecommendedAction:   "Increase misting frequency and monitor plant hydration to prevent drying.",
		ExplanationTemplate: "Low humidity detected (<30%). Risk of excessive transpiration and plant dehydration.",
		BaseConfidence:      0.76,
		Priority:            "low",
	},
	models.AnomalyHeatStress: {
		RecommendedAction:   "Implement evaporative cooling, increase irrigation during peak heat, and use shade nets.",
		ExplanationTemplate: "Heat stress conditions detected. Temperature sustained above 32°C.",
		BaseConfidence:      0.85,
		Priority:            "high",
	},
	models.AnomalyDroughtStress: {
		RecommendedAction:   "Apply deficit irrigation immediately and mulch soil surface to retain moisture.",
		ExplanationTemplate: "Combined low soil moisture and high temperature. Crops are losing water faster than the soil supplies it.",
		BaseConfidence:      0.83,
		Priority:            "high",
	},
	models.AnomalyWaterlogging: {
		RecommendedAction:   "Suspend irrigation, open drainage channels, and monitor root zone oxygen levels.",
		ExplanationTemplate: "Saturated soil with high air humidity. Prolonged waterlogging starves roots of oxygen.",
		BaseConfidence:      0.81,
		Priority:            "medium",
	},
	models.AnomalySensorFailure: {
		RecommendedAction:   "Inspect sensor hardware, check connections, and verify data transmission.",
		ExplanationTemplate: "Sensor failure or communication disruption detected. Data may be unreliable.",
		BaseConfidence:      0.90,
		Priority:            "critical",
	},
	models.AnomalyDriftDetected: {
		RecommendedAction:   "Calibrate sensors and verify readings against manual measurements.",
		ExplanationTemplate: "Gradual sensor drift detected (>20% shift over 48h). Data accuracy compromised.",
		BaseConfidence:      0.88,
		Priority:            "medium",
	},
}
