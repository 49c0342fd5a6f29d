package models

import "time"

// AgentRecommendation is the AI agent's corrective action for an anomaly.
// At most one recommendation exists per anomaly event; it is never updated
// after creation.
type AgentRecommendation struct {
	ID                uint          `json:"id" gorm:"primaryKey"`
	Timestamp         time.Time     `json:"timestamp"`
	AnomalyEventID    uint          `json:"anomaly_event_id" gorm:"not null;uniqueIndex"`
	AnomalyEvent      *AnomalyEvent `json:"-" gorm:"foreignKey:AnomalyEventID;constraint:OnDelete:CASCADE"`
	RecommendedAction string        `json:"recommended_action"`
	ExplanationText   string        `json:"explanation_text"`
	Confidence        float64       `json:"confidence"` // 0-1
}
