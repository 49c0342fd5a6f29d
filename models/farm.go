package models

// FarmProfile represents a farm owned by a user.
type FarmProfile struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OwnerID  uint    `json:"owner_id" gorm:"not null;index"`
	Owner    *User   `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Location string  `json:"location" gorm:"not null"`
	Size     float64 `json:"size"` // hectares
	CropType string  `json:"crop_type"`
}

// FieldPlot is a specific plot within a farm. Each plot has its own
// sensor-reading stream and anomaly history.
type FieldPlot struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	FarmID      uint         `json:"farm_id" gorm:"not null;index"`
	Farm        *FarmProfile `json:"-" gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE"`
	CropVariety string       `json:"crop_variety"`
}
