package model

// PropertyType is a flat shared vocabulary entry (house, apartment, ...)
type PropertyType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`
}

// Feature is a flat shared vocabulary entry (garden, garage, ...)
type Feature struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`
}
