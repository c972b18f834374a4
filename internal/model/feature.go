package model

import "time"

// Feature is a named on/off flag.
type Feature struct {
	ID          uint      `gorm:"primaryKey"                          json:"id"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Name        string    `gorm:"type:varchar(255);not null"          json:"name"`
	Description *string   `gorm:"type:text"                           json:"description"`
	Enabled     bool      `gorm:"not null"                            json:"enabled"`
	CreatedAt   time.Time `gorm:"not null"                            json:"createdAt"`
}

// TableName pins the table name.
func (Feature) TableName() string { return "features" }
