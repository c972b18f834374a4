package model

import "time"

// Restaurant row.
type Restaurant struct {
	ID          uint      `gorm:"primaryKey"                       json:"id"`
	OwnerUserID uint      `gorm:"not null;index"                   json:"ownerUserId"`
	Name        string    `gorm:"type:varchar(255);not null"       json:"name"`
	Address     *string   `gorm:"type:text"                        json:"address"`
	UPIHandle   *string   `gorm:"column:upi_handle;type:varchar(255)" json:"upiHandle"`
	CreatedAt   time.Time `gorm:"not null"                         json:"createdAt"`
}

// TableName pins the table name.
func (Restaurant) TableName() string { return "restaurants" }
