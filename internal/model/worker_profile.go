package model

import "time"

// WorkerProfile is the public-facing card of a worker.
type WorkerProfile struct {
	ID           uint      `gorm:"primaryKey"                              json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex"                    json:"userId"`
	RestaurantID uint      `gorm:"not null;index"                          json:"restaurantId"`
	DisplayName  string    `gorm:"type:varchar(255);not null"              json:"displayName"`
	Bio          *string   `gorm:"type:text"                               json:"bio"`
	UPIVPA       *string   `gorm:"column:upi_vpa;type:varchar(255)"        json:"upiVpa"`
	QRCodeURL    string    `gorm:"column:qrcode_url;type:text;not null"    json:"qrcodeUrl"`
	CreatedAt    time.Time `gorm:"not null"                                json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null"                                json:"updatedAt"`
}

// TableName pins the table name.
func (WorkerProfile) TableName() string { return "worker_profiles" }
