package model

import "time"

// DefaultCurrency applies when a tip names none.
const DefaultCurrency = "INR"

// Tip is an immutable record of money given to a worker.
type Tip struct {
	ID           uint      `gorm:"primaryKey"                                 json:"id"`
	WorkerUserID uint      `gorm:"not null;index"                             json:"workerUserId"`
	RestaurantID *uint     `gorm:"index"                                      json:"restaurantId"`
	AmountCents  int64     `gorm:"not null"                                   json:"amountCents"`
	Currency     string    `gorm:"type:varchar(10);not null;default:'INR'"    json:"currency"`
	PayerName    *string   `gorm:"type:varchar(255)"                          json:"payerName"`
	Message      *string   `gorm:"type:text"                                  json:"message"`
	Rating       *int      `json:"rating"`
	CreatedAt    time.Time `gorm:"not null;index"                             json:"createdAt"`
}

// TableName pins the table name.
func (Tip) TableName() string { return "tips" }
