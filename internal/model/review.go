package model

import "time"

// Review moderation statuses.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Review row.
type Review struct {
	ID                uint      `gorm:"primaryKey"                                   json:"id"`
	WorkerUserID      uint      `gorm:"not null;index"                               json:"workerUserId"`
	RestaurantID      *uint     `gorm:"index"                                        json:"restaurantId"`
	Rating            int       `gorm:"not null"                                     json:"rating"`
	Comment           *string   `gorm:"type:text"                                    json:"comment"`
	TipID             *uint     `json:"tipId"`
	Status            string    `gorm:"type:varchar(20);not null;default:'pending'"  json:"status"`
	ModeratedByUserID *uint     `json:"moderatedByUserId"`
	CreatedAt         time.Time `gorm:"not null"                                     json:"createdAt"`
}

// TableName pins the table name.
func (Review) TableName() string { return "reviews" }
