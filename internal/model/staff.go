package model

import "time"

// DefaultStaffRole is the roleInRestaurant given when none is supplied.
const DefaultStaffRole = "staff"

// Staff links a worker to a restaurant and owns the worker's QR slug.
type Staff struct {
	ID               uint      `gorm:"primaryKey"                                                 json:"id"`
	RestaurantID     uint      `gorm:"not null;uniqueIndex:idx_staff_restaurant_user"             json:"restaurantId"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_staff_restaurant_user;index"       json:"userId"`
	RoleInRestaurant string    `gorm:"type:varchar(50);not null;default:'staff'"                  json:"roleInRestaurant"`
	QRSlug           string    `gorm:"column:qr_slug;type:varchar(255);not null;uniqueIndex"      json:"qrSlug"`
	JoinedAt         time.Time `gorm:"not null"                                                   json:"joinedAt"`
}

// TableName pins the table name.
func (Staff) TableName() string { return "staff" }
