package model

import "time"

// User is an identity known to the service.
type User struct {
	ID         uint      `gorm:"primaryKey"                                        json:"id"`
	AuthUserID string    `gorm:"column:auth_user_id;type:varchar(255);not null;uniqueIndex" json:"authUserId"`
	Role       string    `gorm:"type:varchar(20);not null;default:'worker'"        json:"role"`
	Name       string    `gorm:"type:varchar(255);not null"                        json:"name"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex"            json:"email"`
	Phone      *string   `gorm:"type:varchar(50)"                                  json:"phone"`
	AvatarURL  *string   `gorm:"column:avatar_url;type:text"                       json:"avatarUrl"`
	CreatedAt  time.Time `gorm:"not null"                                          json:"createdAt"`
}

// TableName pins the table name.
func (User) TableName() string { return "users" }
