package model

import "time"

// Notification types.
const (
	NotificationTipReceived            = "tip_received"
	NotificationReviewPosted           = "review_posted"
	NotificationStaffInvitation        = "staff_invitation"
	NotificationPendingStaffInvitation = "pending_staff_invitation"
	NotificationInvitationAccepted     = "staff_invitation_accepted"
)

// Notification row.
type Notification struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"`
	UserID    uint      `gorm:"not null;index"             json:"userId"`
	Type      string    `gorm:"type:varchar(50);not null"  json:"type"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Body      string    `gorm:"type:text;not null"         json:"body"`
	Read      bool      `gorm:"not null;default:false"     json:"read"`
	CreatedAt time.Time `gorm:"not null"                   json:"createdAt"`
}

// TableName pins the table name.
func (Notification) TableName() string { return "notifications" }
