package model

import "time"

// Invitation statuses.
const (
	InvitationInvited  = "invited"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
)

// StaffInvitation is an outstanding offer to join a restaurant, addressed
// by email so it can be sent before the invitee has an account. At most one
// invited row exists per (restaurant, email); Email is stored lowercased.
type StaffInvitation struct {
	ID               uint       `gorm:"primaryKey"                                   json:"id"`
	RestaurantID     uint       `gorm:"not null;index;uniqueIndex:idx_staff_invitations_open,where:status = 'invited'" json:"restaurantId"`
	Email            string     `gorm:"type:varchar(255);not null;index;uniqueIndex:idx_staff_invitations_open,where:status = 'invited'" json:"workerEmail"`
	InvitedUserID    *uint      `json:"invitedUserId"`
	InviterUserID    uint       `gorm:"not null"                                     json:"inviterUserId"`
	RoleInRestaurant string     `gorm:"type:varchar(50);not null"                    json:"role"`
	Token            string     `gorm:"type:varchar(64);not null;uniqueIndex"        json:"-"`
	Status           string     `gorm:"type:varchar(20);not null;default:'invited'"  json:"status"`
	ExpiresAt        time.Time  `gorm:"not null"                                     json:"expiresAt"`
	AcceptedAt       *time.Time `json:"acceptedAt"`
	CreatedAt        time.Time  `gorm:"not null"                                     json:"invitedAt"`
}

// TableName pins the table name.
func (StaffInvitation) TableName() string { return "staff_invitations" }

// Open reports whether the invitation can still be accepted at now.
func (i *StaffInvitation) Open(now time.Time) bool {
	return i.Status == InvitationInvited && now.Before(i.ExpiresAt)
}
