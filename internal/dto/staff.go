package dto

import "time"

// AddStaffRequest POST /staff
type AddStaffRequest struct {
	RestaurantID     FlexInt `json:"restaurantId"`
	UserEmail        string  `json:"userEmail"`
	RoleInRestaurant string  `json:"roleInRestaurant"`
}

// StaffUserRef the user behind a staff row.
type StaffUserRef struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
	Role      string  `json:"role,omitempty"`
}

// StaffMemberResponse a staff row with its user.
type StaffMemberResponse struct {
	ID               uint         `json:"id"`
	RestaurantID     uint         `json:"restaurantId"`
	UserID           uint         `json:"userId"`
	RoleInRestaurant string       `json:"roleInRestaurant"`
	QRSlug           string       `json:"qrSlug"`
	JoinedAt         time.Time    `json:"joinedAt"`
	User             StaffUserRef `json:"user"`
}

// DeletedStaffRef describes a removed staff row.
type DeletedStaffRef struct {
	ID               uint   `json:"id"`
	QRSlug           string `json:"qrSlug"`
	RoleInRestaurant string `json:"roleInRestaurant"`
	User             struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Restaurant IDName `json:"restaurant"`
}

// RemoveStaffResponse DELETE /staff/:id
type RemoveStaffResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	DeletedStaff DeletedStaffRef `json:"deletedStaff"`
}

// InviteStaffRequest POST /staff/invite
type InviteStaffRequest struct {
	RestaurantID FlexInt `json:"restaurantId"`
	WorkerEmail  string  `json:"workerEmail"`
	Role         string  `json:"role"`
}

// InviterDetails who sent an invitation.
type InviterDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InvitationResponse an invitation as shown to its sender.
type InvitationResponse struct {
	ID              uint           `json:"id"`
	RestaurantID    uint           `json:"restaurantId"`
	RestaurantName  string         `json:"restaurantName"`
	WorkerEmail     string         `json:"workerEmail"`
	Role            string         `json:"role"`
	Status          string         `json:"status"`
	InvitationToken string         `json:"invitationToken"`
	InvitationLink  string         `json:"invitationLink"`
	InvitedAt       time.Time      `json:"invitedAt"`
	ExpiresAt       time.Time      `json:"expiresAt"`
	InviterDetails  InviterDetails `json:"inviterDetails"`
	Note            string         `json:"note,omitempty"`
}

// InviteStaffResponse 201 body of POST /staff/invite
type InviteStaffResponse struct {
	Message    string             `json:"message"`
	Invitation InvitationResponse `json:"invitation"`
}

// InvitationListQuery GET /staff/invite
type InvitationListQuery struct {
	ListQuery
	RestaurantID uint   `form:"restaurantId"`
	Status       string `form:"status" binding:"omitempty,oneof=invited accepted revoked"`
}

// AcceptInvitationRequest POST /staff/invite/accept
type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

// AcceptInvitationResponse the staff row created by accepting.
type AcceptInvitationResponse struct {
	Message string              `json:"message"`
	Staff   StaffMemberResponse `json:"staff"`
}
