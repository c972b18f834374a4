package dto

import (
	"encoding/json"
	"time"
)

// UpdateProfileRequest PATCH /users/me. null clears phone and avatar_url.
type UpdateProfileRequest struct {
	Name      Optional[string] `json:"name"`
	Phone     Optional[string] `json:"phone"`
	AvatarURL Optional[string] `json:"avatar_url"`
}

// Empty reports whether no field was supplied.
func (r *UpdateProfileRequest) Empty() bool {
	return !r.Name.Set && !r.Phone.Set && !r.AvatarURL.Set
}

// ProfileStats is the role-specific part of a self profile. The set of
// variants is closed: WorkerStats, OwnerStats and AdminStats.
type ProfileStats interface {
	profileStats()
}

// WorkerStats earnings of a worker.
type WorkerStats struct {
	TotalEarningsCents int64 `json:"total_earnings_cents"`
	TipsCount          int64 `json:"tips_count"`
}

// OwnerStats holdings of an owner.
type OwnerStats struct {
	RestaurantsCount int64 `json:"restaurants_count"`
}

// AdminStats capabilities of an admin.
type AdminStats struct {
	Permissions []string `json:"permissions"`
}

func (WorkerStats) profileStats() {}
func (OwnerStats) profileStats()  {}
func (AdminStats) profileStats()  {}

// AdminPermissions lists what every admin may manage.
var AdminPermissions = []string{"manage_users", "manage_restaurants", "manage_features"}

// ProfileUser the user fields of a self profile.
type ProfileUser struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse GET/PATCH /users/me. User fields and stats render as one
// flat object.
type ProfileResponse struct {
	User  ProfileUser
	Stats ProfileStats
}

func (p ProfileResponse) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":         p.User.ID,
		"role":       p.User.Role,
		"name":       p.User.Name,
		"email":      p.User.Email,
		"phone":      p.User.Phone,
		"avatar_url": p.User.AvatarURL,
		"created_at": p.User.CreatedAt,
	}
	switch s := p.Stats.(type) {
	case WorkerStats:
		out["total_earnings_cents"] = s.TotalEarningsCents
		out["tips_count"] = s.TipsCount
	case OwnerStats:
		out["restaurants_count"] = s.RestaurantsCount
	case AdminStats:
		out["permissions"] = s.Permissions
	}
	return json.Marshal(out)
}
