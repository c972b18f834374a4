package dto

import (
	"time"

	"tipsy/internal/model"
)

// ── Public profiles ──

// WorkerRestaurant one workplace on a public profile.
type WorkerRestaurant struct {
	Restaurant struct {
		ID      uint    `json:"id"`
		Name    string  `json:"name"`
		Address *string `json:"address"`
	} `json:"restaurant"`
	Staff struct {
		QRSlug           string `json:"qrSlug"`
		RoleInRestaurant string `json:"roleInRestaurant"`
	} `json:"staff"`
}

// PublicReview an approved review on a public profile.
type PublicReview struct {
	ID         uint      `json:"id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
	Restaurant *NameRef  `json:"restaurant,omitempty"`
}

// WorkerPublicProfile GET /workers/:id
type WorkerPublicProfile struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	AvatarURL     *string            `json:"avatarUrl"`
	AverageRating float64            `json:"averageRating"`
	Restaurants   []WorkerRestaurant `json:"restaurants"`
	RecentReviews []PublicReview     `json:"recentReviews"`
}

// SlugWorker the worker block of a slug profile.
type SlugWorker struct {
	Name             string    `json:"name"`
	AvatarURL        *string   `json:"avatarUrl"`
	AverageRating    float64   `json:"averageRating"`
	RoleInRestaurant string    `json:"roleInRestaurant"`
	JoinedAt         time.Time `json:"joinedAt"`
}

// SlugRestaurant the restaurant block of a slug profile.
type SlugRestaurant struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Address   *string `json:"address"`
	UPIHandle *string `json:"upiHandle"`
}

// SlugProfileResponse GET /workers/by-slug/:qr_slug
type SlugProfileResponse struct {
	Worker     SlugWorker     `json:"worker"`
	Restaurant SlugRestaurant `json:"restaurant"`
	Reviews    []PublicReview `json:"reviews"`
	QRSlug     string         `json:"qrSlug"`
}

// ── Worker profile CRUD ──

// CreateWorkerProfileRequest POST /workers. user_id names the worker the
// profile is for.
type CreateWorkerProfileRequest struct {
	UserID       FlexInt `json:"user_id"`
	RestaurantID FlexInt `json:"restaurant_id"`
	DisplayName  string  `json:"display_name"`
	Bio          *string `json:"bio"`
	UPIVPA       *string `json:"upi_vpa"`
}

// UpdateWorkerProfileRequest PUT /workers?id=
type UpdateWorkerProfileRequest struct {
	DisplayName Optional[string] `json:"display_name"`
	Bio         Optional[string] `json:"bio"`
	UPIVPA      Optional[string] `json:"upi_vpa"`
}

// WorkerProfileQuery GET /workers
type WorkerProfileQuery struct {
	ListQuery
	ID           string `form:"id"`
	RestaurantID string `form:"restaurant_id"`
	Search       string `form:"search" binding:"omitempty,max=100"`
	Sort         string `form:"sort"   binding:"omitempty,oneof=createdAt displayName"`
	Order        string `form:"order"  binding:"omitempty,oneof=asc desc"`
}

// EarningsStats tip totals on a worker profile, all in cents. Average is
// rounded to the nearest cent.
type EarningsStats struct {
	Total    int64 `json:"total"`
	TipCount int64 `json:"tipCount"`
	Average  int64 `json:"average"`
}

// ReviewStats review totals on a worker profile.
type ReviewStats struct {
	Total     int64   `json:"total"`
	AvgRating float64 `json:"avgRating"`
}

// WorkerProfileResponse a profile with joined names and, for single
// lookups, derived stats.
type WorkerProfileResponse struct {
	model.WorkerProfile
	UserEmail         *string        `json:"userEmail"`
	UserName          *string        `json:"userName"`
	UserAvatarURL     *string        `json:"userAvatarUrl"`
	RestaurantName    *string        `json:"restaurantName"`
	RestaurantAddress *string        `json:"restaurantAddress"`
	Earnings          *EarningsStats `json:"earnings,omitempty"`
	Reviews           *ReviewStats   `json:"reviews,omitempty"`
}

// DeleteWorkerProfileResponse DELETE /workers?id=
type DeleteWorkerProfileResponse struct {
	Message string              `json:"message"`
	Worker  model.WorkerProfile `json:"worker"`
}
