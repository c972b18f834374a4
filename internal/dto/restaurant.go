package dto

import (
	"time"

	"tipsy/internal/model"
)

// CreateRestaurantRequest POST /restaurants
type CreateRestaurantRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	UPIHandle *string `json:"upi_handle"`
}

// UpdateRestaurantRequest PATCH /restaurants/:id. Absent fields are left
// alone; null clears address and upi_handle.
type UpdateRestaurantRequest struct {
	Name      Optional[string] `json:"name"`
	Address   Optional[string] `json:"address"`
	UPIHandle Optional[string] `json:"upi_handle"`
}

// Empty reports whether no field was supplied.
func (r *UpdateRestaurantRequest) Empty() bool {
	return !r.Name.Set && !r.Address.Set && !r.UPIHandle.Set
}

// OwnerRef the owner shown on a restaurant detail.
type OwnerRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RestaurantDetailResponse GET /restaurants/:id
type RestaurantDetailResponse struct {
	model.Restaurant
	Owner OwnerRef              `json:"owner"`
	Staff []StaffMemberResponse `json:"staff"`
}

// RestaurantListItem an entry of GET /restaurants
type RestaurantListItem struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	UPIHandle  *string   `json:"upiHandle"`
	CreatedAt  time.Time `json:"createdAt"`
	StaffCount int64     `json:"staffCount"`
}

// DeleteRestaurantResponse DELETE /restaurants/:id
type DeleteRestaurantResponse struct {
	Message           string           `json:"message"`
	DeletedRestaurant model.Restaurant `json:"deletedRestaurant"`
}
