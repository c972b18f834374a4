package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// RestaurantListRow is a restaurant with its staff head-count.
type RestaurantListRow struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	UPIHandle  *string   `gorm:"column:upi_handle" json:"upiHandle"`
	CreatedAt  time.Time `json:"createdAt"`
	StaffCount int64     `json:"staffCount"`
}

// RestaurantRepository restaurant data access.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	GetByID(ctx context.Context, id uint) (*model.Restaurant, error)
	Update(ctx context.Context, restaurant *model.Restaurant) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]RestaurantListRow, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type restaurantRepo struct {
	db *gorm.DB
}

// NewRestaurantRepo creates a RestaurantRepository.
func NewRestaurantRepo(db *gorm.DB) RestaurantRepository {
	return &restaurantRepo{db: db}
}

func (r *restaurantRepo) Create(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *restaurantRepo) GetByID(ctx context.Context, id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepo) Update(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
}

func (r *restaurantRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Restaurant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *restaurantRepo) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]RestaurantListRow, error) {
	offset, limit = clampPage(offset, limit)

	var rows []RestaurantListRow
	err := r.db.WithContext(ctx).
		Table("restaurants").
		Select("restaurants.id, restaurants.name, restaurants.address, restaurants.upi_handle, "+
			"restaurants.created_at, COUNT(staff.id) AS staff_count").
		Joins("LEFT JOIN staff ON staff.restaurant_id = restaurants.id").
		Where("restaurants.owner_user_id = ?", ownerID).
		Group("restaurants.id, restaurants.name, restaurants.address, restaurants.upi_handle, restaurants.created_at").
		Order("restaurants.created_at DESC, restaurants.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *restaurantRepo) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("owner_user_id = ?", ownerID).
		Count(&n).Error
	return n, err
}
