package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// StaffWithUser is a staff row joined with its user.
type StaffWithUser struct {
	model.Staff
	UserName      string  `gorm:"column:user_name"`
	UserEmail     string  `gorm:"column:user_email"`
	UserPhone     *string `gorm:"column:user_phone"`
	UserAvatarURL *string `gorm:"column:user_avatar_url"`
	UserRole      string  `gorm:"column:user_role"`
}

// StaffDetail is a staff row with the names needed to describe it.
type StaffDetail struct {
	model.Staff
	UserName          string `gorm:"column:user_name"`
	UserEmail         string `gorm:"column:user_email"`
	RestaurantName    string `gorm:"column:restaurant_name"`
	RestaurantOwnerID uint   `gorm:"column:restaurant_owner_id"`
}

// SlugResolution is everything a QR slug points at.
type SlugResolution struct {
	StaffID             uint      `gorm:"column:staff_id"`
	WorkerUserID        uint      `gorm:"column:worker_user_id"`
	RestaurantID        uint      `gorm:"column:restaurant_id"`
	RoleInRestaurant    string    `gorm:"column:role_in_restaurant"`
	JoinedAt            time.Time `gorm:"column:joined_at"`
	WorkerName          string    `gorm:"column:worker_name"`
	WorkerAvatarURL     *string   `gorm:"column:worker_avatar_url"`
	RestaurantName      string    `gorm:"column:restaurant_name"`
	RestaurantAddress   *string   `gorm:"column:restaurant_address"`
	RestaurantUPIHandle *string   `gorm:"column:restaurant_upi_handle"`
}

// WorkerMembership is one restaurant a worker is staff at.
type WorkerMembership struct {
	RestaurantID      uint    `gorm:"column:restaurant_id"`
	RestaurantName    string  `gorm:"column:restaurant_name"`
	RestaurantAddress *string `gorm:"column:restaurant_address"`
	QRSlug            string  `gorm:"column:qr_slug"`
	RoleInRestaurant  string  `gorm:"column:role_in_restaurant"`
}

// StaffRepository staff data access and QR slug resolution.
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id uint) (*model.Staff, error)
	GetDetail(ctx context.Context, id uint) (*StaffDetail, error)
	GetByRestaurantAndUser(ctx context.Context, restaurantID, userID uint) (*model.Staff, error)
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]StaffWithUser, error)
	ListMemberships(ctx context.Context, userID uint) ([]WorkerMembership, error)
	ResolveSlug(ctx context.Context, slug string) (*SlugResolution, error)
	Delete(ctx context.Context, id uint) error
	DeleteByRestaurant(ctx context.Context, restaurantID uint) error
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo creates a StaffRepository.
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id uint) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) GetDetail(ctx context.Context, id uint) (*StaffDetail, error) {
	var rows []StaffDetail
	err := r.db.WithContext(ctx).
		Table("staff").
		Select("staff.*, users.name AS user_name, users.email AS user_email, "+
			"restaurants.name AS restaurant_name, restaurants.owner_user_id AS restaurant_owner_id").
		Joins("JOIN users ON users.id = staff.user_id").
		Joins("JOIN restaurants ON restaurants.id = staff.restaurant_id").
		Where("staff.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *staffRepo) GetByRestaurantAndUser(ctx context.Context, restaurantID, userID uint) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListByRestaurant(ctx context.Context, restaurantID uint) ([]StaffWithUser, error) {
	var rows []StaffWithUser
	err := r.db.WithContext(ctx).
		Table("staff").
		Select("staff.*, users.name AS user_name, users.email AS user_email, users.phone AS user_phone, "+
			"users.avatar_url AS user_avatar_url, users.role AS user_role").
		Joins("JOIN users ON users.id = staff.user_id").
		Where("staff.restaurant_id = ?", restaurantID).
		Order("staff.joined_at ASC, staff.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *staffRepo) ListMemberships(ctx context.Context, userID uint) ([]WorkerMembership, error) {
	var rows []WorkerMembership
	err := r.db.WithContext(ctx).
		Table("staff").
		Select("restaurants.id AS restaurant_id, restaurants.name AS restaurant_name, "+
			"restaurants.address AS restaurant_address, staff.qr_slug, staff.role_in_restaurant").
		Joins("JOIN restaurants ON restaurants.id = staff.restaurant_id").
		Where("staff.user_id = ?", userID).
		Order("staff.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ResolveSlug joins staff, users and restaurants by the unique qr_slug
// index. An unknown slug yields gorm.ErrRecordNotFound.
func (r *staffRepo) ResolveSlug(ctx context.Context, slug string) (*SlugResolution, error) {
	var rows []SlugResolution
	err := r.db.WithContext(ctx).
		Table("staff").
		Select("staff.id AS staff_id, staff.user_id AS worker_user_id, staff.restaurant_id, "+
			"staff.role_in_restaurant, staff.joined_at, users.name AS worker_name, "+
			"users.avatar_url AS worker_avatar_url, restaurants.name AS restaurant_name, "+
			"restaurants.address AS restaurant_address, restaurants.upi_handle AS restaurant_upi_handle").
		Joins("JOIN users ON users.id = staff.user_id").
		Joins("JOIN restaurants ON restaurants.id = staff.restaurant_id").
		Where("staff.qr_slug = ?", slug).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *staffRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Staff{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *staffRepo) DeleteByRestaurant(ctx context.Context, restaurantID uint) error {
	return r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Delete(&model.Staff{}).Error
}
