package repository

import (
	"context"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// WorkerProfileRow is a profile joined with its user and restaurant.
type WorkerProfileRow struct {
	model.WorkerProfile
	UserEmail         *string `gorm:"column:user_email"`
	UserName          *string `gorm:"column:user_name"`
	UserAvatarURL     *string `gorm:"column:user_avatar_url"`
	RestaurantName    *string `gorm:"column:restaurant_name"`
	RestaurantAddress *string `gorm:"column:restaurant_address"`
}

// WorkerProfileFilter narrows a profile listing.
type WorkerProfileFilter struct {
	RestaurantID *uint
	Search       string
	Sort         string // displayName | createdAt
	Ascending    bool
}

// WorkerProfileRepository worker profile data access.
type WorkerProfileRepository interface {
	Create(ctx context.Context, p *model.WorkerProfile) error
	GetByID(ctx context.Context, id uint) (*model.WorkerProfile, error)
	GetByUserID(ctx context.Context, userID uint) (*model.WorkerProfile, error)
	GetDetail(ctx context.Context, id uint) (*WorkerProfileRow, error)
	List(ctx context.Context, filter WorkerProfileFilter, offset, limit int) ([]WorkerProfileRow, error)
	Update(ctx context.Context, p *model.WorkerProfile) error
	Delete(ctx context.Context, id uint) error
	DeleteByRestaurant(ctx context.Context, restaurantID uint) error
}

type workerProfileRepo struct {
	db *gorm.DB
}

// NewWorkerProfileRepo creates a WorkerProfileRepository.
func NewWorkerProfileRepo(db *gorm.DB) WorkerProfileRepository {
	return &workerProfileRepo{db: db}
}

const workerProfileSelect = "worker_profiles.*, users.email AS user_email, users.name AS user_name, " +
	"users.avatar_url AS user_avatar_url, restaurants.name AS restaurant_name, " +
	"restaurants.address AS restaurant_address"

func (r *workerProfileRepo) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("worker_profiles").
		Select(workerProfileSelect).
		Joins("LEFT JOIN users ON users.id = worker_profiles.user_id").
		Joins("LEFT JOIN restaurants ON restaurants.id = worker_profiles.restaurant_id")
}

func (r *workerProfileRepo) Create(ctx context.Context, p *model.WorkerProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *workerProfileRepo) GetByID(ctx context.Context, id uint) (*model.WorkerProfile, error) {
	var p model.WorkerProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *workerProfileRepo) GetByUserID(ctx context.Context, userID uint) (*model.WorkerProfile, error) {
	var p model.WorkerProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *workerProfileRepo) GetDetail(ctx context.Context, id uint) (*WorkerProfileRow, error) {
	var rows []WorkerProfileRow
	if err := r.joined(ctx).
		Where("worker_profiles.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *workerProfileRepo) List(ctx context.Context, filter WorkerProfileFilter, offset, limit int) ([]WorkerProfileRow, error) {
	offset, limit = clampPage(offset, limit)

	db := r.joined(ctx)
	if filter.RestaurantID != nil {
		db = db.Where("worker_profiles.restaurant_id = ?", *filter.RestaurantID)
	}
	if filter.Search != "" {
		db = db.Where("LOWER(worker_profiles.display_name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	column := "worker_profiles.created_at"
	if filter.Sort == "displayName" {
		column = "worker_profiles.display_name"
	}
	direction := " DESC"
	if filter.Ascending {
		direction = " ASC"
	}

	var rows []WorkerProfileRow
	if err := db.Order(column + direction).
		Order("worker_profiles.id" + direction).
		Offset(offset).Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workerProfileRepo) Update(ctx context.Context, p *model.WorkerProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *workerProfileRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.WorkerProfile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *workerProfileRepo) DeleteByRestaurant(ctx context.Context, restaurantID uint) error {
	return r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Delete(&model.WorkerProfile{}).Error
}
