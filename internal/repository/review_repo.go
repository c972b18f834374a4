package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// WorkerReviewRow is a review as its worker sees it.
type WorkerReviewRow struct {
	model.Review
	RestaurantName *string `gorm:"column:restaurant_name"`
	TipAmountCents *int64  `gorm:"column:tip_amount_cents"`
	TipPayerName   *string `gorm:"column:tip_payer_name"`
}

// RestaurantReviewRow is a review as a restaurant owner sees it.
type RestaurantReviewRow struct {
	model.Review
	WorkerName     *string `gorm:"column:worker_name"`
	TipAmountCents *int64  `gorm:"column:tip_amount_cents"`
	TipPayerName   *string `gorm:"column:tip_payer_name"`
}

// ApprovedReviewRow is a published review on a public profile.
type ApprovedReviewRow struct {
	ID             uint      `gorm:"column:id"`
	Rating         int       `gorm:"column:rating"`
	Comment        *string   `gorm:"column:comment"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	RestaurantName *string   `gorm:"column:restaurant_name"`
}

// RatingStats summarises a worker's reviews.
type RatingStats struct {
	Average float64 `gorm:"column:average"`
	Count   int64   `gorm:"column:review_count"`
}

// ReviewRepository review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uint) (*model.Review, error)
	UpdateModeration(ctx context.Context, id uint, status string, moderatorID uint) error
	ListByWorker(ctx context.Context, workerID uint, offset, limit int) ([]WorkerReviewRow, error)
	ListByRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]RestaurantReviewRow, error)
	ApprovedStats(ctx context.Context, workerID uint) (*RatingStats, error)
	StatsByWorker(ctx context.Context, workerID uint) (*RatingStats, error)
	RecentApproved(ctx context.Context, workerID uint, limit int) ([]ApprovedReviewRow, error)
}

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo creates a ReviewRepository.
func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) GetByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) UpdateModeration(ctx context.Context, id uint, status string, moderatorID uint) error {
	result := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":               status,
			"moderated_by_user_id": moderatorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepo) ListByWorker(ctx context.Context, workerID uint, offset, limit int) ([]WorkerReviewRow, error) {
	offset, limit = clampPage(offset, limit)

	var rows []WorkerReviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, restaurants.name AS restaurant_name, "+
			"tips.amount_cents AS tip_amount_cents, tips.payer_name AS tip_payer_name").
		Joins("LEFT JOIN restaurants ON restaurants.id = reviews.restaurant_id").
		Joins("LEFT JOIN tips ON tips.id = reviews.tip_id").
		Where("reviews.worker_user_id = ?", workerID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewRepo) ListByRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]RestaurantReviewRow, error) {
	offset, limit = clampPage(offset, limit)

	var rows []RestaurantReviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.name AS worker_name, "+
			"tips.amount_cents AS tip_amount_cents, tips.payer_name AS tip_payer_name").
		Joins("LEFT JOIN users ON users.id = reviews.worker_user_id").
		Joins("LEFT JOIN tips ON tips.id = reviews.tip_id").
		Where("reviews.restaurant_id = ?", restaurantID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ApprovedStats averages only approved reviews; pending and rejected
// reviews never affect a worker's public rating.
func (r *reviewRepo) ApprovedStats(ctx context.Context, workerID uint) (*RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(id) AS review_count").
		Where("worker_user_id = ? AND status = ?", workerID, model.ReviewApproved).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// StatsByWorker averages every review regardless of status, for the
// worker profile dashboard.
func (r *reviewRepo) StatsByWorker(ctx context.Context, workerID uint) (*RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(id) AS review_count").
		Where("worker_user_id = ?", workerID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reviewRepo) RecentApproved(ctx context.Context, workerID uint, limit int) ([]ApprovedReviewRow, error) {
	var rows []ApprovedReviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.rating, reviews.comment, reviews.created_at, restaurants.name AS restaurant_name").
		Joins("LEFT JOIN restaurants ON restaurants.id = reviews.restaurant_id").
		Where("reviews.worker_user_id = ? AND reviews.status = ?", workerID, model.ReviewApproved).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
