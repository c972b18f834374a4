package repository

import (
	"context"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// TipWithRestaurant is a tip joined with its (optional) restaurant.
type TipWithRestaurant struct {
	model.Tip
	RestaurantName *string `gorm:"column:restaurant_name"`
}

// TipExportRow is a tip with the names shown in spreadsheets.
type TipExportRow struct {
	model.Tip
	WorkerName     string  `gorm:"column:worker_name"`
	RestaurantName *string `gorm:"column:restaurant_name"`
}

// TipTotals aggregates a worker's tips.
type TipTotals struct {
	TotalCents int64   `gorm:"column:total_cents"`
	Count      int64   `gorm:"column:tip_count"`
	AvgCents   float64 `gorm:"column:avg_cents"`
}

// TipExportFilter narrows an export. At least one field should be set.
type TipExportFilter struct {
	WorkerUserID *uint
	RestaurantID *uint
}

// TipRepository tip data access.
type TipRepository interface {
	Create(ctx context.Context, tip *model.Tip) error
	GetByID(ctx context.Context, id uint) (*model.Tip, error)
	ListByWorker(ctx context.Context, workerID uint, offset, limit int) ([]TipWithRestaurant, error)
	TotalsByWorker(ctx context.Context, workerID uint) (*TipTotals, error)
	ListForExport(ctx context.Context, filter TipExportFilter) ([]TipExportRow, error)
}

type tipRepo struct {
	db *gorm.DB
}

// NewTipRepo creates a TipRepository.
func NewTipRepo(db *gorm.DB) TipRepository {
	return &tipRepo{db: db}
}

func (r *tipRepo) Create(ctx context.Context, tip *model.Tip) error {
	return r.db.WithContext(ctx).Create(tip).Error
}

func (r *tipRepo) GetByID(ctx context.Context, id uint) (*model.Tip, error) {
	var tip model.Tip
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tip).Error
	if err != nil {
		return nil, err
	}
	return &tip, nil
}

func (r *tipRepo) ListByWorker(ctx context.Context, workerID uint, offset, limit int) ([]TipWithRestaurant, error) {
	offset, limit = clampPage(offset, limit)

	var rows []TipWithRestaurant
	err := r.db.WithContext(ctx).
		Table("tips").
		Select("tips.*, restaurants.name AS restaurant_name").
		Joins("LEFT JOIN restaurants ON restaurants.id = tips.restaurant_id").
		Where("tips.worker_user_id = ?", workerID).
		Order("tips.created_at DESC, tips.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tipRepo) TotalsByWorker(ctx context.Context, workerID uint) (*TipTotals, error) {
	var totals TipTotals
	err := r.db.WithContext(ctx).
		Model(&model.Tip{}).
		Select("COALESCE(SUM(amount_cents), 0) AS total_cents, COUNT(id) AS tip_count, "+
			"COALESCE(AVG(amount_cents), 0) AS avg_cents").
		Where("worker_user_id = ?", workerID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *tipRepo) ListForExport(ctx context.Context, filter TipExportFilter) ([]TipExportRow, error) {
	db := r.db.WithContext(ctx).
		Table("tips").
		Select("tips.*, users.name AS worker_name, restaurants.name AS restaurant_name").
		Joins("JOIN users ON users.id = tips.worker_user_id").
		Joins("LEFT JOIN restaurants ON restaurants.id = tips.restaurant_id")
	if filter.WorkerUserID != nil {
		db = db.Where("tips.worker_user_id = ?", *filter.WorkerUserID)
	}
	if filter.RestaurantID != nil {
		db = db.Where("tips.restaurant_id = ?", *filter.RestaurantID)
	}

	var rows []TipExportRow
	if err := db.Order("tips.created_at DESC, tips.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
