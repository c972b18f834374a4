package repository

import (
	"context"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// FeatureRepository feature flag data access.
type FeatureRepository interface {
	List(ctx context.Context) ([]model.Feature, error)
	GetByKey(ctx context.Context, key string) (*model.Feature, error)
	Create(ctx context.Context, f *model.Feature) error
	Update(ctx context.Context, f *model.Feature) error
}

type featureRepo struct {
	db *gorm.DB
}

// NewFeatureRepo creates a FeatureRepository.
func NewFeatureRepo(db *gorm.DB) FeatureRepository {
	return &featureRepo{db: db}
}

func (r *featureRepo) List(ctx context.Context) ([]model.Feature, error) {
	var list []model.Feature
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *featureRepo) GetByKey(ctx context.Context, key string) (*model.Feature, error) {
	var f model.Feature
	err := r.db.WithContext(ctx).
		Where(&model.Feature{Key: key}).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *featureRepo) Create(ctx context.Context, f *model.Feature) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *featureRepo) Update(ctx context.Context, f *model.Feature) error {
	return r.db.WithContext(ctx).Save(f).Error
}
