package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tipsy/internal/model"
)

// InvitationRepository staff invitation data access.
type InvitationRepository interface {
	Create(ctx context.Context, inv *model.StaffInvitation) error
	GetByToken(ctx context.Context, token string) (*model.StaffInvitation, error)
	FindOpen(ctx context.Context, restaurantID uint, email string, now time.Time) (*model.StaffInvitation, error)
	RevokeExpired(ctx context.Context, restaurantID uint, email string, now time.Time) error
	ListByRestaurant(ctx context.Context, restaurantID uint, status string, offset, limit int) ([]model.StaffInvitation, error)
	Update(ctx context.Context, inv *model.StaffInvitation) error
	DeleteByRestaurant(ctx context.Context, restaurantID uint) error
}

type invitationRepo struct {
	db *gorm.DB
}

// NewInvitationRepo creates an InvitationRepository.
func NewInvitationRepo(db *gorm.DB) InvitationRepository {
	return &invitationRepo{db: db}
}

func (r *invitationRepo) Create(ctx context.Context, inv *model.StaffInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*model.StaffInvitation, error) {
	var inv model.StaffInvitation
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindOpen returns the unexpired pending invitation for email at the
// restaurant, if any.
func (r *invitationRepo) FindOpen(ctx context.Context, restaurantID uint, email string, now time.Time) (*model.StaffInvitation, error) {
	var inv model.StaffInvitation
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND LOWER(email) = LOWER(?) AND status = ? AND expires_at > ?",
			restaurantID, email, model.InvitationInvited, now).
		Order("created_at DESC").
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// RevokeExpired retires lapsed invitations for email at the restaurant so
// a new one can take the open slot.
func (r *invitationRepo) RevokeExpired(ctx context.Context, restaurantID uint, email string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.StaffInvitation{}).
		Where("restaurant_id = ? AND LOWER(email) = LOWER(?) AND status = ? AND expires_at <= ?",
			restaurantID, email, model.InvitationInvited, now).
		Update("status", model.InvitationRevoked).Error
}

func (r *invitationRepo) ListByRestaurant(ctx context.Context, restaurantID uint, status string, offset, limit int) ([]model.StaffInvitation, error) {
	offset, limit = clampPage(offset, limit)

	db := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var invs []model.StaffInvitation
	if err := db.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *invitationRepo) Update(ctx context.Context, inv *model.StaffInvitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invitationRepo) DeleteByRestaurant(ctx context.Context, restaurantID uint) error {
	return r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Delete(&model.StaffInvitation{}).Error
}
