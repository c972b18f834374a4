package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repository aggregates every repository. A transaction-bound copy is
// obtained with WithTx or through Transaction.
type Repository struct {
	db *gorm.DB

	User          UserRepository
	Restaurant    RestaurantRepository
	Staff         StaffRepository
	Invitation    InvitationRepository
	Tip           TipRepository
	Review        ReviewRepository
	Notification  NotificationRepository
	Feature       FeatureRepository
	WorkerProfile WorkerProfileRepository
}

// NewRepository builds the aggregate over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Restaurant:    NewRestaurantRepo(db),
		Staff:         NewStaffRepo(db),
		Invitation:    NewInvitationRepo(db),
		Tip:           NewTipRepo(db),
		Review:        NewReviewRepo(db),
		Notification:  NewNotificationRepo(db),
		Feature:       NewFeatureRepo(db),
		WorkerProfile: NewWorkerProfileRepo(db),
	}
}

// WithTx returns a copy of the aggregate whose repositories run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn with a transaction-bound repository. Any error
// returned by fn, or a panic, rolls back every write made through it.
// An aggregate without a database (hand-built in tests) calls fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// Ping checks the database connection for the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsNotFound reports a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports a unique constraint failure, whether or not
// the dialect translated it to gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// clampPage normalises paging arguments for list queries.
func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return offset, limit
}
