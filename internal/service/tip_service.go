package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/metrics"
)

var (
	ErrMissingQRSlug = pkgerrors.Validation("MISSING_QR_SLUG", "QR slug is required")
	ErrInvalidAmount = pkgerrors.Validation("INVALID_AMOUNT", "Valid amount in cents is required")
	ErrInvalidRating = pkgerrors.Validation("INVALID_RATING", "Rating must be between 1 and 5")
	ErrInvalidQRSlug = pkgerrors.NotFound("INVALID_QR_SLUG", "Invalid QR code")
)

// TipService tip submission and the worker's tip history.
type TipService interface {
	// Submit records a public tip against a QR slug. A rated tip also
	// creates a pending review. Everything is written in one transaction.
	Submit(ctx context.Context, req *dto.SubmitTipRequest) (*dto.SubmitTipResponse, error)
	ListForWorker(ctx context.Context, caller *model.User, q *dto.ListQuery) ([]dto.TipListItem, error)
}

type tipService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTipService creates a TipService.
func NewTipService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) TipService {
	return &tipService{repo: repo, metrics: m, logger: logger}
}

func (s *tipService) Submit(ctx context.Context, req *dto.SubmitTipRequest) (*dto.SubmitTipResponse, error) {
	slug := strings.TrimSpace(req.QRSlug)
	if slug == "" {
		return nil, ErrMissingQRSlug
	}
	if !req.AmountCents.Valid || req.AmountCents.Value <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		return nil, ErrInvalidRating
	}

	target, err := s.repo.Staff.ResolveSlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidQRSlug
		}
		s.logger.Error("resolve qr slug failed", zap.String("qr_slug", slug), zap.Error(err))
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = model.DefaultCurrency
	}
	restaurantID := target.RestaurantID
	tip := &model.Tip{
		WorkerUserID: target.WorkerUserID,
		RestaurantID: &restaurantID,
		AmountCents:  req.AmountCents.Value,
		Currency:     currency,
		PayerName:    trimmedOrNil(req.PayerName),
		Message:      trimmedOrNil(req.Message),
		Rating:       req.Rating,
	}

	var review *model.Review
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Tip.Create(ctx, tip); err != nil {
			return err
		}
		if err := tx.Notification.Create(ctx, &model.Notification{
			UserID: target.WorkerUserID,
			Type:   model.NotificationTipReceived,
			Title:  "New Tip Received!",
			Body:   tipReceivedBody(tip),
		}); err != nil {
			return err
		}
		if tip.Rating == nil {
			return nil
		}

		tipID := tip.ID
		review = &model.Review{
			WorkerUserID: target.WorkerUserID,
			RestaurantID: &restaurantID,
			Rating:       *tip.Rating,
			Comment:      tip.Message,
			TipID:        &tipID,
			Status:       model.ReviewPending,
		}
		if err := tx.Review.Create(ctx, review); err != nil {
			return err
		}
		return tx.Notification.Create(ctx, &model.Notification{
			UserID: target.WorkerUserID,
			Type:   model.NotificationReviewPosted,
			Title:  "New Review Received",
			Body:   reviewPostedBody(review.Rating, tip.PayerName),
		})
	})
	if err != nil {
		s.logger.Error("submit tip failed", zap.String("qr_slug", slug), zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveTip(tip.Currency, tip.AmountCents, review != nil)
	if review != nil {
		s.metrics.ObserveReview("tip")
	}

	resp := &dto.SubmitTipResponse{
		Tip:        toTipResponse(tip),
		Worker:     dto.NameRef{Name: target.WorkerName},
		Restaurant: dto.NameRef{Name: target.RestaurantName},
	}
	if review != nil {
		resp.Review = &dto.TipReviewRef{ID: review.ID, Rating: review.Rating, Status: review.Status}
	}
	return resp, nil
}

func (s *tipService) ListForWorker(ctx context.Context, caller *model.User, q *dto.ListQuery) ([]dto.TipListItem, error) {
	offset, limit := q.Page(dto.DefaultLimit)
	rows, err := s.repo.Tip.ListByWorker(ctx, caller.ID, offset, limit)
	if err != nil {
		s.logger.Error("list tips failed", zap.Uint("user_id", caller.ID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.TipListItem, 0, len(rows))
	for i := range rows {
		item := dto.TipListItem{TipResponse: toTipResponse(&rows[i].Tip)}
		if rows[i].RestaurantID != nil && rows[i].RestaurantName != nil {
			item.Restaurant = &dto.IDName{ID: *rows[i].RestaurantID, Name: *rows[i].RestaurantName}
		}
		items = append(items, item)
	}
	return items, nil
}

// ── helpers ──

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

// trimmedOrNil trims s and maps blank input to nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toTipResponse(t *model.Tip) dto.TipResponse {
	return dto.TipResponse{
		ID:          t.ID,
		AmountCents: t.AmountCents,
		Currency:    t.Currency,
		PayerName:   t.PayerName,
		Message:     t.Message,
		Rating:      t.Rating,
		CreatedAt:   t.CreatedAt,
	}
}

// FormatAmount renders integer cents with two decimals and the currency
// symbol, e.g. ₹50.00.
func FormatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	prefix := currency + " "
	if currency == model.DefaultCurrency {
		prefix = "₹"
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, prefix, cents/100, cents%100)
}

func tipReceivedBody(t *model.Tip) string {
	var b strings.Builder
	b.WriteString("You received a tip of ")
	b.WriteString(FormatAmount(t.AmountCents, t.Currency))
	if t.PayerName != nil {
		b.WriteString(" from ")
		b.WriteString(*t.PayerName)
	}
	if t.Message != nil {
		b.WriteString(`: "`)
		b.WriteString(*t.Message)
		b.WriteString(`"`)
	}
	return b.String()
}

func reviewPostedBody(rating int, payerName *string) string {
	body := fmt.Sprintf("You received a %d-star review", rating)
	if payerName != nil {
		body += " from " + *payerName
	}
	return body
}
