package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/metrics"
)

var (
	ErrReviewRatingRequired = pkgerrors.Validation("INVALID_RATING", "Valid rating (1-5) is required")
	ErrMissingReference     = pkgerrors.Validation("MISSING_REFERENCE", "Either tip_id or qr_slug is required")
	ErrAmbiguousReference   = pkgerrors.Validation("AMBIGUOUS_REFERENCE", "Provide only one of tip_id or qr_slug")
	ErrTipNotFound          = pkgerrors.NotFound("TIP_NOT_FOUND", "Tip not found")
	ErrInvalidReviewQuery   = pkgerrors.Validation("INVALID_REQUEST", "Invalid request. Workers see their reviews, owners need restaurantId")
	ErrReviewAccessDenied   = pkgerrors.ErrAccessDenied.WithMessage("Access denied or restaurant not found")
	ErrMissingReviewID      = pkgerrors.Validation("MISSING_REVIEW_ID", "Valid review ID is required")
	ErrInvalidAction        = pkgerrors.Validation("INVALID_ACTION", "Action must be 'approve' or 'reject'")
	ErrReviewNotFound       = pkgerrors.NotFound("REVIEW_NOT_FOUND", "Review not found")
	ErrModerationDenied     = pkgerrors.ErrAccessDenied.WithMessage("Access denied. You can only moderate reviews for your restaurant staff.")
)

// Moderation actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewService public review submission, review listings and moderation.
type ReviewService interface {
	Submit(ctx context.Context, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error)
	// List returns the caller's own reviews for workers, or the reviews of
	// q.RestaurantID for its owner and admins.
	List(ctx context.Context, caller *model.User, q *dto.ReviewListQuery) ([]dto.ReviewListItem, error)
	Moderate(ctx context.Context, caller *model.User, req *dto.ModerateReviewRequest) (*dto.ModerateReviewResponse, error)
}

type reviewService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, metrics: m, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *reviewService) Submit(ctx context.Context, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
	if req.Rating == nil || !validRating(*req.Rating) {
		return nil, ErrReviewRatingRequired
	}
	slug := ""
	if req.QRSlug != nil {
		slug = strings.TrimSpace(*req.QRSlug)
	}
	hasTip := req.TipID.Set
	switch {
	case !hasTip && slug == "":
		return nil, ErrMissingReference
	case hasTip && slug != "":
		return nil, ErrAmbiguousReference
	}

	review := &model.Review{
		Rating:  *req.Rating,
		Comment: trimmedOrNil(req.Comment),
		Status:  model.ReviewPending,
	}
	source := "qr"
	if hasTip {
		source = "tip"
		tipID, ok := req.TipID.ID()
		if !ok {
			return nil, ErrTipNotFound
		}
		tip, err := s.repo.Tip.GetByID(ctx, tipID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrTipNotFound
			}
			return nil, err
		}
		review.WorkerUserID = tip.WorkerUserID
		review.RestaurantID = tip.RestaurantID
		review.TipID = &tip.ID
	} else {
		target, err := s.repo.Staff.ResolveSlug(ctx, slug)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrInvalidQRSlug
			}
			return nil, err
		}
		restaurantID := target.RestaurantID
		review.WorkerUserID = target.WorkerUserID
		review.RestaurantID = &restaurantID
	}

	resp := &dto.SubmitReviewResponse{}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Review.Create(ctx, review); err != nil {
			return err
		}
		if err := tx.Notification.Create(ctx, &model.Notification{
			UserID: review.WorkerUserID,
			Type:   model.NotificationReviewPosted,
			Title:  "New Review Received",
			Body:   reviewPostedBody(review.Rating, nil),
		}); err != nil {
			return err
		}

		worker, err := tx.User.GetByID(ctx, review.WorkerUserID)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		if worker != nil {
			resp.Worker = &dto.NameRef{Name: worker.Name}
		}
		if review.RestaurantID != nil {
			restaurant, err := tx.Restaurant.GetByID(ctx, *review.RestaurantID)
			if err != nil && !repository.IsNotFound(err) {
				return err
			}
			if restaurant != nil {
				resp.Restaurant = &dto.NameRef{Name: restaurant.Name}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("submit review failed", zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveReview(source)
	resp.Review = toReviewSummary(review)
	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *reviewService) List(ctx context.Context, caller *model.User, q *dto.ReviewListQuery) ([]dto.ReviewListItem, error) {
	offset, limit := q.Page(dto.DefaultLimit)

	if caller.Role == model.RoleWorker {
		rows, err := s.repo.Review.ListByWorker(ctx, caller.ID, offset, limit)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ReviewListItem, 0, len(rows))
		for i := range rows {
			r := &rows[i]
			item := dto.ReviewListItem{
				ReviewSummary: toReviewSummary(&r.Review),
				Tip:           tipRef(r.TipID, r.TipAmountCents, r.TipPayerName),
			}
			if r.RestaurantID != nil && r.RestaurantName != nil {
				item.Restaurant = &dto.IDName{ID: *r.RestaurantID, Name: *r.RestaurantName}
			}
			items = append(items, item)
		}
		return items, nil
	}

	if q.RestaurantID == 0 || (!IsOwner(caller) && !IsAdmin(caller)) {
		return nil, ErrInvalidReviewQuery
	}
	restaurant, err := s.repo.Restaurant.GetByID(ctx, q.RestaurantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrReviewAccessDenied
		}
		return nil, err
	}
	if !CanViewRestaurantReviews(caller, restaurant) {
		return nil, ErrReviewAccessDenied
	}

	rows, err := s.repo.Review.ListByRestaurant(ctx, restaurant.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReviewListItem, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		item := dto.ReviewListItem{
			ReviewSummary: toReviewSummary(&r.Review),
			Tip:           tipRef(r.TipID, r.TipAmountCents, r.TipPayerName),
		}
		if r.WorkerName != nil {
			item.Worker = &dto.IDName{ID: r.WorkerUserID, Name: *r.WorkerName}
		}
		items = append(items, item)
	}
	return items, nil
}

// ────────────────────── Moderate ──────────────────────

func (s *reviewService) Moderate(ctx context.Context, caller *model.User, req *dto.ModerateReviewRequest) (*dto.ModerateReviewResponse, error) {
	reviewID, ok := req.ReviewID.ID()
	if !ok {
		return nil, ErrMissingReviewID
	}
	var status string
	switch req.Action {
	case ActionApprove:
		status = model.ReviewApproved
	case ActionReject:
		status = model.ReviewRejected
	default:
		return nil, ErrInvalidAction
	}

	review, err := s.repo.Review.GetByID(ctx, reviewID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if !IsAdmin(caller) {
		var restaurant *model.Restaurant
		if review.RestaurantID != nil {
			restaurant, err = s.repo.Restaurant.GetByID(ctx, *review.RestaurantID)
			if err != nil && !repository.IsNotFound(err) {
				return nil, err
			}
		}
		if !CanModerate(caller, restaurant) {
			return nil, ErrModerationDenied
		}
	}

	if err := s.repo.Review.UpdateModeration(ctx, review.ID, status, caller.ID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrReviewNotFound
		}
		s.logger.Error("moderate review failed", zap.Uint("review_id", review.ID), zap.Error(err))
		return nil, err
	}
	review.Status = status
	moderator := caller.ID
	review.ModeratedByUserID = &moderator

	s.metrics.ObserveModeration(req.Action)
	s.logger.Info("review moderated",
		zap.Uint("review_id", review.ID),
		zap.String("status", status),
		zap.Uint("moderator_id", caller.ID),
	)

	return &dto.ModerateReviewResponse{
		Review:           *review,
		ModerationAction: req.Action,
		ModeratedBy:      dto.IDName{ID: caller.ID, Name: caller.Name},
	}, nil
}

// ── helpers ──

func toReviewSummary(r *model.Review) dto.ReviewSummary {
	return dto.ReviewSummary{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func tipRef(tipID *uint, amount *int64, payer *string) *dto.TipRef {
	if tipID == nil || amount == nil {
		return nil
	}
	return &dto.TipRef{ID: *tipID, AmountCents: *amount, PayerName: payer}
}
