package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var (
	ErrWorkerNotFound        = pkgerrors.NotFound("WORKER_NOT_FOUND", "Worker not found")
	ErrSlugNotFound          = pkgerrors.NotFound("QR_SLUG_NOT_FOUND", "QR slug not found")
	ErrMissingUserID         = pkgerrors.Validation("MISSING_USER_ID", "User ID is required")
	ErrMissingProfileRestID  = pkgerrors.Validation("MISSING_RESTAURANT_ID", "Restaurant ID is required")
	ErrMissingDisplayName    = pkgerrors.Validation("MISSING_DISPLAY_NAME", "Display name is required")
	ErrInvalidDisplayName    = pkgerrors.Validation("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	ErrProfileUserNotFound   = pkgerrors.Validation("USER_NOT_FOUND", "User not found")
	ErrInvalidUserRole       = pkgerrors.Validation("INVALID_USER_ROLE", "User must have worker role")
	ErrProfileRestNotFound   = pkgerrors.Validation("RESTAURANT_NOT_FOUND", "Restaurant not found")
	ErrWorkerAlreadyExists   = pkgerrors.Validation("WORKER_ALREADY_EXISTS", "Worker profile already exists for this user")
	ErrWorkerProfileDenied   = pkgerrors.ErrAccessDenied.WithMessage("Access denied. Restaurant owner or admin required.")
	ErrInvalidListRestaurant = pkgerrors.Validation("INVALID_RESTAURANT_ID", "Valid restaurant ID is required")
	ErrMissingWorkerID       = pkgerrors.Validation("MISSING_WORKER_ID", "Worker ID is required")
)

const (
	recentReviewsByID   = 5
	recentReviewsBySlug = 3
	qrServerURL         = "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data="
)

// WorkerService public worker pages and worker profile management.
type WorkerService interface {
	PublicProfile(ctx context.Context, userID uint) (*dto.WorkerPublicProfile, error)
	PublicProfileBySlug(ctx context.Context, slug string) (*dto.SlugProfileResponse, error)

	GetProfile(ctx context.Context, id uint) (*dto.WorkerProfileResponse, error)
	ListProfiles(ctx context.Context, q *dto.WorkerProfileQuery) ([]dto.WorkerProfileResponse, error)
	CreateProfile(ctx context.Context, caller *model.User, req *dto.CreateWorkerProfileRequest) (*dto.WorkerProfileResponse, error)
	UpdateProfile(ctx context.Context, caller *model.User, id uint, req *dto.UpdateWorkerProfileRequest) (*dto.WorkerProfileResponse, error)
	DeleteProfile(ctx context.Context, caller *model.User, id uint) (*dto.DeleteWorkerProfileResponse, error)
}

type workerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkerService creates a WorkerService.
func NewWorkerService(repo *repository.Repository, logger *zap.Logger) WorkerService {
	return &workerService{repo: repo, logger: logger}
}

// ────────────────────── Public profiles ──────────────────────

func (s *workerService) PublicProfile(ctx context.Context, userID uint) (*dto.WorkerPublicProfile, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	memberships, err := s.repo.Staff.ListMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Review.ApprovedStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Review.RecentApproved(ctx, user.ID, recentReviewsByID)
	if err != nil {
		return nil, err
	}

	out := &dto.WorkerPublicProfile{
		ID:            user.ID,
		Name:          user.Name,
		AvatarURL:     user.AvatarURL,
		AverageRating: RoundRating(stats.Average),
		Restaurants:   make([]dto.WorkerRestaurant, 0, len(memberships)),
		RecentReviews: toPublicReviews(recent, true),
	}
	for _, m := range memberships {
		var wr dto.WorkerRestaurant
		wr.Restaurant.ID = m.RestaurantID
		wr.Restaurant.Name = m.RestaurantName
		wr.Restaurant.Address = m.RestaurantAddress
		wr.Staff.QRSlug = m.QRSlug
		wr.Staff.RoleInRestaurant = m.RoleInRestaurant
		out.Restaurants = append(out.Restaurants, wr)
	}
	return out, nil
}

func (s *workerService) PublicProfileBySlug(ctx context.Context, slug string) (*dto.SlugProfileResponse, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrMissingQRSlug
	}
	target, err := s.repo.Staff.ResolveSlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSlugNotFound
		}
		return nil, err
	}

	stats, err := s.repo.Review.ApprovedStats(ctx, target.WorkerUserID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Review.RecentApproved(ctx, target.WorkerUserID, recentReviewsBySlug)
	if err != nil {
		return nil, err
	}

	return &dto.SlugProfileResponse{
		Worker: dto.SlugWorker{
			Name:             target.WorkerName,
			AvatarURL:        target.WorkerAvatarURL,
			AverageRating:    RoundRating(stats.Average),
			RoleInRestaurant: target.RoleInRestaurant,
			JoinedAt:         target.JoinedAt,
		},
		Restaurant: dto.SlugRestaurant{
			ID:        target.RestaurantID,
			Name:      target.RestaurantName,
			Address:   target.RestaurantAddress,
			UPIHandle: target.RestaurantUPIHandle,
		},
		Reviews: toPublicReviews(recent, false),
		QRSlug:  slug,
	}, nil
}

// ────────────────────── Profile CRUD ──────────────────────

func (s *workerService) GetProfile(ctx context.Context, id uint) (*dto.WorkerProfileResponse, error) {
	row, err := s.repo.WorkerProfile.GetDetail(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return s.withStats(ctx, row)
}

func (s *workerService) ListProfiles(ctx context.Context, q *dto.WorkerProfileQuery) ([]dto.WorkerProfileResponse, error) {
	filter := repository.WorkerProfileFilter{
		Search:    strings.TrimSpace(q.Search),
		Sort:      q.Sort,
		Ascending: q.Order == "asc",
	}
	if raw := strings.TrimSpace(q.RestaurantID); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, ErrInvalidListRestaurant
		}
		rid := uint(id)
		filter.RestaurantID = &rid
	}
	offset, limit := q.Page(dto.DefaultLimit)
	rows, err := s.repo.WorkerProfile.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkerProfileResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toWorkerProfileResponse(&rows[i]))
	}
	return out, nil
}

func (s *workerService) CreateProfile(ctx context.Context, caller *model.User, req *dto.CreateWorkerProfileRequest) (*dto.WorkerProfileResponse, error) {
	userID, ok := req.UserID.ID()
	if !ok {
		return nil, ErrMissingUserID
	}
	restaurantID, ok := req.RestaurantID.ID()
	if !ok {
		return nil, ErrMissingProfileRestID
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, ErrMissingDisplayName
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProfileUserNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleWorker {
		return nil, ErrInvalidUserRole
	}
	restaurant, err := s.repo.Restaurant.GetByID(ctx, restaurantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProfileRestNotFound
		}
		return nil, err
	}
	if !CanManageWorkerProfile(caller, restaurant) {
		return nil, ErrWorkerProfileDenied
	}
	if _, err := s.repo.WorkerProfile.GetByUserID(ctx, user.ID); err == nil {
		return nil, ErrWorkerAlreadyExists
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	profile := &model.WorkerProfile{
		UserID:       user.ID,
		RestaurantID: restaurant.ID,
		DisplayName:  displayName,
		Bio:          trimmedOrNil(req.Bio),
		UPIVPA:       trimmedOrNil(req.UPIVPA),
		QRCodeURL:    WorkerQRCodeURL(user.ID),
	}
	if err := s.repo.WorkerProfile.Create(ctx, profile); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrWorkerAlreadyExists
		}
		s.logger.Error("create worker profile failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	out := dto.WorkerProfileResponse{
		WorkerProfile:     *profile,
		UserEmail:         &user.Email,
		UserName:          &user.Name,
		UserAvatarURL:     user.AvatarURL,
		RestaurantName:    &restaurant.Name,
		RestaurantAddress: restaurant.Address,
		Earnings:          &dto.EarningsStats{},
		Reviews:           &dto.ReviewStats{},
	}
	return &out, nil
}

func (s *workerService) UpdateProfile(ctx context.Context, caller *model.User, id uint, req *dto.UpdateWorkerProfileRequest) (*dto.WorkerProfileResponse, error) {
	profile, restaurant, err := s.loadProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEditWorkerProfile(caller, profile, restaurant) {
		return nil, ErrWorkerProfileDenied
	}

	if req.DisplayName.Set {
		name := trimmedOrNil(req.DisplayName.Value)
		if name == nil {
			return nil, ErrInvalidDisplayName
		}
		profile.DisplayName = *name
	}
	if req.Bio.Set {
		profile.Bio = trimmedOrNil(req.Bio.Value)
	}
	if req.UPIVPA.Set {
		profile.UPIVPA = trimmedOrNil(req.UPIVPA.Value)
	}

	if err := s.repo.WorkerProfile.Update(ctx, profile); err != nil {
		s.logger.Error("update worker profile failed", zap.Uint("profile_id", id), zap.Error(err))
		return nil, err
	}
	return s.GetProfile(ctx, profile.ID)
}

func (s *workerService) DeleteProfile(ctx context.Context, caller *model.User, id uint) (*dto.DeleteWorkerProfileResponse, error) {
	profile, restaurant, err := s.loadProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageWorkerProfile(caller, restaurant) {
		return nil, ErrWorkerProfileDenied
	}
	if err := s.repo.WorkerProfile.Delete(ctx, profile.ID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &dto.DeleteWorkerProfileResponse{Message: "Worker deleted successfully", Worker: *profile}, nil
}

// ── helpers ──

// loadProfile returns the profile and its restaurant. A profile whose
// restaurant is gone yields a nil restaurant.
func (s *workerService) loadProfile(ctx context.Context, id uint) (*model.WorkerProfile, *model.Restaurant, error) {
	profile, err := s.repo.WorkerProfile.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrWorkerNotFound
		}
		return nil, nil, err
	}
	restaurant, err := s.repo.Restaurant.GetByID(ctx, profile.RestaurantID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, nil, err
	}
	return profile, restaurant, nil
}

func (s *workerService) withStats(ctx context.Context, row *repository.WorkerProfileRow) (*dto.WorkerProfileResponse, error) {
	totals, err := s.repo.Tip.TotalsByWorker(ctx, row.UserID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repo.Review.StatsByWorker(ctx, row.UserID)
	if err != nil {
		return nil, err
	}
	out := toWorkerProfileResponse(row)
	out.Earnings = &dto.EarningsStats{
		Total:    totals.TotalCents,
		TipCount: totals.Count,
		Average:  int64(math.Round(totals.AvgCents)),
	}
	out.Reviews = &dto.ReviewStats{
		Total:     ratings.Count,
		AvgRating: RoundRating(ratings.Average),
	}
	return &out, nil
}

func toWorkerProfileResponse(row *repository.WorkerProfileRow) dto.WorkerProfileResponse {
	return dto.WorkerProfileResponse{
		WorkerProfile:     row.WorkerProfile,
		UserEmail:         row.UserEmail,
		UserName:          row.UserName,
		UserAvatarURL:     row.UserAvatarURL,
		RestaurantName:    row.RestaurantName,
		RestaurantAddress: row.RestaurantAddress,
	}
}

func toPublicReviews(rows []repository.ApprovedReviewRow, withRestaurant bool) []dto.PublicReview {
	out := make([]dto.PublicReview, 0, len(rows))
	for _, r := range rows {
		pr := dto.PublicReview{
			ID:        r.ID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
		if withRestaurant && r.RestaurantName != nil {
			pr.Restaurant = &dto.NameRef{Name: *r.RestaurantName}
		}
		out = append(out, pr)
	}
	return out
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// WorkerQRCodeURL is the QR image link encoding a worker deep link.
func WorkerQRCodeURL(userID uint) string {
	return qrServerURL + url.QueryEscape(fmt.Sprintf("tips://worker/%d", userID))
}
