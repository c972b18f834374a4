package service

import (
	"context"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var ErrProfileNameInvalid = pkgerrors.Validation("INVALID_NAME", "Name must be a non-empty string")

// UserService the caller's own profile.
type UserService interface {
	Profile(ctx context.Context, caller *model.User) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, caller *model.User, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Profile(ctx context.Context, caller *model.User) (*dto.ProfileResponse, error) {
	return s.buildProfile(ctx, caller)
}

func (s *userService) UpdateProfile(ctx context.Context, caller *model.User, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	if req.Name.Set {
		name := trimmedOrNil(req.Name.Value)
		if name == nil {
			return nil, ErrProfileNameInvalid
		}
		user.Name = *name
	}
	if req.Phone.Set {
		user.Phone = trimmedOrNil(req.Phone.Value)
	}
	if req.AvatarURL.Set {
		user.AvatarURL = trimmedOrNil(req.AvatarURL.Value)
	}
	if req.Empty() {
		return nil, ErrNoUpdates
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update profile failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return s.buildProfile(ctx, user)
}

// buildProfile attaches the stats variant for the user's role.
func (s *userService) buildProfile(ctx context.Context, user *model.User) (*dto.ProfileResponse, error) {
	out := &dto.ProfileResponse{
		User: dto.ProfileUser{
			ID:        user.ID,
			Role:      user.Role,
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			AvatarURL: user.AvatarURL,
			CreatedAt: user.CreatedAt,
		},
	}

	switch user.Role {
	case model.RoleWorker:
		totals, err := s.repo.Tip.TotalsByWorker(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		out.Stats = dto.WorkerStats{TotalEarningsCents: totals.TotalCents, TipsCount: totals.Count}
	case model.RoleOwner:
		n, err := s.repo.Restaurant.CountByOwner(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		out.Stats = dto.OwnerStats{RestaurantsCount: n}
	case model.RoleAdmin:
		out.Stats = dto.AdminStats{Permissions: append([]string(nil), dto.AdminPermissions...)}
	}
	return out, nil
}
