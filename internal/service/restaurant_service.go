package service

import (
	"context"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var (
	ErrOwnerRoleRequired   = ErrInsufficientPermissions.WithMessage("Access denied. Owner role required.")
	ErrMissingName         = pkgerrors.Validation("MISSING_REQUIRED_FIELD", "Restaurant name is required")
	ErrRestaurantNotFound  = pkgerrors.NotFound("RESTAURANT_NOT_FOUND", "Restaurant not found")
	ErrRestaurantForbidden = pkgerrors.ErrAccessDenied.WithMessage("Access denied. Must be owner or staff member.")
	ErrNotRestaurantOwner  = pkgerrors.ErrAccessDenied.WithMessage("Access denied. Owner role required.")
	ErrInvalidName         = pkgerrors.Validation("INVALID_NAME", "Name cannot be empty")
	ErrNoUpdates           = pkgerrors.Validation("NO_UPDATES", "No valid fields provided for update")
)

// RestaurantService restaurant CRUD for owners.
type RestaurantService interface {
	List(ctx context.Context, caller *model.User, q *dto.ListQuery) ([]dto.RestaurantListItem, error)
	Create(ctx context.Context, caller *model.User, req *dto.CreateRestaurantRequest) (*model.Restaurant, error)
	Get(ctx context.Context, caller *model.User, id uint) (*dto.RestaurantDetailResponse, error)
	Update(ctx context.Context, caller *model.User, id uint, req *dto.UpdateRestaurantRequest) (*model.Restaurant, error)
	// Delete removes the restaurant together with its staff rows,
	// invitations and worker profiles.
	Delete(ctx context.Context, caller *model.User, id uint) (*dto.DeleteRestaurantResponse, error)
}

type restaurantService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRestaurantService creates a RestaurantService.
func NewRestaurantService(repo *repository.Repository, logger *zap.Logger) RestaurantService {
	return &restaurantService{repo: repo, logger: logger}
}

func (s *restaurantService) List(ctx context.Context, caller *model.User, q *dto.ListQuery) ([]dto.RestaurantListItem, error) {
	if !IsOwner(caller) {
		return nil, ErrOwnerRoleRequired
	}
	offset, limit := q.Page(dto.DefaultLimit)
	rows, err := s.repo.Restaurant.ListByOwner(ctx, caller.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestaurantListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.RestaurantListItem{
			ID:         r.ID,
			Name:       r.Name,
			Address:    r.Address,
			UPIHandle:  r.UPIHandle,
			CreatedAt:  r.CreatedAt,
			StaffCount: r.StaffCount,
		})
	}
	return items, nil
}

func (s *restaurantService) Create(ctx context.Context, caller *model.User, req *dto.CreateRestaurantRequest) (*model.Restaurant, error) {
	if !IsOwner(caller) {
		return nil, ErrOwnerRoleRequired
	}
	name := trimmedOrNil(req.Name)
	if name == nil {
		return nil, ErrMissingName
	}

	restaurant := &model.Restaurant{
		OwnerUserID: caller.ID,
		Name:        *name,
		Address:     trimmedOrNil(req.Address),
		UPIHandle:   trimmedOrNil(req.UPIHandle),
	}
	if err := s.repo.Restaurant.Create(ctx, restaurant); err != nil {
		s.logger.Error("create restaurant failed", zap.Uint("owner_id", caller.ID), zap.Error(err))
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) Get(ctx context.Context, caller *model.User, id uint) (*dto.RestaurantDetailResponse, error) {
	restaurant, err := loadRestaurant(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	isStaff := false
	if restaurant.OwnerUserID != caller.ID && !IsAdmin(caller) {
		if _, err := s.repo.Staff.GetByRestaurantAndUser(ctx, restaurant.ID, caller.ID); err == nil {
			isStaff = true
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	}
	if !CanViewRestaurant(caller, restaurant, isStaff) {
		return nil, ErrRestaurantForbidden
	}

	owner, err := s.repo.User.GetByID(ctx, restaurant.OwnerUserID)
	if err != nil {
		return nil, err
	}
	staff, err := s.repo.Staff.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RestaurantDetailResponse{
		Restaurant: *restaurant,
		Owner: dto.OwnerRef{
			ID:    owner.ID,
			Name:  owner.Name,
			Email: owner.Email,
			Role:  owner.Role,
		},
		Staff: toStaffMembers(staff),
	}, nil
}

func (s *restaurantService) Update(ctx context.Context, caller *model.User, id uint, req *dto.UpdateRestaurantRequest) (*model.Restaurant, error) {
	restaurant, err := loadRestaurant(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !OwnsRestaurant(caller, restaurant) {
		return nil, ErrNotRestaurantOwner
	}

	if req.Name.Set {
		name := trimmedOrNil(req.Name.Value)
		if name == nil {
			return nil, ErrInvalidName
		}
		restaurant.Name = *name
	}
	if req.Address.Set {
		restaurant.Address = trimmedOrNil(req.Address.Value)
	}
	if req.UPIHandle.Set {
		restaurant.UPIHandle = trimmedOrNil(req.UPIHandle.Value)
	}
	if req.Empty() {
		return nil, ErrNoUpdates
	}

	if err := s.repo.Restaurant.Update(ctx, restaurant); err != nil {
		s.logger.Error("update restaurant failed", zap.Uint("restaurant_id", id), zap.Error(err))
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) Delete(ctx context.Context, caller *model.User, id uint) (*dto.DeleteRestaurantResponse, error) {
	restaurant, err := loadRestaurant(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !OwnsRestaurant(caller, restaurant) {
		return nil, ErrNotRestaurantOwner
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Staff.DeleteByRestaurant(ctx, restaurant.ID); err != nil {
			return err
		}
		if err := tx.Invitation.DeleteByRestaurant(ctx, restaurant.ID); err != nil {
			return err
		}
		if err := tx.WorkerProfile.DeleteByRestaurant(ctx, restaurant.ID); err != nil {
			return err
		}
		return tx.Restaurant.Delete(ctx, restaurant.ID)
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("delete restaurant failed", zap.Uint("restaurant_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("restaurant deleted", zap.Uint("restaurant_id", id), zap.Uint("owner_id", caller.ID))
	return &dto.DeleteRestaurantResponse{
		Message:           "Restaurant deleted successfully",
		DeletedRestaurant: *restaurant,
	}, nil
}

// loadRestaurant is the shared lookup used by staff and worker services.
func loadRestaurant(ctx context.Context, repo *repository.Repository, id uint) (*model.Restaurant, error) {
	restaurant, err := repo.Restaurant.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

func toStaffMembers(rows []repository.StaffWithUser) []dto.StaffMemberResponse {
	out := make([]dto.StaffMemberResponse, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, dto.StaffMemberResponse{
			ID:               r.ID,
			RestaurantID:     r.RestaurantID,
			UserID:           r.UserID,
			RoleInRestaurant: r.RoleInRestaurant,
			QRSlug:           r.QRSlug,
			JoinedAt:         r.JoinedAt,
			User: dto.StaffUserRef{
				Name:      r.UserName,
				Email:     r.UserEmail,
				Phone:     r.UserPhone,
				AvatarURL: r.UserAvatarURL,
				Role:      r.UserRole,
			},
		})
	}
	return out
}
