package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var (
	ErrMissingRestaurantID  = pkgerrors.Validation("MISSING_RESTAURANT_ID", "Valid restaurant ID is required")
	ErrInvalidUserEmail     = pkgerrors.Validation("INVALID_USER_EMAIL", "Valid user email is required")
	ErrStaffUserNotFound    = pkgerrors.NotFound("USER_NOT_FOUND", "User not found with this email")
	ErrDuplicateStaff       = pkgerrors.Conflict("DUPLICATE_STAFF", "User is already staff member at this restaurant")
	ErrStaffNotFound        = pkgerrors.NotFound("STAFF_NOT_FOUND", "Staff record not found")
	ErrStaffAccessDenied    = pkgerrors.ErrAccessDenied.WithMessage("Access denied. Owner role required.")
	ErrMissingInviteFields  = pkgerrors.Validation("MISSING_REQUIRED_FIELDS", "Restaurant ID, worker email, and role are required")
	ErrInvalidRestaurantID  = pkgerrors.Validation("INVALID_RESTAURANT_ID", "Valid restaurant ID is required")
	ErrInvalidInviteRole    = pkgerrors.Validation("INVALID_ROLE", "Role must be one of: worker, owner, admin")
	ErrInvalidEmail         = pkgerrors.Validation("INVALID_EMAIL", "Valid email address is required")
	ErrInvitePermission     = pkgerrors.Forbidden("PERMISSION_DENIED", "Permission denied: Only restaurant owners can invite staff")
	ErrInviteListPermission = pkgerrors.Forbidden("PERMISSION_DENIED", "Permission denied: Only restaurant owners can view invitations")
	ErrDuplicateInvitation  = pkgerrors.Conflict("DUPLICATE_INVITATION", "Invitation already sent to this worker")
	ErrAlreadyActiveStaff   = pkgerrors.Conflict("ALREADY_ACTIVE_STAFF", "Worker is already active staff member")
	ErrMissingToken         = pkgerrors.Validation("MISSING_TOKEN", "Invitation token is required")
	ErrInvitationNotFound   = pkgerrors.NotFound("INVITATION_NOT_FOUND", "Invitation not found")
	ErrInvitationNotOpen    = pkgerrors.Conflict("INVITATION_NOT_OPEN", "Invitation has expired or was already used")
	ErrInvitationMismatch   = pkgerrors.Forbidden("INVITATION_MISMATCH", "Invitation was sent to a different email address")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StaffService staff membership and invitations.
type StaffService interface {
	List(ctx context.Context, caller *model.User, restaurantID uint) ([]dto.StaffMemberResponse, error)
	// Add attaches an existing user, found by email, to a restaurant and
	// issues their QR slug.
	Add(ctx context.Context, caller *model.User, req *dto.AddStaffRequest) (*dto.StaffMemberResponse, error)
	Remove(ctx context.Context, caller *model.User, staffID uint) (*dto.RemoveStaffResponse, error)
	Invite(ctx context.Context, caller *model.User, req *dto.InviteStaffRequest) (*dto.InviteStaffResponse, error)
	ListInvitations(ctx context.Context, caller *model.User, q *dto.InvitationListQuery) ([]model.StaffInvitation, error)
	// AcceptInvitation turns an open invitation addressed to the caller
	// into a staff row.
	AcceptInvitation(ctx context.Context, caller *model.User, req *dto.AcceptInvitationRequest) (*dto.AcceptInvitationResponse, error)
}

type staffService struct {
	repo          *repository.Repository
	baseURL       string
	invitationTTL time.Duration
	logger        *zap.Logger
}

// NewStaffService creates a StaffService. baseURL prefixes invitation links.
func NewStaffService(repo *repository.Repository, baseURL string, invitationTTL time.Duration, logger *zap.Logger) StaffService {
	if invitationTTL <= 0 {
		invitationTTL = 7 * 24 * time.Hour
	}
	return &staffService{
		repo:          repo,
		baseURL:       strings.TrimRight(baseURL, "/"),
		invitationTTL: invitationTTL,
		logger:        logger,
	}
}

// ────────────────────── Staff ──────────────────────

func (s *staffService) List(ctx context.Context, caller *model.User, restaurantID uint) ([]dto.StaffMemberResponse, error) {
	if restaurantID == 0 {
		return nil, ErrMissingRestaurantID
	}
	restaurant, err := loadRestaurant(ctx, s.repo, restaurantID)
	if err != nil {
		return nil, err
	}
	if !CanManageStaff(caller, restaurant) {
		return nil, ErrStaffAccessDenied
	}
	rows, err := s.repo.Staff.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	return toStaffMembers(rows), nil
}

func (s *staffService) Add(ctx context.Context, caller *model.User, req *dto.AddStaffRequest) (*dto.StaffMemberResponse, error) {
	restaurantID, ok := req.RestaurantID.ID()
	if !ok {
		return nil, ErrMissingRestaurantID
	}
	email := strings.ToLower(strings.TrimSpace(req.UserEmail))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidUserEmail
	}

	restaurant, err := loadRestaurant(ctx, s.repo, restaurantID)
	if err != nil {
		return nil, err
	}
	if !CanManageStaff(caller, restaurant) {
		return nil, ErrStaffAccessDenied
	}

	target, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStaffUserNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Staff.GetByRestaurantAndUser(ctx, restaurant.ID, target.ID); err == nil {
		return nil, ErrDuplicateStaff
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	role := strings.TrimSpace(req.RoleInRestaurant)
	if role == "" {
		role = model.DefaultStaffRole
	}
	staff := &model.Staff{
		RestaurantID:     restaurant.ID,
		UserID:           target.ID,
		RoleInRestaurant: role,
		QRSlug:           NewQRSlug(restaurant.Name, target.Name),
		JoinedAt:         now(),
	}
	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateStaff
		}
		s.logger.Error("add staff failed", zap.Uint("restaurant_id", restaurant.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("staff added",
		zap.Uint("restaurant_id", restaurant.ID),
		zap.Uint("user_id", target.ID),
		zap.String("qr_slug", staff.QRSlug),
	)
	member := staffMember(staff, target)
	return &member, nil
}

func (s *staffService) Remove(ctx context.Context, caller *model.User, staffID uint) (*dto.RemoveStaffResponse, error) {
	detail, err := s.repo.Staff.GetDetail(ctx, staffID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	restaurant := &model.Restaurant{ID: detail.RestaurantID, OwnerUserID: detail.RestaurantOwnerID, Name: detail.RestaurantName}
	if !CanManageStaff(caller, restaurant) {
		return nil, ErrStaffAccessDenied
	}

	if err := s.repo.Staff.Delete(ctx, detail.ID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	resp := &dto.RemoveStaffResponse{
		Success: true,
		Message: fmt.Sprintf("Staff member %s removed from %s", detail.UserName, detail.RestaurantName),
		DeletedStaff: dto.DeletedStaffRef{
			ID:               detail.ID,
			QRSlug:           detail.QRSlug,
			RoleInRestaurant: detail.RoleInRestaurant,
			Restaurant:       dto.IDName{ID: detail.RestaurantID, Name: detail.RestaurantName},
		},
	}
	resp.DeletedStaff.User.Name = detail.UserName
	resp.DeletedStaff.User.Email = detail.UserEmail
	return resp, nil
}

// ────────────────────── Invitations ──────────────────────

func (s *staffService) Invite(ctx context.Context, caller *model.User, req *dto.InviteStaffRequest) (*dto.InviteStaffResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.WorkerEmail))
	role := strings.TrimSpace(req.Role)
	if !req.RestaurantID.Set || email == "" || role == "" {
		return nil, ErrMissingInviteFields
	}
	restaurantID, ok := req.RestaurantID.ID()
	if !ok {
		return nil, ErrInvalidRestaurantID
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidInviteRole
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	restaurant, err := loadRestaurant(ctx, s.repo, restaurantID)
	if err != nil {
		return nil, err
	}
	if !CanManageStaff(caller, restaurant) {
		return nil, ErrInvitePermission
	}

	invitee, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if invitee != nil {
		if _, err := s.repo.Staff.GetByRestaurantAndUser(ctx, restaurant.ID, invitee.ID); err == nil {
			return nil, ErrAlreadyActiveStaff
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	}
	ts := now()
	if open, err := s.repo.Invitation.FindOpen(ctx, restaurant.ID, email, ts); err == nil {
		return nil, ErrDuplicateInvitation.WithData(map[string]any{
			"status":    open.Status,
			"invitedAt": open.CreatedAt,
		})
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	inv := &model.StaffInvitation{
		RestaurantID:     restaurant.ID,
		Email:            email,
		InviterUserID:    caller.ID,
		RoleInRestaurant: role,
		Token:            uuid.NewString(),
		Status:           model.InvitationInvited,
		ExpiresAt:        ts.Add(s.invitationTTL),
	}
	notification := &model.Notification{
		UserID: caller.ID,
		Type:   model.NotificationPendingStaffInvitation,
		Title:  "Pending Staff Invitation",
		Body:   fmt.Sprintf("Invitation sent to %s for %s", email, restaurant.Name),
	}
	if invitee != nil {
		inv.InvitedUserID = &invitee.ID
		notification = &model.Notification{
			UserID: invitee.ID,
			Type:   model.NotificationStaffInvitation,
			Title:  "Staff Invitation from " + restaurant.Name,
			Body: fmt.Sprintf("You've been invited to join %s as %s. Click to accept the invitation.",
				restaurant.Name, role),
		}
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Invitation.RevokeExpired(ctx, restaurant.ID, email, ts); err != nil {
			return err
		}
		if err := tx.Invitation.Create(ctx, inv); err != nil {
			return err
		}
		return tx.Notification.Create(ctx, notification)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateInvitation
		}
		s.logger.Error("create invitation failed", zap.Uint("restaurant_id", restaurant.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("staff invited",
		zap.Uint("restaurant_id", restaurant.ID),
		zap.Uint("invitation_id", inv.ID),
		zap.Bool("existing_user", invitee != nil),
	)

	out := dto.InvitationResponse{
		ID:              inv.ID,
		RestaurantID:    restaurant.ID,
		RestaurantName:  restaurant.Name,
		WorkerEmail:     inv.Email,
		Role:            inv.RoleInRestaurant,
		Status:          inv.Status,
		InvitationToken: inv.Token,
		InvitationLink:  s.baseURL + "/accept-invitation?token=" + inv.Token,
		InvitedAt:       inv.CreatedAt,
		ExpiresAt:       inv.ExpiresAt,
		InviterDetails:  dto.InviterDetails{Name: caller.Name, Email: caller.Email},
	}
	if invitee == nil {
		out.Note = "User will need to register first before accepting invitation"
	}
	return &dto.InviteStaffResponse{Message: "Staff invitation sent successfully", Invitation: out}, nil
}

func (s *staffService) ListInvitations(ctx context.Context, caller *model.User, q *dto.InvitationListQuery) ([]model.StaffInvitation, error) {
	if q.RestaurantID == 0 {
		return nil, ErrMissingRestaurantID.WithMessage("Restaurant ID is required")
	}
	restaurant, err := loadRestaurant(ctx, s.repo, q.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !CanManageStaff(caller, restaurant) {
		return nil, ErrInviteListPermission
	}
	offset, limit := q.Page(dto.DefaultLimit)
	invitations, err := s.repo.Invitation.ListByRestaurant(ctx, restaurant.ID, q.Status, offset, limit)
	if err != nil {
		return nil, err
	}
	if invitations == nil {
		invitations = []model.StaffInvitation{}
	}
	return invitations, nil
}

func (s *staffService) AcceptInvitation(ctx context.Context, caller *model.User, req *dto.AcceptInvitationRequest) (*dto.AcceptInvitationResponse, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	inv, err := s.repo.Invitation.GetByToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	ts := now()
	if !inv.Open(ts) {
		return nil, ErrInvitationNotOpen
	}
	if !strings.EqualFold(inv.Email, caller.Email) {
		return nil, ErrInvitationMismatch
	}

	restaurant, err := loadRestaurant(ctx, s.repo, inv.RestaurantID)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		RestaurantID:     restaurant.ID,
		UserID:           caller.ID,
		RoleInRestaurant: inv.RoleInRestaurant,
		QRSlug:           NewQRSlug(restaurant.Name, caller.Name),
		JoinedAt:         ts,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Staff.Create(ctx, staff); err != nil {
			return err
		}
		inv.Status = model.InvitationAccepted
		inv.AcceptedAt = &ts
		inv.InvitedUserID = &caller.ID
		if err := tx.Invitation.Update(ctx, inv); err != nil {
			return err
		}
		return tx.Notification.Create(ctx, &model.Notification{
			UserID: inv.InviterUserID,
			Type:   model.NotificationInvitationAccepted,
			Title:  "Staff Invitation Accepted",
			Body:   fmt.Sprintf("%s joined %s as %s", caller.Name, restaurant.Name, inv.RoleInRestaurant),
		})
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyActiveStaff
		}
		s.logger.Error("accept invitation failed", zap.Uint("invitation_id", inv.ID), zap.Error(err))
		return nil, err
	}

	return &dto.AcceptInvitationResponse{
		Message: "Invitation accepted",
		Staff:   staffMember(staff, caller),
	}, nil
}

// ── helpers ──

// NewQRSlug builds "<restaurant>-<user>-<8 hex>" from the lowercased
// alphanumerics of both names.
func NewQRSlug(restaurantName, userName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return cleanSlugPart(restaurantName) + "-" + cleanSlugPart(userName) + "-" + suffix
}

func cleanSlugPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func staffMember(st *model.Staff, u *model.User) dto.StaffMemberResponse {
	return dto.StaffMemberResponse{
		ID:               st.ID,
		RestaurantID:     st.RestaurantID,
		UserID:           st.UserID,
		RoleInRestaurant: st.RoleInRestaurant,
		QRSlug:           st.QRSlug,
		JoinedAt:         st.JoinedAt,
		User: dto.StaffUserRef{
			Name:      u.Name,
			Email:     u.Email,
			Phone:     u.Phone,
			AvatarURL: u.AvatarURL,
			Role:      u.Role,
		},
	}
}
