package service

import (
	"tipsy/internal/model"
	pkgerrors "tipsy/pkg/errors"
)

var (
	ErrAccessDenied            = pkgerrors.ErrAccessDenied
	ErrInsufficientPermissions = pkgerrors.Forbidden("INSUFFICIENT_PERMISSIONS", "Insufficient permissions")
)

// Authorization predicates shared by the services. Each takes the
// resolved caller; ownership is always compared against stored ids, never
// against anything taken from a request body.

// IsAdmin reports an admin caller.
func IsAdmin(u *model.User) bool {
	return u != nil && u.Role == model.RoleAdmin
}

// IsOwner reports a caller holding the owner role.
func IsOwner(u *model.User) bool {
	return u != nil && u.Role == model.RoleOwner
}

// OwnsRestaurant reports an owner-role caller that owns r. Required for
// restaurant updates and deletes.
func OwnsRestaurant(u *model.User, r *model.Restaurant) bool {
	return IsOwner(u) && r != nil && r.OwnerUserID == u.ID
}

// CanManageStaff allows the restaurant's owner or any admin to list, add,
// remove or invite staff.
func CanManageStaff(u *model.User, r *model.Restaurant) bool {
	if u == nil || r == nil {
		return false
	}
	return r.OwnerUserID == u.ID || IsAdmin(u)
}

// CanModerate allows the owning owner or any admin.
func CanModerate(u *model.User, r *model.Restaurant) bool {
	return OwnsRestaurant(u, r) || IsAdmin(u)
}

// CanViewRestaurantReviews allows the owning owner or any admin.
func CanViewRestaurantReviews(u *model.User, r *model.Restaurant) bool {
	return CanModerate(u, r)
}

// CanViewRestaurant allows the owner, any staff member and admins.
// isStaff is looked up by the caller.
func CanViewRestaurant(u *model.User, r *model.Restaurant, isStaff bool) bool {
	if u == nil || r == nil {
		return false
	}
	return r.OwnerUserID == u.ID || isStaff || IsAdmin(u)
}

// CanManageWorkerProfile allows the owner of the profile's restaurant or
// an admin.
func CanManageWorkerProfile(u *model.User, r *model.Restaurant) bool {
	return CanManageStaff(u, r)
}

// CanEditWorkerProfile additionally allows the worker the profile
// describes.
func CanEditWorkerProfile(u *model.User, p *model.WorkerProfile, r *model.Restaurant) bool {
	if u != nil && p != nil && p.UserID == u.ID {
		return true
	}
	return CanManageWorkerProfile(u, r)
}
