package model

// Roles a user can hold.
const (
	RoleWorker = "worker"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleWorker, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Staff{},
		&StaffInvitation{},
		&Tip{},
		&Review{},
		&Notification{},
		&Feature{},
		&WorkerProfile{},
	}
}
