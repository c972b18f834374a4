package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"tipsy/internal/model"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/response"
)

// Context keys set by Authenticate.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// IdentityResolver turns a bearer credential into a stored user.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*model.User, error)
}

// Authenticate resolves Authorization: Bearer <credential> once per request
// and stores the user under UserKey.
func Authenticate(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			response.AbortFail(c, pkgerrors.ErrAuthRequired)
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), credential)
		if err != nil {
			response.AbortFail(c, err)
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, user.Role)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, credential, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	credential = strings.TrimSpace(credential)
	return credential, credential != ""
}

// RoleAuth admits callers holding one of allowedRoles. It must run after
// Authenticate.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	denied := pkgerrors.Forbidden("INSUFFICIENT_PERMISSIONS", roleMessage(allowedRoles))
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		if role == "" {
			response.AbortFail(c, pkgerrors.ErrAuthRequired)
			return
		}
		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}
		response.AbortFail(c, denied)
	}
}

// roleMessage renders "Access denied. Owner or admin role required."
func roleMessage(roles []string) string {
	names := append([]string(nil), roles...)
	if len(names) > 0 {
		names[0] = strings.ToUpper(names[0][:1]) + names[0][1:]
	}
	return "Access denied. " + strings.Join(names, " or ") + " role required."
}
