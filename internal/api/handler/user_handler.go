package handler

import (
	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// UserHandler self-profile endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.Profile(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateCurrentUser PATCH /api/v1/users/me
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindGuarded(c, userIDKeys, &req) {
		return
	}

	profile, err := h.userSvc.UpdateProfile(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, profile)
}
