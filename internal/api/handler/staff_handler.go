package handler

import (
	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// StaffHandler staff membership and invitation endpoints.
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler creates a StaffHandler.
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

type staffListQuery struct {
	RestaurantID uint `form:"restaurantId"`
}

// List GET /api/v1/staff?restaurantId=
func (h *StaffHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var q staffListQuery
	if !bindQuery(c, &q) {
		return
	}

	members, err := h.staffSvc.List(c.Request.Context(), user, q.RestaurantID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, members)
}

// Add POST /api/v1/staff
func (h *StaffHandler) Add(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.AddStaffRequest
	if !bindGuarded(c, userIDKeys, &req) {
		return
	}

	member, err := h.staffSvc.Add(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, member)
}

// Remove DELETE /api/v1/staff/:id
func (h *StaffHandler) Remove(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.staffSvc.Remove(c.Request.Context(), user, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}

// Invite POST /api/v1/staff/invite
func (h *StaffHandler) Invite(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.InviteStaffRequest
	if !bindGuarded(c, inviterKeys, &req) {
		return
	}

	resp, err := h.staffSvc.Invite(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, resp)
}

// ListInvitations GET /api/v1/staff/invite?restaurantId=[&status=]
func (h *StaffHandler) ListInvitations(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var q dto.InvitationListQuery
	if !bindQuery(c, &q) {
		return
	}

	invitations, err := h.staffSvc.ListInvitations(c.Request.Context(), user, &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, invitations)
}

// AcceptInvitation POST /api/v1/staff/invite/accept
func (h *StaffHandler) AcceptInvitation(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var req dto.AcceptInvitationRequest
	if !bindGuarded(c, userIDKeys, &req) {
		return
	}

	resp, err := h.staffSvc.AcceptInvitation(c.Request.Context(), user, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, resp)
}
