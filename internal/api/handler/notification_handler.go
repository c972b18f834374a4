package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tipsy/internal/dto"
	"tipsy/internal/service"
	"tipsy/pkg/response"
)

// NotificationHandler notification endpoints.
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List returns the caller's notifications; X-Unread-Count carries the
// total unread count.
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	var q dto.NotificationListQuery
	if !bindQuery(c, &q) {
		return
	}

	items, unread, err := h.notificationSvc.List(c.Request.Context(), user, &q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Header("X-Unread-Count", strconv.FormatInt(unread, 10))
	response.OK(c, items)
}

// MarkRead POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.notificationSvc.MarkRead(c.Request.Context(), user, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}
