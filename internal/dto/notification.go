package dto

import "tipsy/internal/model"

// DefaultNotificationLimit applies when GET /notifications names no limit.
const DefaultNotificationLimit = 20

// NotificationListQuery GET /notifications
type NotificationListQuery struct {
	ListQuery
	UnreadOnly bool `form:"unread_only"`
}

// MarkReadResponse POST /notifications/:id/read
type MarkReadResponse struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	Notification model.Notification `json:"notification"`
}
