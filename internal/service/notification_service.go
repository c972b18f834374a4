package service

import (
	"context"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var ErrNotificationNotFound = pkgerrors.NotFound("NOTIFICATION_NOT_FOUND", "Notification not found or access denied")

// NotificationService the caller's notification inbox.
type NotificationService interface {
	// List returns a page of the caller's notifications and the total
	// number of unread ones.
	List(ctx context.Context, caller *model.User, q *dto.NotificationListQuery) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, caller *model.User, id uint) (*dto.MarkReadResponse, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, caller *model.User, q *dto.NotificationListQuery) ([]model.Notification, int64, error) {
	offset, limit := q.Page(dto.DefaultNotificationLimit)
	items, err := s.repo.Notification.ListByUser(ctx, caller.ID, q.UnreadOnly, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.Notification.CountUnread(ctx, caller.ID)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []model.Notification{}
	}
	return items, unread, nil
}

func (s *notificationService) MarkRead(ctx context.Context, caller *model.User, id uint) (*dto.MarkReadResponse, error) {
	n, err := s.repo.Notification.GetForUser(ctx, id, caller.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if err := s.repo.Notification.MarkRead(ctx, n.ID, caller.ID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	n.Read = true
	return &dto.MarkReadResponse{
		Success:      true,
		Message:      "Notification marked as read",
		Notification: *n,
	}, nil
}
