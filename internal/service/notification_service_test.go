package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsy/internal/dto"
	"tipsy/internal/model"
)

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.repo, f.logger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := newTipSvc(f).Submit(ctx, &dto.SubmitTipRequest{QRSlug: "aisha-qr", AmountCents: dto.Int(100)})
		require.NoError(t, err)
	}

	items, unread, err := svc.List(ctx, f.worker, &dto.NotificationListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), unread)

	resp, err := svc.MarkRead(ctx, f.worker, items[0].ID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Notification.Read)

	items, unread, err = svc.List(ctx, f.worker, &dto.NotificationListQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), unread)
}

func TestNotificationService_MarkReadScopedToOwner(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.repo, f.logger)
	ctx := context.Background()

	n := &model.Notification{UserID: f.worker.ID, Type: model.NotificationTipReceived, Title: "Tip", Body: "x"}
	require.NoError(t, f.repo.Notification.Create(ctx, n))

	_, err := svc.MarkRead(ctx, f.owner, n.ID)
	assert.True(t, errors.Is(err, ErrNotificationNotFound))

	var stored model.Notification
	require.NoError(t, f.db.First(&stored, n.ID).Error)
	assert.False(t, stored.Read)

	items, unread, err := svc.List(ctx, f.owner, &dto.NotificationListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Zero(t, unread)
}
