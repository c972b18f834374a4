package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tipsy/internal/model"
	"tipsy/internal/repository"
	"tipsy/internal/testdb"
)

type fixture struct {
	repo       *repository.Repository
	db         *gorm.DB
	owner      *model.User
	worker     *model.User
	restaurant *model.Restaurant
	staff      *model.Staff
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testdb.New(t)
	repo := repository.NewRepository(db)

	owner := &model.User{AuthUserID: "owner-1", Role: model.RoleOwner, Name: "Olivia", Email: "olivia@example.com"}
	worker := &model.User{AuthUserID: "worker-1", Role: model.RoleWorker, Name: "Aisha", Email: "aisha@example.com"}
	require.NoError(t, repo.User.Create(ctx, owner))
	require.NoError(t, repo.User.Create(ctx, worker))

	address := "12 MG Road"
	restaurant := &model.Restaurant{OwnerUserID: owner.ID, Name: "Spice Route", Address: &address}
	require.NoError(t, repo.Restaurant.Create(ctx, restaurant))

	staff := &model.Staff{
		RestaurantID:     restaurant.ID,
		UserID:           worker.ID,
		RoleInRestaurant: "server",
		QRSlug:           "aisha-qr",
		JoinedAt:         time.Now(),
	}
	require.NoError(t, repo.Staff.Create(ctx, staff))

	return &fixture{repo: repo, db: db, owner: owner, worker: worker, restaurant: restaurant, staff: staff}
}

func TestTransaction_Rollback(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tip := &model.Tip{WorkerUserID: f.worker.ID, AmountCents: 500, Currency: "INR"}
		if err := tx.Tip.Create(ctx, tip); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, f.db.Model(&model.Tip{}).Count(&count).Error)
	assert.Zero(t, count, "rolled back tip must not persist")
}

func TestTransaction_Commit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	err := f.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tip := &model.Tip{WorkerUserID: f.worker.ID, AmountCents: 500, Currency: "INR"}
		if err := tx.Tip.Create(ctx, tip); err != nil {
			return err
		}
		return tx.Notification.Create(ctx, &model.Notification{
			UserID: f.worker.ID, Type: model.NotificationTipReceived, Title: "t", Body: "b",
		})
	})
	require.NoError(t, err)

	totals, err := f.repo.Tip.TotalsByWorker(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), totals.TotalCents)
	assert.Equal(t, int64(1), totals.Count)

	unread, err := f.repo.Notification.CountUnread(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestStaff_ResolveSlug(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.repo.Staff.ResolveSlug(ctx, "aisha-qr")
	require.NoError(t, err)
	assert.Equal(t, f.worker.ID, res.WorkerUserID)
	assert.Equal(t, f.restaurant.ID, res.RestaurantID)
	assert.Equal(t, "Aisha", res.WorkerName)
	assert.Equal(t, "Spice Route", res.RestaurantName)
	require.NotNil(t, res.RestaurantAddress)
	assert.Equal(t, "12 MG Road", *res.RestaurantAddress)

	_, err = f.repo.Staff.ResolveSlug(ctx, "nobody-qr")
	assert.True(t, repository.IsNotFound(err))
}

func TestStaff_DuplicateMembershipIsUniqueViolation(t *testing.T) {
	f := setup(t)

	err := f.repo.Staff.Create(context.Background(), &model.Staff{
		RestaurantID: f.restaurant.ID,
		UserID:       f.worker.ID,
		QRSlug:       "another-slug",
		JoinedAt:     time.Now(),
	})
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestRestaurant_ListByOwnerCountsStaff(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	empty := &model.Restaurant{OwnerUserID: f.owner.ID, Name: "Empty Kitchen"}
	require.NoError(t, f.repo.Restaurant.Create(ctx, empty))

	rows, err := f.repo.Restaurant.ListByOwner(ctx, f.owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.Name] = r.StaffCount
	}
	assert.Equal(t, int64(1), counts["Spice Route"])
	assert.Equal(t, int64(0), counts["Empty Kitchen"])
}

func TestReview_ApprovedStatsIgnoresOtherStatuses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, r := range []struct {
		rating int
		status string
	}{
		{5, model.ReviewApproved},
		{4, model.ReviewApproved},
		{1, model.ReviewPending},
		{1, model.ReviewRejected},
	} {
		require.NoError(t, f.repo.Review.Create(ctx, &model.Review{
			WorkerUserID: f.worker.ID, RestaurantID: &f.restaurant.ID, Rating: r.rating, Status: r.status,
		}))
	}

	stats, err := f.repo.Review.ApprovedStats(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, stats.Average, 0.0001)
	assert.Equal(t, int64(2), stats.Count)

	recent, err := f.repo.Review.RecentApproved(ctx, f.worker.ID, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestNotification_MarkReadScopedToOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n := &model.Notification{UserID: f.worker.ID, Type: model.NotificationTipReceived, Title: "t", Body: "b"}
	require.NoError(t, f.repo.Notification.Create(ctx, n))

	err := f.repo.Notification.MarkRead(ctx, n.ID, f.owner.ID)
	assert.True(t, repository.IsNotFound(err))

	require.NoError(t, f.repo.Notification.MarkRead(ctx, n.ID, f.worker.ID))
	unread, err := f.repo.Notification.CountUnread(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestInvitation_FindOpenSkipsExpired(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := time.Now()

	expired := &model.StaffInvitation{
		RestaurantID: f.restaurant.ID, Email: "new@example.com", InviterUserID: f.owner.ID,
		RoleInRestaurant: model.RoleWorker, Token: "tok-expired", Status: model.InvitationInvited,
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, f.repo.Invitation.Create(ctx, expired))

	_, err := f.repo.Invitation.FindOpen(ctx, f.restaurant.ID, "NEW@example.com", now)
	assert.True(t, repository.IsNotFound(err))

	require.NoError(t, f.repo.Invitation.RevokeExpired(ctx, f.restaurant.ID, "new@example.com", now))
	var reloaded model.StaffInvitation
	require.NoError(t, f.db.First(&reloaded, expired.ID).Error)
	assert.Equal(t, model.InvitationRevoked, reloaded.Status)

	open := &model.StaffInvitation{
		RestaurantID: f.restaurant.ID, Email: "new@example.com", InviterUserID: f.owner.ID,
		RoleInRestaurant: model.RoleWorker, Token: "tok-open", Status: model.InvitationInvited,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, f.repo.Invitation.Create(ctx, open))

	got, err := f.repo.Invitation.FindOpen(ctx, f.restaurant.ID, "NEW@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, "tok-open", got.Token)
}

func TestInvitation_OneOpenPerEmail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	invite := func(token, status string) error {
		return f.repo.Invitation.Create(ctx, &model.StaffInvitation{
			RestaurantID: f.restaurant.ID, Email: "dup@example.com", InviterUserID: f.owner.ID,
			RoleInRestaurant: model.RoleWorker, Token: token, Status: status, ExpiresAt: expires,
		})
	}

	require.NoError(t, invite("tok-1", model.InvitationInvited))
	err := invite("tok-2", model.InvitationInvited)
	assert.True(t, repository.IsUniqueViolation(err), "second open invitation: %v", err)

	require.NoError(t, invite("tok-3", model.InvitationAccepted))
	require.NoError(t, invite("tok-4", model.InvitationRevoked))
}
