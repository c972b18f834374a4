package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tipsy/internal/model"
	"tipsy/internal/repository"
	"tipsy/internal/testdb"
)

// fixture is a seeded database: an owner with one restaurant, a worker on
// its staff under the slug "aisha-qr", an unrelated owner and an admin.
type fixture struct {
	db         *gorm.DB
	repo       *repository.Repository
	logger     *zap.Logger
	owner      *model.User
	otherOwner *model.User
	admin      *model.User
	worker     *model.User
	restaurant *model.Restaurant
	staff      *model.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testdb.New(t)
	repo := repository.NewRepository(db)

	f := &fixture{db: db, repo: repo, logger: zap.NewNop()}
	f.owner = f.addUser(t, "owner-1", model.RoleOwner, "Olivia", "olivia@example.com")
	f.otherOwner = f.addUser(t, "owner-2", model.RoleOwner, "Oscar", "oscar@example.com")
	f.admin = f.addUser(t, "admin-1", model.RoleAdmin, "Ada", "ada@example.com")
	f.worker = f.addUser(t, "worker-1", model.RoleWorker, "Aisha", "aisha@example.com")

	address := "12 MG Road"
	upi := "spiceroute@upi"
	f.restaurant = &model.Restaurant{OwnerUserID: f.owner.ID, Name: "Spice Route", Address: &address, UPIHandle: &upi}
	require.NoError(t, repo.Restaurant.Create(ctx, f.restaurant))

	f.staff = &model.Staff{
		RestaurantID:     f.restaurant.ID,
		UserID:           f.worker.ID,
		RoleInRestaurant: "server",
		QRSlug:           "aisha-qr",
		JoinedAt:         time.Now().UTC(),
	}
	require.NoError(t, repo.Staff.Create(ctx, f.staff))
	return f
}

func (f *fixture) addUser(t *testing.T, authID, role, name, email string) *model.User {
	t.Helper()
	u := &model.User{AuthUserID: authID, Role: role, Name: name, Email: email}
	require.NoError(t, f.repo.User.Create(context.Background(), u))
	return u
}

func (f *fixture) addReview(t *testing.T, rating int, status string) *model.Review {
	t.Helper()
	rid := f.restaurant.ID
	r := &model.Review{WorkerUserID: f.worker.ID, RestaurantID: &rid, Rating: rating, Status: status}
	require.NoError(t, f.repo.Review.Create(context.Background(), r))
	return r
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
