package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tipsy/internal/model"
)

func TestPolicy(t *testing.T) {
	owner := &model.User{ID: 1, Role: model.RoleOwner}
	other := &model.User{ID: 2, Role: model.RoleOwner}
	admin := &model.User{ID: 3, Role: model.RoleAdmin}
	worker := &model.User{ID: 4, Role: model.RoleWorker}
	// A worker-role user recorded as owner is not a restaurant owner.
	demoted := &model.User{ID: 5, Role: model.RoleWorker}

	r := &model.Restaurant{ID: 10, OwnerUserID: owner.ID}
	orphan := &model.Restaurant{ID: 11, OwnerUserID: demoted.ID}
	profile := &model.WorkerProfile{ID: 20, UserID: worker.ID, RestaurantID: r.ID}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"owner owns", OwnsRestaurant(owner, r), true},
		{"other does not own", OwnsRestaurant(other, r), false},
		{"admin does not own", OwnsRestaurant(admin, r), false},
		{"demoted owner does not own", OwnsRestaurant(demoted, orphan), false},
		{"nil caller", OwnsRestaurant(nil, r), false},

		{"owner manages staff", CanManageStaff(owner, r), true},
		{"admin manages staff", CanManageStaff(admin, r), true},
		{"worker cannot manage staff", CanManageStaff(worker, r), false},
		{"nil restaurant", CanManageStaff(admin, nil), false},

		{"owner moderates", CanModerate(owner, r), true},
		{"admin moderates", CanModerate(admin, r), true},
		{"other cannot moderate", CanModerate(other, r), false},
		{"admin views reviews", CanViewRestaurantReviews(admin, r), true},

		{"staff views restaurant", CanViewRestaurant(worker, r, true), true},
		{"stranger cannot view", CanViewRestaurant(worker, r, false), false},
		{"admin views restaurant", CanViewRestaurant(admin, r, false), true},

		{"worker edits own profile", CanEditWorkerProfile(worker, profile, r), true},
		{"worker cannot manage profile", CanManageWorkerProfile(worker, r), false},
		{"other cannot edit", CanEditWorkerProfile(other, profile, r), false},
		{"owner edits profile", CanEditWorkerProfile(owner, profile, r), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
