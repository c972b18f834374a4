// Command seed loads demo data: an admin, two owners, three workers with
// QR slugs aisha-qr, rahul-qr and priya-qr, and a few tips, reviews,
// feature toggles and notifications.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"tipsy/config"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	"tipsy/pkg/database"
	"tipsy/pkg/jwt"
	applogger "tipsy/pkg/logger"
)

type demoUser struct {
	authID string
	role   string
	name   string
	email  string
}

var demoUsers = []demoUser{
	{"admin-1", model.RoleAdmin, "Ada Admin", "admin@tipsy.dev"},
	{"owner-1", model.RoleOwner, "Vikram Mehta", "vikram@spiceroute.in"},
	{"owner-2", model.RoleOwner, "Neha Kapoor", "neha@chaiadda.in"},
	{"worker-1", model.RoleWorker, "Aisha Khan", "aisha@tipsy.dev"},
	{"worker-2", model.RoleWorker, "Rahul Sharma", "rahul@tipsy.dev"},
	{"worker-3", model.RoleWorker, "Priya Nair", "priya@tipsy.dev"},
}

func main() {
	configPath := flag.String("config", "", "path to a config file")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of printed demo tokens in jwt mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	ctx := context.Background()
	repo := repository.NewRepository(db)

	if _, err := repo.User.GetByAuthUserID(ctx, demoUsers[0].authID); err == nil {
		logger.Info("demo data already present, nothing to do")
		return
	} else if !repository.IsNotFound(err) {
		logger.Fatal("check existing data", zap.Error(err))
	}

	if err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		return seed(ctx, tx)
	}); err != nil {
		logger.Fatal("seed demo data", zap.Error(err))
	}
	logger.Info("demo data loaded", zap.Int("users", len(demoUsers)))

	if cfg.Auth.Mode != config.AuthModeJWT {
		logger.Info("opaque auth: use the auth id as the bearer credential, e.g. 'Authorization: Bearer owner-1'")
		return
	}
	mgr := jwt.NewManager(&cfg.Auth)
	for _, u := range demoUsers {
		token, err := mgr.GenerateToken(u.authID, u.name, u.email, *tokenTTL)
		if err != nil {
			logger.Fatal("sign demo token", zap.Error(err))
		}
		fmt.Printf("%-9s %-6s %s\n", u.authID, u.role, token)
	}
}

func seed(ctx context.Context, repo *repository.Repository) error {
	users := make(map[string]*model.User, len(demoUsers))
	for _, d := range demoUsers {
		u := &model.User{AuthUserID: d.authID, Role: d.role, Name: d.name, Email: d.email}
		if err := repo.User.Create(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", d.authID, err)
		}
		users[d.authID] = u
	}

	spiceRoute := &model.Restaurant{
		OwnerUserID: users["owner-1"].ID,
		Name:        "Spice Route",
		Address:     ptr("12 MG Road, Bengaluru"),
		UPIHandle:   ptr("spiceroute@okicici"),
	}
	chaiAdda := &model.Restaurant{
		OwnerUserID: users["owner-2"].ID,
		Name:        "Chai Adda",
		Address:     ptr("4 Linking Road, Mumbai"),
	}
	for _, r := range []*model.Restaurant{spiceRoute, chaiAdda} {
		if err := repo.Restaurant.Create(ctx, r); err != nil {
			return fmt.Errorf("restaurant %s: %w", r.Name, err)
		}
	}

	joined := time.Now().UTC().AddDate(0, -2, 0)
	staff := []*model.Staff{
		{RestaurantID: spiceRoute.ID, UserID: users["worker-1"].ID, RoleInRestaurant: "server", QRSlug: "aisha-qr", JoinedAt: joined},
		{RestaurantID: spiceRoute.ID, UserID: users["worker-2"].ID, RoleInRestaurant: "bartender", QRSlug: "rahul-qr", JoinedAt: joined},
		{RestaurantID: chaiAdda.ID, UserID: users["worker-3"].ID, RoleInRestaurant: "barista", QRSlug: "priya-qr", JoinedAt: joined},
	}
	for _, s := range staff {
		if err := repo.Staff.Create(ctx, s); err != nil {
			return fmt.Errorf("staff %s: %w", s.QRSlug, err)
		}
	}

	profile := &model.WorkerProfile{
		UserID:       users["worker-1"].ID,
		RestaurantID: spiceRoute.ID,
		DisplayName:  "Aisha",
		Bio:          ptr("Evening shift, ask me about the biryani."),
		UPIVPA:       ptr("aisha@upi"),
		QRCodeURL:    "/workers/by-slug/aisha-qr",
	}
	if err := repo.WorkerProfile.Create(ctx, profile); err != nil {
		return fmt.Errorf("worker profile: %w", err)
	}

	type demoTip struct {
		worker     string
		restaurant *model.Restaurant
		cents      int64
		payer      string
		message    string
		rating     int
		status     string
	}
	tips := []demoTip{
		{"worker-1", spiceRoute, 25000, "Raj", "Great service!", 5, model.ReviewApproved},
		{"worker-1", spiceRoute, 10000, "Meera", "", 4, model.ReviewPending},
		{"worker-2", spiceRoute, 5000, "", "Loved the mocktails", 5, model.ReviewApproved},
		{"worker-3", chaiAdda, 2000, "Sam", "", 0, ""},
	}
	for i, d := range tips {
		worker := users[d.worker]
		restaurantID := d.restaurant.ID
		tip := &model.Tip{
			WorkerUserID: worker.ID,
			RestaurantID: &restaurantID,
			AmountCents:  d.cents,
			Currency:     "INR",
			PayerName:    optional(d.payer),
			Message:      optional(d.message),
			CreatedAt:    time.Now().UTC().Add(-time.Duration(len(tips)-i) * time.Hour),
		}
		if d.rating > 0 {
			tip.Rating = ptr(d.rating)
		}
		if err := repo.Tip.Create(ctx, tip); err != nil {
			return fmt.Errorf("tip %d: %w", i, err)
		}
		if d.rating == 0 {
			continue
		}
		review := &model.Review{
			WorkerUserID: worker.ID,
			RestaurantID: &restaurantID,
			Rating:       d.rating,
			Comment:      optional(d.message),
			TipID:        &tip.ID,
			Status:       d.status,
		}
		if d.status != model.ReviewPending {
			review.ModeratedByUserID = &d.restaurant.OwnerUserID
		}
		if err := repo.Review.Create(ctx, review); err != nil {
			return fmt.Errorf("review %d: %w", i, err)
		}
		if err := repo.Notification.Create(ctx, &model.Notification{
			UserID: worker.ID,
			Type:   model.NotificationTipReceived,
			Title:  "New tip received",
			Body:   fmt.Sprintf("You received ₹%.2f at %s", float64(d.cents)/100, d.restaurant.Name),
		}); err != nil {
			return fmt.Errorf("notification %d: %w", i, err)
		}
	}

	features := []*model.Feature{
		{Key: "reviews", Name: "Reviews", Description: ptr("Let guests leave a rating with their tip"), Enabled: true},
		{Key: "stripe_checkout", Name: "Card payments", Description: ptr("Stripe checkout for international cards"), Enabled: false},
		{Key: "tip_export", Name: "Tip export", Enabled: true},
	}
	for _, f := range features {
		if err := repo.Feature.Create(ctx, f); err != nil {
			return fmt.Errorf("feature %s: %w", f.Key, err)
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
