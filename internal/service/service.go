package service

import (
	"time"

	"go.uber.org/zap"

	"tipsy/config"
	"tipsy/internal/repository"
	"tipsy/pkg/jwt"
	"tipsy/pkg/metrics"
)

// Service aggregates every service.
type Service struct {
	Identity     IdentityService
	Tip          TipService
	Review       ReviewService
	Restaurant   RestaurantService
	Staff        StaffService
	Worker       WorkerService
	User         UserService
	Notification NotificationService
	Feature      FeatureService
	Payment      PaymentService
	Export       ExportService
}

// NewService wires every service over repo. jwtMgr may be nil when the
// auth mode is opaque; m may be nil to disable domain metrics.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		Identity:     NewIdentityService(&cfg.Auth, repo, jwtMgr, m, logger),
		Tip:          NewTipService(repo, m, logger),
		Review:       NewReviewService(repo, m, logger),
		Restaurant:   NewRestaurantService(repo, logger),
		Staff:        NewStaffService(repo, cfg.Server.BaseURL, cfg.Auth.InvitationTTL, logger),
		Worker:       NewWorkerService(repo, logger),
		User:         NewUserService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Feature:      NewFeatureService(repo, logger),
		Payment:      NewPaymentService(NewStubPaymentProvider(&cfg.Payment)),
		Export:       NewExportService(repo, logger),
	}
}

// now is the clock used for timestamps the database does not fill.
var now = func() time.Time { return time.Now().UTC() }
