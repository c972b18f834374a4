package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tipsy/config"
	"tipsy/internal/api/handler"
	"tipsy/internal/api/middleware"
	"tipsy/internal/model"
	"tipsy/pkg/metrics"
	"tipsy/pkg/redis"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Deps are the collaborators the router needs beyond the handlers.
type Deps struct {
	Identity middleware.IdentityResolver
	DB       handler.Pinger
	Redis    *redis.Client // optional
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Setup builds the gin engine.
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	checks := map[string]handler.Pinger{"database": deps.DB}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	r.GET("/health", handler.NewHealthHandler(checks).Health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	publicLimit := middleware.NewRateLimiter(deps.Redis, cfg.RateLimit.PublicPerMinute, time.Minute, deps.Metrics, deps.Logger).Handler()
	auth := middleware.Authenticate(deps.Identity)
	ownerOrAdmin := middleware.RoleAuth(model.RoleOwner, model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		// Public
		v1.POST("/tips", publicLimit, h.Tip.Submit)
		v1.POST("/reviews", publicLimit, h.Review.Submit)
		v1.GET("/workers", h.Worker.List)
		v1.GET("/workers/by-slug/:qr_slug", h.Worker.PublicProfileBySlug)
		v1.GET("/workers/:id", h.Worker.PublicProfile)
		v1.POST("/payments/upi-intent", publicLimit, h.Payment.UPIIntent)
		v1.POST("/payments/stripe/checkout", publicLimit, h.Payment.Checkout)

		authorized := v1.Group("")
		authorized.Use(auth)
		{
			authorized.GET("/tips", h.Tip.List)

			authorized.GET("/reviews", h.Review.List)
			authorized.POST("/reviews/moderate", ownerOrAdmin, h.Review.Moderate)

			features := authorized.Group("/feature-toggles", middleware.RoleAuth(model.RoleAdmin))
			{
				features.GET("", h.Feature.List)
				features.PATCH("", h.Feature.Upsert)
			}

			restaurants := authorized.Group("/restaurants")
			{
				restaurants.GET("", middleware.RoleAuth(model.RoleOwner), h.Restaurant.List)
				restaurants.POST("", middleware.RoleAuth(model.RoleOwner), h.Restaurant.Create)
				restaurants.GET("/:id", h.Restaurant.Get)
				restaurants.PATCH("/:id", h.Restaurant.Update) // owner of it; checked in service
				restaurants.DELETE("/:id", h.Restaurant.Delete)
			}

			staff := authorized.Group("/staff")
			{
				staff.GET("", h.Staff.List)
				staff.POST("", h.Staff.Add)
				staff.DELETE("/:id", h.Staff.Remove)
				staff.POST("/invite", h.Staff.Invite)
				staff.GET("/invite", h.Staff.ListInvitations)
				staff.POST("/invite/accept", h.Staff.AcceptInvitation)
			}

			workers := authorized.Group("/workers")
			{
				workers.POST("", h.Worker.Create)
				workers.PUT("", h.Worker.Update)
				workers.DELETE("", h.Worker.Delete)
			}

			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.PATCH("/me", h.User.UpdateCurrentUser)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.POST("/:id/read", h.Notification.MarkRead)
			}

			authorized.GET("/export/tips", h.Export.ExportTips)
		}
	}

	return r
}
