package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/vidrios-leads-api/api/swagger"
	"github.com/noah-isme/vidrios-leads-api/internal/middleware"
	"github.com/noah-isme/vidrios-leads-api/internal/service"
	"github.com/noah-isme/vidrios-leads-api/pkg/config"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
	"github.com/noah-isme/vidrios-leads-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/vidrios-leads-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/vidrios-leads-api/pkg/middleware/requestid"
	"github.com/noah-isme/vidrios-leads-api/pkg/response"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Submissions *service.SubmissionService
	Metrics     *service.MetricsService

	// Sessions is used when Config.Auth.Mode is session, StaticToken when it is token.
	Sessions    *service.SessionAuthority
	StaticToken *service.StaticTokenAuthority
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logr.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.Abort(c, appErrors.ErrInternal)
	}))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "not found"))
	})

	metricsHandler := NewMetricsHandler(deps.Metrics, deps.Submissions)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")

	contactHandler := NewContactHandler(deps.Submissions)
	api.POST("/contact", contactHandler.Create)

	var gate gin.HandlerFunc
	switch cfg.Auth.Mode {
	case config.AuthModeToken:
		gate = middleware.AdminGate(deps.StaticToken, middleware.BearerCredential())
	default:
		cookie := SessionCookieFromConfig(cfg)
		gate = middleware.AdminGate(deps.Sessions, middleware.CookieCredential(cookie.Name))

		authHandler := NewAuthHandler(deps.Sessions, cookie)
		auth := api.Group("/auth")
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", gate, authHandler.Me)
	}

	submissionHandler := NewSubmissionHandler(deps.Submissions)
	admin := api.Group("/admin", gate)
	admin.GET("/submissions", submissionHandler.List)
	admin.GET("/submissions/export", submissionHandler.Export)
	admin.PATCH("/submissions/:id", middleware.Audit(logr, "submission.status_update"), submissionHandler.UpdateStatus)

	return r
}
