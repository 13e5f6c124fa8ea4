package v1

import (
	"time"

	"matrimony-backend/config"
	"matrimony-backend/internal/delivery/http/middleware"
	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC   domain.AuthUsecase
	PersonUC domain.PersonUsecase
	HealthUC domain.HealthUsecase
	Tokens   middleware.TokenParser
	Config   *config.Config
	// UploadDir is served under /uploads when photos are stored locally.
	UploadDir string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins, !cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.S3PublicURL))
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig(cfg.RateLimitGlobalThreshold)))
	r.Use(middleware.ErrorHandler())

	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}

	upload := middleware.PhotoUpload(middleware.PhotoUploadConfig{
		MaxPhotos:    cfg.MaxPhotos,
		MaxFileBytes: cfg.MaxPhotoBytes,
		Limiter:      security.NewUploadLimiter(cfg.UploadsPerHour, time.Hour),
	})

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	NewSubmissionHandler(v1, deps.PersonUC, middleware.RateLimitMiddleware(middleware.SubmissionRateLimitConfig()), upload)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, cfg.CookieSecure, middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig()))
		NewPersonHandler(protected, deps.PersonUC, upload)
		NewUserHandler(protected, deps.AuthUC)
	}

	return r
}
