// Package router assembles the gin engine: global middleware, the OAuth state
// session and the /api/v1 routes.
package router

import (
	"net/http"
	"time"

	"github.com/confcfp/cfp-server/internal/config"
	"github.com/confcfp/cfp-server/internal/constants"
	apierrors "github.com/confcfp/cfp-server/internal/errors"
	"github.com/confcfp/cfp-server/internal/handlers"
	"github.com/confcfp/cfp-server/internal/middleware"
	"github.com/confcfp/cfp-server/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Config          *config.Config
	Log             *zap.Logger
	SessionStore    sessions.Store
	AuthService     *services.AuthService
	ActivityService *services.ActivityService
	Permissions     middleware.PermissionLoader
}

// NewSessionStore returns a redis backed store when REDIS_HOST is set and a
// signed cookie store otherwise. It only ever holds the OAuth state.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.OAuthStateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	if addr := cfg.RedisAddr(); addr != "" {
		store, err := redisStore.NewStore(
			10,    // pool size
			"tcp", // network type
			addr,
			"", // username
			"", // password
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store.Options(options)
		return store, nil
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(options)
	return store, nil
}

// New builds the HTTP engine.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Log

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
			apierrors.InternalError(c, "")
			c.Abort()
		}),
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.ClientURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.RequestIDHeader},
			ExposeHeaders:    []string{constants.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	authHandler := handlers.NewAuthHandler(deps.AuthService, cfg.ClientURL, cfg.IsProduction(), log)
	activityHandler := handlers.NewActivityHandler(deps.ActivityService)

	requireAuth := middleware.RequireAuth(deps.AuthService)
	canManage := middleware.RequirePermission(deps.Permissions, log, constants.PermissionActivityManage)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.Use(sessions.Sessions(constants.OAuthSessionName, deps.SessionStore))
		{
			auth.GET("/github", authHandler.GitHubLogin)
			auth.GET("/github/callback", authHandler.GitHubCallback)
			auth.GET("/me", requireAuth, authHandler.GetCurrentMember)
			auth.POST("/logout", authHandler.Logout)
		}

		// Public lookup used by the CFP site
		api.GET("/activities/slug/:slug", activityHandler.GetActivityBySlug)

		activities := api.Group("/activities")
		activities.Use(requireAuth, canManage)
		{
			activities.POST("", activityHandler.CreateActivity)
			activities.GET("", activityHandler.ListActivities)
			activities.GET("/:id", middleware.RequireUUIDParam("id"), activityHandler.GetActivity)
		}
	}

	return r
}
