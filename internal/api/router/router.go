package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"natesa/backend/config"
	"natesa/backend/internal/api/handler"
	"natesa/backend/internal/api/middleware"
	"natesa/backend/internal/model"
	"natesa/backend/pkg/jwt"
	"natesa/backend/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil when Redis is disabled.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// the interfaces must stay nil, not a typed nil client
	var (
		blacklist middleware.Blacklist
		limiter   middleware.WindowLimiter
	)
	if rdb != nil {
		blacklist, limiter = rdb, rdb
	}

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	deps := routeDeps{
		h:         h,
		auth:      middleware.JWTAuth(jwtMgr, blacklist),
		optional:  middleware.OptionalAuth(jwtMgr, blacklist),
		loginRate: middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, logger),
	}

	// legacy root paths and the versioned API serve the same routes
	register(r.Group(""), deps)
	register(r.Group("/api/v1"), deps)

	return r
}

type routeDeps struct {
	h         *handler.Handler
	auth      gin.HandlerFunc
	optional  gin.HandlerFunc
	loginRate gin.HandlerFunc
}

func register(g *gin.RouterGroup, d routeDeps) {
	h := d.h
	officers := middleware.RoleAuth(model.RoleAdmin, model.RoleNEC, model.RoleBEC)

	// ── auth ──
	g.POST("/login", d.loginRate, h.Auth.Login)
	g.POST("/auth/login", d.loginRate, h.Auth.Login)
	g.POST("/auth/refresh", d.loginRate, h.Auth.RefreshToken)
	g.POST("/auth/logout", d.auth, h.Auth.Logout)
	g.GET("/auth/me", d.auth, h.Auth.GetCurrentUser)

	// ── users ──
	g.POST("/create_user", d.optional, h.User.CreateUser)
	users := g.Group("/users", d.auth)
	{
		users.GET("", officers, h.User.ListUsers)
		users.GET("/export", officers, h.Export.ExportUsers)
		users.GET("/:id", h.User.GetUser)
		users.PATCH("/:id", h.User.UpdateUser)
		users.PUT("/:id", h.User.UpdateUser)
		users.DELETE("/:id", h.User.DeleteUser)
	}
	g.PUT("/update_user/:id", d.auth, h.User.UpdateUser)
	g.PATCH("/update_user/:id", d.auth, h.User.UpdateUser)
	g.DELETE("/delete_user/:id", d.auth, h.User.DeleteUser)

	// ── branches ──
	g.GET("/branches", d.optional, h.Branch.ListBranches)
	g.GET("/branches/:id", d.optional, h.Branch.GetBranch)
	g.POST("/branches/:id/recount", d.auth, h.Branch.RecountBranch)
	g.POST("/create_branch", d.auth, h.Branch.CreateBranch)
	g.PUT("/update_branch/:id", d.auth, h.Branch.UpdateBranch)
	g.PATCH("/update_branch/:id", d.auth, h.Branch.UpdateBranch)
	g.DELETE("/delete_branch/:id", d.auth, h.Branch.DeleteBranch)

	// ── alumni ──
	g.GET("/alumni", d.auth, h.Alumni.ListAlumni)
	g.GET("/alumni/:id", d.auth, h.Alumni.GetAlumni)
	g.POST("/create_alumni", d.auth, h.Alumni.CreateAlumni)
	g.PUT("/update_alumni/:id", d.auth, h.Alumni.UpdateAlumni)
	g.PATCH("/update_alumni/:id", d.auth, h.Alumni.UpdateAlumni)
	g.DELETE("/delete_alumni/:id", d.auth, h.Alumni.DeleteAlumni)

	// ── events ──
	g.GET("/events", d.optional, h.Event.ListEvents)
	g.GET("/events/calendar.ics", d.optional, h.Event.Calendar)
	g.GET("/events/:id", d.optional, h.Event.GetEvent)
	g.POST("/create_event", d.auth, h.Event.CreateEvent)
	g.PUT("/update_event/:id", d.auth, h.Event.UpdateEvent)
	g.PATCH("/update_event/:id", d.auth, h.Event.UpdateEvent)
	g.DELETE("/delete_event/:id", d.auth, h.Event.DeleteEvent)

	// ── news ──
	g.GET("/news", d.optional, h.News.ListNews)
	g.GET("/news/branch/:id", d.optional, h.News.ListBranchNews)
	g.GET("/news/:id", d.optional, h.News.GetNews)
	g.POST("/create_news", d.auth, h.News.CreateNews)
	g.PUT("/update_news/:id", d.auth, h.News.UpdateNews)
	g.PATCH("/update_news/:id", d.auth, h.News.UpdateNews)
	g.DELETE("/delete_news/:id", d.auth, h.News.DeleteNews)
}
