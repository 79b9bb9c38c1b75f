package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/config"
	"github.com/kunal592/MD-BlogApp/internal/middleware"
	"github.com/kunal592/MD-BlogApp/internal/modules/search"
	"github.com/kunal592/MD-BlogApp/pkg/database"
	"github.com/kunal592/MD-BlogApp/pkg/identity"
	"github.com/kunal592/MD-BlogApp/pkg/ratelimiter"
	"github.com/kunal592/MD-BlogApp/pkg/response"
	"github.com/kunal592/MD-BlogApp/pkg/storage"
	"github.com/kunal592/MD-BlogApp/pkg/summarizer"

	adminHttp "github.com/kunal592/MD-BlogApp/internal/modules/admin/delivery/http"
	adminService "github.com/kunal592/MD-BlogApp/internal/modules/admin/service"

	blogHttp "github.com/kunal592/MD-BlogApp/internal/modules/blog/delivery/http"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	blogService "github.com/kunal592/MD-BlogApp/internal/modules/blog/service"

	commentHttp "github.com/kunal592/MD-BlogApp/internal/modules/comment/delivery/http"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	commentService "github.com/kunal592/MD-BlogApp/internal/modules/comment/service"

	contactHttp "github.com/kunal592/MD-BlogApp/internal/modules/contact/delivery/http"
	contactRepo "github.com/kunal592/MD-BlogApp/internal/modules/contact/repository"
	contactService "github.com/kunal592/MD-BlogApp/internal/modules/contact/service"

	feedHttp "github.com/kunal592/MD-BlogApp/internal/modules/feed/delivery/http"
	feedService "github.com/kunal592/MD-BlogApp/internal/modules/feed/service"

	interactionHttp "github.com/kunal592/MD-BlogApp/internal/modules/interaction/delivery/http"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	interactionService "github.com/kunal592/MD-BlogApp/internal/modules/interaction/service"

	mediaHttp "github.com/kunal592/MD-BlogApp/internal/modules/media/delivery/http"
	mediaService "github.com/kunal592/MD-BlogApp/internal/modules/media/service"

	notiHttp "github.com/kunal592/MD-BlogApp/internal/modules/notification/delivery/http"
	notifRepo "github.com/kunal592/MD-BlogApp/internal/modules/notification/repository"
	notifService "github.com/kunal592/MD-BlogApp/internal/modules/notification/service"

	reportHttp "github.com/kunal592/MD-BlogApp/internal/modules/report/delivery/http"
	reportRepo "github.com/kunal592/MD-BlogApp/internal/modules/report/repository"
	reportService "github.com/kunal592/MD-BlogApp/internal/modules/report/service"

	userHttp "github.com/kunal592/MD-BlogApp/internal/modules/user/delivery/http"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	userService "github.com/kunal592/MD-BlogApp/internal/modules/user/service"
)

// Deps carries the infrastructure built in main. Redis, Indexer, Storage,
// Summarizer and OAuth may be nil; the features behind them degrade.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Indexer    search.BlogIndexer
	Storage    storage.ImageStorage
	Summarizer *summarizer.Summarizer
	Verifier   identity.Verifier
	OAuth      *identity.OAuthFlow
	Tokens     *identity.TokenIssuer
}

type Server struct {
	engine *gin.Engine

	mu         sync.Mutex
	httpServer *http.Server
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	db := deps.DB

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := ratelimiter.New(deps.Redis, cfg.RateLimitGlobal, map[string]time.Duration{
		ratelimiter.ScopeBlog:    cfg.RateLimitBlog,
		ratelimiter.ScopeComment: cfg.RateLimitComment,
		ratelimiter.ScopeReport:  cfg.RateLimitReport,
	})
	transactor := database.NewTransactor(db)

	userRepository := userRepo.NewUserRepository(db)
	blogRepository := blogRepo.NewBlogRepository(db)
	commentRepository := commentRepo.NewCommentRepository(db)
	interactionRepository := interactionRepo.NewInteractionRepository(db)
	reportRepository := reportRepo.NewReportRepository(db)
	contactRepository := contactRepo.NewContactRepository(db)

	// Notification Module
	notificationSvc := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), deps.Redis)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, deps.Redis, cfg.AllowedOrigins)

	interactionSvc := interactionService.NewInteractionService(
		interactionRepository, blogRepository, userRepository, commentRepository, transactor, notificationSvc,
	)
	interactionHandler := interactionHttp.NewInteractionHandler(interactionSvc)

	blogSvc := blogService.NewBlogService(
		blogRepository, interactionRepository, deps.Summarizer, deps.Indexer, deps.Storage, limiter,
	)
	blogHandler := blogHttp.NewBlogHandler(blogSvc)

	commentSvc := commentService.NewCommentService(
		commentRepository, blogRepository, userRepository, interactionRepository,
		interactionSvc, notificationSvc, transactor, limiter,
	)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	feedHandler := feedHttp.NewFeedHandler(feedService.NewFeedService(blogRepository, interactionRepository))

	authSvc := userService.NewAuthService(userRepository, deps.Verifier, deps.OAuth, deps.Tokens)
	profileSvc := userService.NewProfileService(userRepository, blogRepository, interactionRepository, deps.Storage)
	userHandler := userHttp.NewUserHandler(authSvc, profileSvc, cfg.FrontendURL, !cfg.IsDevelopment())

	reportHandler := reportHttp.NewReportHandler(reportService.NewReportService(reportRepository, limiter))
	contactHandler := contactHttp.NewContactHandler(contactService.NewContactService(contactRepository))
	mediaHandler := mediaHttp.NewMediaHandler(mediaService.NewMediaService(deps.Storage))

	adminSvc := adminService.NewAdminService(
		userRepository, blogRepository, commentRepository, interactionRepository,
		reportRepository, contactRepository, blogSvc, profileSvc, deps.Indexer,
	)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.Fail(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(userRepository, deps.Tokens)
	requireAuth := authMiddleware.RequireAuth()
	optionalAuth := authMiddleware.OptionalAuth()

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/google", userHandler.GoogleSignIn)
		auth.GET("/google/login", userHandler.GoogleLogin)
		auth.GET("/google/callback", userHandler.GoogleCallback)
		auth.POST("/logout", userHandler.Logout)
		auth.GET("/me", requireAuth, userHandler.Me)
	}

	// Public reads, personalised when a token is present
	public := api.Group("")
	public.Use(optionalAuth)
	{
		public.GET("/blogs", blogHandler.ListBlogs)
		public.GET("/blogs/search", blogHandler.Search)
		public.GET("/search", blogHandler.Search)
		public.GET("/blogs/slug/:slug", blogHandler.GetBlogBySlug)
		public.GET("/blogs/slug/:slug/comments", commentHandler.GetComments)
		public.GET("/blogs/:id", blogHandler.GetBlog)
		public.GET("/blogs/:id/comments", commentHandler.GetComments)

		public.GET("/trending", feedHandler.GetTrending)
		public.GET("/tags", feedHandler.GetTags)

		public.GET("/users/:id", userHandler.GetPublicProfile)
		public.GET("/users/:id/followers", interactionHandler.GetFollowers)
		public.GET("/users/:id/following", interactionHandler.GetFollowing)

		public.POST("/contact", contactHandler.CreateContactRequest)
	}

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		// Blog routes
		protected.POST("/blogs", blogHandler.CreateBlog)
		protected.GET("/blogs/me", blogHandler.GetMyBlogs)
		protected.POST("/blogs/summarize", blogHandler.Summarize)
		protected.PUT("/blogs/:id", blogHandler.UpdateBlog)
		protected.DELETE("/blogs/:id", blogHandler.DeleteBlog)
		protected.PATCH("/blogs/:id/publish", blogHandler.PublishBlog)
		protected.PATCH("/blogs/:id/unpublish", blogHandler.UnpublishBlog)

		// Interaction routes
		protected.POST("/blogs/:id/like", interactionHandler.ToggleLike)
		protected.POST("/blogs/:id/bookmark", interactionHandler.ToggleBookmark)
		protected.GET("/blogs/:id/interactions", interactionHandler.GetState)
		protected.POST("/users/:id/follow", interactionHandler.Follow)
		protected.DELETE("/users/:id/follow", interactionHandler.Unfollow)
		protected.GET("/me/likes", interactionHandler.GetLikedBlogs)
		protected.GET("/me/bookmarks", interactionHandler.GetBookmarkedBlogs)

		// Comment routes
		protected.POST("/blogs/:id/comments", commentHandler.CreateComment)
		protected.POST("/blogs/slug/:slug/comments", commentHandler.CreateComment)
		protected.POST("/comments/:id/like", commentHandler.ToggleLike)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		protected.GET("/feed", feedHandler.GetFeed)

		// Profile routes
		protected.PUT("/users/profile", userHandler.UpdateProfile)
		protected.GET("/users/stats", userHandler.GetStats)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread", notificationHandler.GetUnread)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		protected.POST("/reports", reportHandler.CreateReport)
		protected.POST("/uploads", mediaHandler.UploadImage)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/moderation", adminHandler.GetModerationQueue)
			adminGroup.PATCH("/comments/:id", adminHandler.ModerateComment)
			adminGroup.GET("/blogs", adminHandler.ListBlogs)
			adminGroup.PATCH("/blogs/:id", adminHandler.UpdateBlog)
			adminGroup.DELETE("/blogs/:id", adminHandler.DeleteBlog)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.GET("/users/:id", adminHandler.GetUser)
			adminGroup.PATCH("/users/:id", adminHandler.UpdateUserRole)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.GET("/stats", adminHandler.GetStats)
			adminGroup.GET("/reports", reportHandler.ListReports)
			adminGroup.GET("/contacts", contactHandler.ListContactRequests)
			adminGroup.PATCH("/contacts/:id", contactHandler.ResolveContactRequest)
		}
	}

	return &Server{engine: router}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run(addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	log.Info().Str("addr", addr).Msg("http server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
