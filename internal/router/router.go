package router

import (
	"context"
	"net/http"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/handler"
	"github.com/campusdesk/erp-backend/internal/middleware"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Dashboard     *handler.DashboardHandler
	Course        *handler.CourseHandler
	Assignment    *handler.AssignmentHandler
	QuestionPaper *handler.QuestionPaperHandler
	Review        *handler.ReviewHandler
	Notification  *handler.NotificationHandler
	WS            *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work started for the router, such as rate limiter sweeps.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestContext(log))
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRatePerMinute, time.Minute)
	requireAuth := []gin.HandlerFunc{
		middleware.RequireJWT(authService),
		middleware.RejectRevokedTokens(authService),
	}

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", append(requireAuth, handlers.Auth.Me)...)
		auth.POST("/logout", append(requireAuth, handlers.Auth.Logout)...)
	}

	// ─── 2. WebSocket Group (Query Token) ──────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(authService),
		middleware.RejectRevokedTokens(authService),
	)
	{
		ws.GET("/notifications", handlers.WS.NotificationStream)
	}

	// ─── 3. Staff API (JWT + RBAC) ─────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(requireAuth...)

	readPapers := middleware.RequireAnyPermission(
		model.PermissionPapersWriteOwn,
		model.PermissionPapersReadAll,
		model.PermissionPapersReview,
	)
	writePapers := middleware.RequirePermission(model.PermissionPapersWriteOwn)
	reviewPapers := middleware.RequirePermission(model.PermissionPapersReview)

	{
		// Dashboard and inbox are open to every signed-in account.
		api.GET("/dashboard", handlers.Dashboard.GetDashboard)

		api.GET("/notifications", handlers.Notification.ListNotifications)
		api.GET("/notifications/unread-count", handlers.Notification.UnreadCount)
		api.POST("/notifications/read-all", handlers.Notification.MarkAllRead)
		api.POST("/notifications/:id/read", handlers.Notification.MarkRead)

		// Lookups
		api.GET("/regulations",
			middleware.RequirePermission(model.PermissionCoursesRead),
			middleware.PrivateCache(60),
			handlers.Course.ListRegulations,
		)
		api.GET("/courses",
			middleware.RequirePermission(model.PermissionCoursesRead),
			middleware.PrivateCache(60),
			handlers.Course.ListCourses,
		)
		api.POST("/courses",
			middleware.RequirePermission(model.PermissionCoursesWrite),
			handlers.Course.CreateCourse,
		)

		// Assignments
		api.GET("/assignments",
			middleware.RequireAnyPermission(model.PermissionAssignmentsRead, model.PermissionAssignmentsWrite),
			handlers.Assignment.ListAssignments,
		)
		api.POST("/assignments",
			middleware.RequirePermission(model.PermissionAssignmentsWrite),
			handlers.Assignment.CreateAssignment,
		)
		api.DELETE("/assignments/:id",
			middleware.RequirePermission(model.PermissionAssignmentsWrite),
			handlers.Assignment.DeleteAssignment,
		)

		// Question papers
		api.GET("/papers", readPapers, handlers.QuestionPaper.ListPapers)
		api.POST("/papers", writePapers, handlers.QuestionPaper.CreatePaper)
		api.GET("/papers/:id", readPapers, handlers.QuestionPaper.GetPaper)
		api.PUT("/papers/:id", writePapers, handlers.QuestionPaper.UpdatePaper)
		api.DELETE("/papers/:id", writePapers, handlers.QuestionPaper.DeletePaper)

		api.POST("/papers/:id/questions", writePapers, handlers.QuestionPaper.AddQuestion)
		api.PUT("/papers/:id/questions/:question_id", writePapers, handlers.QuestionPaper.UpdateQuestion)
		api.DELETE("/papers/:id/questions/:question_id", writePapers, handlers.QuestionPaper.DeleteQuestion)

		api.GET("/papers/:id/distribution", readPapers, handlers.QuestionPaper.GetDistribution)
		api.GET("/papers/:id/distribution.xlsx", readPapers, middleware.NoStore(), handlers.QuestionPaper.ExportDistribution)
		api.GET("/papers/:id/document", readPapers, middleware.NoStore(), handlers.QuestionPaper.DownloadDocument)
		api.GET("/papers/:id/history", readPapers, handlers.QuestionPaper.GetHistory)

		api.POST("/papers/:id/submit", writePapers, handlers.QuestionPaper.SubmitPaper)
		api.POST("/papers/:id/reopen", writePapers, handlers.QuestionPaper.ReopenPaper)

		// Review
		api.GET("/reviews", reviewPapers, handlers.Review.ListQueue)
		api.POST("/papers/:id/claim", reviewPapers, handlers.Review.Claim)
		api.POST("/papers/:id/approve", reviewPapers, handlers.Review.Approve)
		api.POST("/papers/:id/reject", reviewPapers, handlers.Review.Reject)
	}

	return router
}
