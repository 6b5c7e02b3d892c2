package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/metrics"
	"github.com/harentsoaR/medicare-api/internal/middleware"
	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/utils"
)

// NewRouter wires middleware and every route onto a fresh gin engine.
func NewRouter(h *Handler, tokens *utils.JWTManager, corsOrigins []string) *gin.Engine {
	if err := middleware.RegisterValidators(); err != nil {
		h.Logger.Fatal("failed to register request validators", zap.Error(err))
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.Ginzap(h.Logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(h.Logger, true))
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	admin := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleDoctor, models.RoleAdmin)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens))
	{
		api.GET("/users/me", h.GetCurrentUser)
		api.PUT("/users/me", h.UpdateCurrentUser)
		api.GET("/users", admin, h.ListUsers)

		api.GET("/patients", staff, h.ListPatients)
		api.GET("/patients/:id", h.GetPatient)
		api.PUT("/patients/:id", h.UpdatePatient)
		api.DELETE("/patients/:id", admin, h.DeletePatient)

		api.POST("/doctors", admin, h.CreateDoctor)
		api.GET("/doctors", h.ListDoctors)
		api.GET("/doctors/featured", h.FeaturedDoctor)
		api.GET("/doctors/:id", h.GetDoctor)
		api.GET("/doctors/:id/feedback", h.DoctorFeedback)
		api.PUT("/doctors/:id", h.UpdateDoctor)
		api.DELETE("/doctors/:id", admin, h.DeactivateDoctor)

		api.POST("/appointments", h.CreateAppointment)
		api.GET("/appointments", h.GetAppointments)
		api.GET("/appointments/:id", h.GetAppointment)
		api.PATCH("/appointments/:id/status", staff, h.UpdateAppointmentStatus)
		api.PATCH("/appointments/:id/cancel", h.CancelAppointment)
		api.PUT("/appointments/:id/reschedule", h.RescheduleAppointment)

		api.POST("/bills/preview", h.PreviewBill)
		api.POST("/bills", admin, h.CreateBill)
		api.GET("/bills", h.ListBills)
		api.GET("/bills/:id", h.GetBill)
		api.POST("/bills/:id/pay", h.PayBill)
		api.PATCH("/bills/:id/cancel", admin, h.CancelBill)

		api.GET("/notifications", h.ListNotifications)
		api.GET("/notifications/unread-count", h.UnreadNotificationCount)
		api.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
		api.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		api.POST("/notifications", admin, h.BroadcastNotification)

		tele := api.Group("/telehealth/sessions")
		tele.POST("", staff, h.CreateTelehealthSession)
		tele.GET("", h.ListTelehealthSessions)
		tele.GET("/:id", h.GetTelehealthSession())
		tele.POST("/:id/join", h.JoinTelehealthSession())
		tele.POST("/:id/leave", h.LeaveTelehealthSession())
		tele.POST("/:id/end", staff, h.EndTelehealthSession())

		api.GET("/activity", admin, h.ListActivity)
		api.GET("/activity/me", h.MyActivity)

		api.POST("/feedback", h.SubmitFeedback)
		api.GET("/feedback", admin, h.ListFeedback)

		api.POST("/engagement/events", h.TrackEngagement)
		api.GET("/engagement/summary", h.EngagementSummary)
	}

	return r
}
