package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/storage"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	consultationHandler *ConsultationHandler
	chatHandler         *ChatHandler
	householdHandler    *HouseholdHandler
	dashboardHandler    *DashboardHandler
	reportHandler       *ReportHandler
	fileHandler         *FileHandler
	authMiddleware      *SessionAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *auth.SessionManager,
	files storage.FileStore,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), sessions, logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		consultationHandler: NewConsultationHandler(serviceManager.Consultation(), logger),
		chatHandler:         NewChatHandler(serviceManager.Chat(), logger),
		householdHandler:    NewHouseholdHandler(serviceManager.Household(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		reportHandler:       NewReportHandler(serviceManager.Report(), logger),
		fileHandler:         NewFileHandler(files, logger),
		authMiddleware:      NewSessionAuthMiddleware(sessions),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public auth surface
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.POST("/logout", hm.authHandler.Logout)
	}

	// Everything below requires a valid session
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Profile
		v1.GET("/me", hm.authHandler.GetProfile)
		v1.PUT("/me/photo", hm.authHandler.UpdateProfilePhoto)

		// Doctor directory - feeds chat initiation
		v1.GET("/doctors", hm.userHandler.ListDoctors)
		v1.GET("/users/:id", hm.userHandler.GetUser)

		// Stored uploads
		v1.GET("/files/:name", hm.fileHandler.Download)

		// Consultations
		consultations := v1.Group("/consultations")
		{
			consultations.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RolePatient), hm.consultationHandler.Submit)
			consultations.GET("/mine", hm.authMiddleware.RequireRoleMiddleware(models.RolePatient), hm.consultationHandler.ListMine)

			consultations.GET("/pending", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor), hm.consultationHandler.ListPending)
			consultations.GET("/assigned", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor), hm.consultationHandler.ListAssigned)
			consultations.POST("/:id/claim", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor), hm.consultationHandler.Claim)
			consultations.POST("/:id/respond", hm.authMiddleware.RequireRoleMiddleware(models.RoleDoctor), hm.consultationHandler.Respond)

			// Visible to the patient, the assigned doctor, or an admin
			consultations.GET("/:id", hm.consultationHandler.Get)
		}

		// Chat - patients and doctors only
		chat := v1.Group("/chat")
		chat.Use(hm.authMiddleware.RequireRoleMiddleware(models.RolePatient, models.RoleDoctor))
		{
			chat.POST("/threads", hm.chatHandler.OpenThread)
			chat.GET("/threads", hm.chatHandler.ListThreads)
			chat.GET("/threads/:id/messages", hm.chatHandler.ListMessages)
			chat.POST("/threads/:id/messages", hm.chatHandler.SendMessage)
		}

		// Household and MCH registry - ASHA workers only
		asha := v1.Group("/asha")
		asha.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAsha))
		{
			asha.POST("/households", hm.householdHandler.Create)
			asha.GET("/households", hm.householdHandler.List)
			asha.GET("/households/:id", hm.householdHandler.Get)
			asha.PUT("/households/:id", hm.householdHandler.Update)
			asha.DELETE("/households/:id", hm.householdHandler.Delete)
			asha.POST("/households/:id/verify", hm.householdHandler.Verify)

			asha.POST("/mch-records", hm.householdHandler.CreateRecord)
			asha.GET("/mch-records", hm.householdHandler.ListRecords)
			asha.GET("/mch-records/:id", hm.householdHandler.GetRecord)
			asha.GET("/mch-records/summary", hm.householdHandler.RecordSummary)

			asha.GET("/reports/households", hm.reportHandler.HouseholdRegister)
			asha.GET("/reports/mch-records", hm.reportHandler.MCHRegister)
		}

		// Admin dashboard
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/stats", hm.dashboardHandler.GetAdminStats)
			admin.GET("/reports/overview", hm.reportHandler.AdminOverview)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "telehealth-service",
		})
	})
}
