package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seyi/unimark/internal/app/controllers"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	sessionController *controllers.SessionController,
	attendanceController *controllers.AttendanceController,
	authMiddleware *middleware.AuthMiddleware,
	scanLimiter *middleware.RateLimiter,
	cronSecret string,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Internal maintenance routes ---
	internal := v1.Group("/internal")
	internal.Use(middleware.CronSecretRequired(cronSecret))
	{
		internal.POST("/sessions/close-expired", sessionController.CloseExpired)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Lecturer routes
	sessions := authenticated.Group("/sessions")
	sessions.Use(authMiddleware.RoleRequired(string(models.RoleLecturer)))
	{
		sessions.POST("", sessionController.Open)
		sessions.GET("", sessionController.List)
		sessions.PATCH("/:id/close", sessionController.Close)
		sessions.GET("/:id/count", sessionController.LiveCount)
		sessions.GET("/:id/qr", sessionController.QRImage)
		sessions.GET("/:id/report", sessionController.Report)
		sessions.GET("/:id/export/csv", sessionController.ExportCSV)
		sessions.GET("/:id/export/pdf", sessionController.ExportPDF)
	}

	// Student routes
	students := authenticated.Group("")
	students.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
	{
		students.POST("/attendance/mark", scanLimiter.GinMiddleware(), attendanceController.Mark)
		students.GET("/students/me/stats", attendanceController.Stats)
		students.GET("/students/me/history", attendanceController.History)
	}
}
