package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAnalyticsRoutes sets up all routes related to monthly reports and diagnosis
func SetupAnalyticsRoutes(r *gin.Engine) {
	reports := r.Group("/reports")
	{
		reports.POST("/monthly", handlers.GenerateMonthlyReport)
		reports.GET("/monthly", handlers.GetMonthlyReport)
		reports.GET("/diagnostic", handlers.GetDiagnosticReport)
	}
}
