package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSpendReportRoutes sets up all routes related to daily ad spend reports
func SetupSpendReportRoutes(r *gin.Engine) {
	spends := r.Group("/spend-reports")
	{
		spends.GET("", handlers.ListSpendReports)
		spends.GET("/:id", handlers.GetSpendReport)
		spends.POST("", handlers.CreateSpendReport)
		spends.DELETE("/:id", handlers.DeleteSpendReport)
	}
}
