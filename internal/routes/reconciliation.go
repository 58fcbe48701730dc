package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupReconciliationRoutes sets up all routes related to spend/ledger reconciliation
func SetupReconciliationRoutes(r *gin.Engine) {
	recon := r.Group("/reconciliation")
	{
		recon.POST("/run", handlers.RunReconciliation)
		recon.GET("", handlers.ListReconciliations)
		recon.GET("/:id", handlers.GetReconciliation)
		recon.PATCH("/:id/status", handlers.UpdateReconciliationStatus)
	}
}
