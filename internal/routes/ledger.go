package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupLedgerRoutes sets up all routes related to finance ledger entries
func SetupLedgerRoutes(r *gin.Engine) {
	ledgers := r.Group("/ledger-transactions")
	{
		ledgers.GET("", handlers.ListLedgerTransactions)
		ledgers.GET("/:id", handlers.GetLedgerTransaction)
		ledgers.POST("", handlers.CreateLedgerTransaction)
		ledgers.DELETE("/:id", handlers.DeleteLedgerTransaction)
	}
}
