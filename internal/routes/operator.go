package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupOperatorRoutes sets up all routes related to operator and salary management
func SetupOperatorRoutes(r *gin.Engine) {
	operators := r.Group("/operators")
	{
		operators.GET("", handlers.ListOperators)
		operators.GET("/:id", handlers.GetOperator)
		operators.POST("", handlers.CreateOperator)
		operators.PUT("/:id", handlers.UpdateOperator)
		operators.DELETE("/:id", handlers.DeleteOperator)
	}

	salaries := r.Group("/operator-salaries")
	{
		salaries.GET("", handlers.ListOperatorSalaries)
		salaries.POST("", handlers.CreateOperatorSalary)
	}
}
