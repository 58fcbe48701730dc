package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupChannelRoutes sets up all routes related to ad channel management
func SetupChannelRoutes(r *gin.Engine) {
	channels := r.Group("/channels")
	{
		channels.GET("", handlers.ListChannels)
		channels.GET("/:id", handlers.GetChannel)
		channels.POST("", handlers.CreateChannel)
		channels.PUT("/:id", handlers.UpdateChannel)
		channels.DELETE("/:id", handlers.DeleteChannel)
	}
}
