package routes

import (
	"adcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupProjectRoutes sets up all routes related to project management
func SetupProjectRoutes(r *gin.Engine) {
	projects := r.Group("/projects")
	{
		projects.GET("", handlers.ListProjects)
		projects.GET("/:id", handlers.GetProject)
		projects.POST("", handlers.CreateProject)
		projects.PUT("/:id", handlers.UpdateProject)
		projects.DELETE("/:id", handlers.DeleteProject)
	}

	// 项目渠道绑定
	projectChannels := r.Group("/project-channels")
	{
		projectChannels.GET("/:project_id", handlers.ListProjectChannels)
		projectChannels.POST("", handlers.AttachChannelToProject)
		projectChannels.DELETE("", handlers.DetachChannelFromProject)
	}
}
