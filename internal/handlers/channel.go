package handlers

import (
	"net/http"

	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// ChannelRequest represents the request body for creating/updating a channel
type ChannelRequest struct {
	Name       *string  `json:"name"`
	Contact    *string  `json:"contact"`
	RebateRate *float64 `json:"rebate_rate"`
	Status     *string  `json:"status"`
	Note       *string  `json:"note"`
}

// ListChannels returns all channels
func ListChannels(c *gin.Context) {
	query := dbconfig.DB.Model(&models.Channel{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var channels []models.Channel
	if err := query.Order("id").Find(&channels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, channels)
}

// GetChannel returns a specific channel by ID
func GetChannel(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var channel models.Channel
	if err := dbconfig.DB.First(&channel, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, channel)
}

// CreateChannel creates a new channel
func CreateChannel(c *gin.Context) {
	var request ChannelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Name == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	channel := models.Channel{Name: *request.Name, Status: "active"}
	if request.Contact != nil {
		channel.Contact = *request.Contact
	}
	if request.RebateRate != nil {
		// 返点率范围 0-100
		if *request.RebateRate < 0 || *request.RebateRate > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rebate_rate must be between 0 and 100"})
			return
		}
		channel.RebateRate = *request.RebateRate
	}
	if request.Status != nil {
		channel.Status = *request.Status
	}
	if request.Note != nil {
		channel.Note = *request.Note
	}

	if err := dbconfig.DB.Create(&channel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, channel)
}

// UpdateChannel updates an existing channel
func UpdateChannel(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request ChannelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var channel models.Channel
	if err := dbconfig.DB.First(&channel, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	if request.Name != nil {
		channel.Name = *request.Name
	}
	if request.Contact != nil {
		channel.Contact = *request.Contact
	}
	if request.RebateRate != nil {
		if *request.RebateRate < 0 || *request.RebateRate > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rebate_rate must be between 0 and 100"})
			return
		}
		channel.RebateRate = *request.RebateRate
	}
	if request.Status != nil {
		channel.Status = *request.Status
	}
	if request.Note != nil {
		channel.Note = *request.Note
	}

	if err := dbconfig.DB.Save(&channel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, channel)
}

// DeleteChannel deletes a channel if no spend reports reference it
func DeleteChannel(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var spendCount int64
	if err := dbconfig.DB.Model(&models.AdSpendDaily{}).Where("channel_id = ?", id).Count(&spendCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check spend dependencies"})
		return
	}
	if spendCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Cannot delete channel: there are spend reports depending on this channel",
			"spend_count": spendCount,
		})
		return
	}

	if err := dbconfig.DB.Delete(&models.Channel{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Channel deleted successfully"})
}

// ProjectChannelRequest 项目渠道绑定请求
type ProjectChannelRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
	ChannelID uint `json:"channel_id" binding:"required"`
}

// AttachChannelToProject binds a channel to a project
func AttachChannelToProject(c *gin.Context) {
	var request ProjectChannelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var project models.Project
	if err := dbconfig.DB.First(&project, request.ProjectID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id: Project not found"})
		return
	}
	var channel models.Channel
	if err := dbconfig.DB.First(&channel, request.ChannelID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel_id: Channel not found"})
		return
	}

	// 同一组合只允许绑定一次
	var existing models.ProjectChannel
	if err := dbconfig.DB.Where("project_id = ? AND channel_id = ?", request.ProjectID, request.ChannelID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Channel already attached to this project"})
		return
	}

	link := models.ProjectChannel{ProjectID: request.ProjectID, ChannelID: request.ChannelID}
	if err := dbconfig.DB.Create(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, link)
}

// ListProjectChannels returns the channels attached to a project
func ListProjectChannels(c *gin.Context) {
	projectID, ok := ParseIDParam(c, "project_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id format"})
		return
	}

	var links []models.ProjectChannel
	if err := dbconfig.DB.Where("project_id = ?", projectID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	channelIDs := make([]uint, 0, len(links))
	for _, link := range links {
		channelIDs = append(channelIDs, link.ChannelID)
	}

	var channels []models.Channel
	if len(channelIDs) > 0 {
		if err := dbconfig.DB.Where("id IN ?", channelIDs).Find(&channels).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"project_id": projectID,
		"channels":   channels,
	})
}

// DetachChannelFromProject removes a project-channel binding
func DetachChannelFromProject(c *gin.Context) {
	var request ProjectChannelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := dbconfig.DB.Where("project_id = ? AND channel_id = ?", request.ProjectID, request.ChannelID).
		Delete(&models.ProjectChannel{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Binding not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Channel detached successfully"})
}
