package handlers

import (
	"errors"
	"net/http"

	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectRequest represents the request body for creating/updating a project
type ProjectRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// ListProjects returns all projects, optionally filtered by status
func ListProjects(c *gin.Context) {
	query := dbconfig.DB.Model(&models.Project{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Order("id").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject returns a specific project by ID
func GetProject(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var project models.Project
	if err := dbconfig.DB.First(&project, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject creates a new project
func CreateProject(c *gin.Context) {
	var request ProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 验证必填字段
	if request.Name == nil || request.Code == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}

	// code 全局唯一
	var existing models.Project
	if err := dbconfig.DB.Where("code = ?", *request.Code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Project code already exists"})
		return
	}

	status := "active"
	if request.Status != nil {
		if *request.Status != "active" && *request.Status != "inactive" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
			return
		}
		status = *request.Status
	}

	description := ""
	if request.Description != nil {
		description = *request.Description
	}

	project := models.Project{
		Name:        *request.Name,
		Code:        *request.Code,
		Status:      status,
		Description: description,
	}
	if err := dbconfig.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

// UpdateProject updates an existing project, all fields optional
func UpdateProject(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request ProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var project models.Project
	if err := dbconfig.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if request.Code != nil && *request.Code != project.Code {
		var existing models.Project
		if err := dbconfig.DB.Where("code = ?", *request.Code).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Project code already exists"})
			return
		}
		project.Code = *request.Code
	}
	if request.Name != nil {
		project.Name = *request.Name
	}
	if request.Status != nil {
		if *request.Status != "active" && *request.Status != "inactive" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
			return
		}
		project.Status = *request.Status
	}
	if request.Description != nil {
		project.Description = *request.Description
	}

	if err := dbconfig.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project if nothing depends on it
func DeleteProject(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	// 有日报或财务记录关联时不允许删除
	var spendCount int64
	if err := dbconfig.DB.Model(&models.AdSpendDaily{}).Where("project_id = ?", id).Count(&spendCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check spend dependencies"})
		return
	}
	if spendCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Cannot delete project: there are spend reports depending on this project",
			"spend_count": spendCount,
		})
		return
	}

	var ledgerCount int64
	if err := dbconfig.DB.Model(&models.LedgerTransaction{}).Where("project_id = ?", id).Count(&ledgerCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check ledger dependencies"})
		return
	}
	if ledgerCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Cannot delete project: there are ledger transactions depending on this project",
			"ledger_count": ledgerCount,
		})
		return
	}

	if err := dbconfig.DB.Delete(&models.Project{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
