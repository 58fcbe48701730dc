package handlers

import (
	"net/http"

	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SpendReportRequest represents the request body for submitting a daily spend report
type SpendReportRequest struct {
	SpendDate  string          `json:"spend_date" binding:"required"` // yyyy-mm-dd
	ProjectID  uint            `json:"project_id" binding:"required"`
	OperatorID uint            `json:"operator_id" binding:"required"`
	ChannelID  uint            `json:"channel_id" binding:"required"`
	Country    string          `json:"country"`
	Platform   string          `json:"platform"`
	AmountUSDT decimal.Decimal `json:"amount_usdt" binding:"required"`
	RawMemo    string          `json:"raw_memo"`
}

// CreateSpendReport creates a daily ad spend report in pending status
func CreateSpendReport(c *gin.Context) {
	var request SpendReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spendDate, err := ParseDate(request.SpendDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spend_date must be yyyy-mm-dd"})
		return
	}

	if !request.AmountUSDT.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_usdt must be positive"})
		return
	}

	// 三个外键都必须有效
	var project models.Project
	if err := dbconfig.DB.First(&project, request.ProjectID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id: Project not found"})
		return
	}
	var operator models.Operator
	if err := dbconfig.DB.First(&operator, request.OperatorID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operator_id: Operator not found"})
		return
	}
	var channel models.Channel
	if err := dbconfig.DB.First(&channel, request.ChannelID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel_id: Channel not found"})
		return
	}

	spend := models.AdSpendDaily{
		SpendDate:  spendDate,
		ProjectID:  request.ProjectID,
		OperatorID: request.OperatorID,
		ChannelID:  request.ChannelID,
		Country:    request.Country,
		Platform:   request.Platform,
		AmountUSDT: request.AmountUSDT,
		RawMemo:    request.RawMemo,
		Status:     "pending",
	}
	if err := dbconfig.DB.Create(&spend).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, spend)
}

// ListSpendReports returns paginated spend reports with optional filters
func ListSpendReports(c *gin.Context) {
	query := dbconfig.DB.Model(&models.AdSpendDaily{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if operatorID := c.Query("operator_id"); operatorID != "" {
		query = query.Where("operator_id = ?", operatorID)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if parsed, err := ParseDate(startDate); err == nil {
			query = query.Where("spend_date >= ?", parsed)
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if parsed, err := ParseDate(endDate); err == nil {
			query = query.Where("spend_date <= ?", parsed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page := ParsePage(c)
	pageSize := ParsePageSize(c)

	var reports []models.AdSpendDaily
	if err := query.Preload("Project").Preload("Operator").Preload("Channel").
		Order("spend_date desc, id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       reports,
		"pagination": BuildPagination(page, pageSize, total),
	})
}

// GetSpendReport returns a specific spend report by ID
func GetSpendReport(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var report models.AdSpendDaily
	if err := dbconfig.DB.Preload("Project").Preload("Operator").Preload("Channel").
		First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteSpendReport deletes a pending spend report.
// 已匹配的日报不允许删除，避免破坏对账结果
func DeleteSpendReport(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var report models.AdSpendDaily
	if err := dbconfig.DB.First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if report.Status == "matched" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a matched spend report"})
		return
	}

	if err := dbconfig.DB.Delete(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spend report deleted successfully"})
}
