package handlers

import (
	"errors"
	"net/http"

	"adcontrol/internal/handlers/business"
	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// MonthlyReportRequest 月度报表生成请求
type MonthlyReportRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// GenerateMonthlyReport aggregates the month into the performance tables
func GenerateMonthlyReport(c *gin.Context) {
	var request MonthlyReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := business.GenerateMonthlyReport(dbconfig.DB, request.Year, request.Month)
	if err != nil {
		if errors.Is(err, business.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMonthlyReport returns the stored performance rows for a month
func GetMonthlyReport(c *gin.Context) {
	year, month, ok := ParseYearMonth(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month query parameters are required"})
		return
	}

	var projects []models.MonthlyProjectPerformance
	if err := dbconfig.DB.Where("year = ? AND month = ?", year, month).
		Order("project_id").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var operators []models.MonthlyOperatorPerformance
	if err := dbconfig.DB.Where("year = ? AND month = ?", year, month).
		Order("operator_id").Find(&operators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":                 year,
		"month":                month,
		"project_performance":  projects,
		"operator_performance": operators,
	})
}

// GetDiagnosticReport returns the monthly business diagnosis.
// format=text 返回可直接粘贴的纯文本，默认返回 JSON
func GetDiagnosticReport(c *gin.Context) {
	year, month, ok := ParseYearMonth(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month query parameters are required"})
		return
	}

	report, err := business.GenerateDiagnosticReport(dbconfig.DB, year, month)
	if err != nil {
		if errors.Is(err, business.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, business.FormatDiagnosticReport(report))
		return
	}
	c.JSON(http.StatusOK, report)
}
