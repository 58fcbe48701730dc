package handlers

import (
	"net/http"

	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LedgerTransactionRequest represents the request body for recording a ledger transaction
type LedgerTransactionRequest struct {
	TxDate      string           `json:"tx_date" binding:"required"` // yyyy-mm-dd
	Direction   string           `json:"direction" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal  `json:"amount" binding:"required"`
	Currency    string           `json:"currency"`
	Account     string           `json:"account"`
	Description string           `json:"description"`
	FeeAmount   *decimal.Decimal `json:"fee_amount"`
	ProjectID   *uint            `json:"project_id"`
	OperatorID  *uint            `json:"operator_id"`
}

// CreateLedgerTransaction records a finance ledger entry
func CreateLedgerTransaction(c *gin.Context) {
	var request LedgerTransactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txDate, err := ParseDate(request.TxDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_date must be yyyy-mm-dd"})
		return
	}

	if !request.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	// 项目和投手均可为空，不为空时必须存在
	if request.ProjectID != nil {
		var project models.Project
		if err := dbconfig.DB.First(&project, *request.ProjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id: Project not found"})
			return
		}
	}
	if request.OperatorID != nil {
		var operator models.Operator
		if err := dbconfig.DB.First(&operator, *request.OperatorID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operator_id: Operator not found"})
			return
		}
	}

	currency := "USDT"
	if request.Currency != "" {
		currency = request.Currency
	}
	feeAmount := decimal.Zero
	if request.FeeAmount != nil {
		if request.FeeAmount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fee_amount cannot be negative"})
			return
		}
		feeAmount = *request.FeeAmount
	}

	tx := models.LedgerTransaction{
		TxDate:      txDate,
		Direction:   request.Direction,
		Amount:      request.Amount,
		Currency:    currency,
		Account:     request.Account,
		Description: request.Description,
		FeeAmount:   feeAmount,
		ProjectID:   request.ProjectID,
		OperatorID:  request.OperatorID,
		Status:      "pending",
	}
	if err := dbconfig.DB.Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// ListLedgerTransactions returns paginated ledger entries with optional filters
func ListLedgerTransactions(c *gin.Context) {
	query := dbconfig.DB.Model(&models.LedgerTransaction{})

	if direction := c.Query("direction"); direction != "" {
		query = query.Where("direction = ?", direction)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if currency := c.Query("currency"); currency != "" {
		query = query.Where("currency = ?", currency)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if parsed, err := ParseDate(startDate); err == nil {
			query = query.Where("tx_date >= ?", parsed)
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if parsed, err := ParseDate(endDate); err == nil {
			query = query.Where("tx_date <= ?", parsed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page := ParsePage(c)
	pageSize := ParsePageSize(c)

	var transactions []models.LedgerTransaction
	if err := query.Preload("Project").Preload("Operator").
		Order("tx_date desc, id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       transactions,
		"pagination": BuildPagination(page, pageSize, total),
	})
}

// GetLedgerTransaction returns a specific ledger entry by ID
func GetLedgerTransaction(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var tx models.LedgerTransaction
	if err := dbconfig.DB.Preload("Project").Preload("Operator").First(&tx, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteLedgerTransaction deletes an unmatched ledger entry
func DeleteLedgerTransaction(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var tx models.LedgerTransaction
	if err := dbconfig.DB.First(&tx, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if tx.Status == "matched" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a matched ledger transaction"})
		return
	}

	if err := dbconfig.DB.Delete(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ledger transaction deleted successfully"})
}
