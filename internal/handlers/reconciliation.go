package handlers

import (
	"net/http"
	"sync"
	"time"

	"adcontrol/internal/handlers/business"
	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ReconcileEventsQueue 对账完成事件队列名
const ReconcileEventsQueue = "reconcile_events"

// 同一时间只允许一个对账任务执行
var reconcileMu sync.Mutex

// ReconcileEvent is published to RabbitMQ after a reconciliation run finishes.
type ReconcileEvent struct {
	MatchedCount   int    `json:"matched_count"`
	UnmatchedCount int    `json:"unmatched_count"`
	TotalProcessed int    `json:"total_processed"`
	FinishedAt     string `json:"finished_at"`
}

// RunReconciliation triggers a reconciliation run over pending spend reports
func RunReconciliation(c *gin.Context) {
	if !reconcileMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "A reconciliation run is already in progress"})
		return
	}
	defer reconcileMu.Unlock()

	result, err := business.RunReconciliation(dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 对账完成后异步广播事件，RabbitMQ 未初始化时跳过
	if dbconfig.RabbitMQ != nil {
		event := ReconcileEvent{
			MatchedCount:   result.MatchedCount,
			UnmatchedCount: result.UnmatchedCount,
			TotalProcessed: result.TotalProcessed,
			FinishedAt:     time.Now().Format("2006-01-02 15:04:05"),
		}
		go func() {
			publisher, err := dbconfig.NewPublisher()
			if err != nil {
				log.Errorf("Failed to create RabbitMQ publisher: %v", err)
				return
			}
			defer publisher.Close()

			if err := publisher.Publish(ReconcileEventsQueue, event); err != nil {
				log.Errorf("Failed to publish reconcile event: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, result)
}

// ListReconciliations returns paginated reconciliation records with joins
func ListReconciliations(c *gin.Context) {
	query := dbconfig.DB.Model(&models.Reconciliation{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page := ParsePage(c)
	pageSize := ParsePageSize(c)

	var records []models.Reconciliation
	if err := query.
		Preload("AdSpend").Preload("AdSpend.Project").Preload("AdSpend.Operator").
		Preload("Ledger").
		Order("id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       records,
		"pagination": BuildPagination(page, pageSize, total),
	})
}

// GetReconciliation returns a specific reconciliation record by ID
func GetReconciliation(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var record models.Reconciliation
	if err := dbconfig.DB.
		Preload("AdSpend").Preload("AdSpend.Project").Preload("AdSpend.Operator").
		Preload("Ledger").
		First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// ReconciliationStatusRequest 人工复核请求
type ReconciliationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=matched need_review rejected"`
	Reason string `json:"reason"`
}

// UpdateReconciliationStatus lets a reviewer confirm or reject a pairing.
// 确认为 matched 时同步更新日报状态；驳回时日报回到 pending 等待下轮对账
func UpdateReconciliationStatus(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request ReconciliationStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record models.Reconciliation
	if err := dbconfig.DB.First(&record, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	record.Status = request.Status
	if request.Reason != "" {
		record.Reason = request.Reason
	}
	if err := dbconfig.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	spendStatus := ""
	switch request.Status {
	case "matched":
		spendStatus = "matched"
		if err := dbconfig.DB.Model(&models.LedgerTransaction{}).Where("id = ?", record.LedgerID).
			Update("status", "matched").Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	case "rejected":
		spendStatus = "pending"
	}
	if spendStatus != "" {
		if err := dbconfig.DB.Model(&models.AdSpendDaily{}).Where("id = ?", record.AdSpendID).
			Update("status", spendStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, record)
}
