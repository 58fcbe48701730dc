package main

import (
	"encoding/json"
	"os"
	"time"

	"adcontrol/internal/handlers/business"
	"adcontrol/pkg/config"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

// ReconcileJobsQueue 手动触发的后台任务队列
const ReconcileJobsQueue = "reconcile_jobs"

// jobMessage 队列消息格式
type jobMessage struct {
	Action string `json:"action"` // "reconcile" or "monthly_report"
	Year   int    `json:"year,omitempty"`
	Month  int    `json:"month,omitempty"`
}

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize database
	config.InitDB()

	// 定时任务：每天凌晨2点对账，每月1号凌晨3点生成上个月报表
	c := cron.New()
	if _, err := c.AddFunc("0 2 * * *", runReconciliation); err != nil {
		logrus.Fatal("Failed to schedule reconciliation job: ", err)
	}
	if _, err := c.AddFunc("0 3 1 * *", runPreviousMonthReport); err != nil {
		logrus.Fatal("Failed to schedule monthly report job: ", err)
	}
	c.Start()
	defer c.Stop()

	logrus.Info("Worker started, cron jobs scheduled")

	// RabbitMQ 未配置时只跑定时任务
	if os.Getenv("RABBITMQ_HOST") == "" {
		logrus.Info("RabbitMQ not configured, running cron jobs only")
		select {}
	}

	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	msgConsumer, err := config.NewConsumer(ReconcileJobsQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Infof("Consuming queue %s, waiting for messages...", ReconcileJobsQueue)

	if err := msgConsumer.Consume(handleJobMessage); err != nil {
		logrus.Fatal("Failed to start consumer: ", err)
	}
}

// handleJobMessage dispatches a queued job to the matching business routine.
func handleJobMessage(msg []byte) error {
	var job jobMessage
	if err := json.Unmarshal(msg, &job); err != nil {
		logrus.Errorf("Failed to unmarshal job message: %v", err)
		return err
	}

	logrus.Infof("Received job: %+v", job)

	switch job.Action {
	case "reconcile":
		runReconciliation()
	case "monthly_report":
		year, month := job.Year, job.Month
		if year == 0 || month == 0 {
			// 缺省生成上个月
			year, month = previousMonth(time.Now())
		}
		runMonthlyReport(year, month)
	default:
		logrus.Warnf("Unknown job action: %s", job.Action)
	}
	return nil
}

func runReconciliation() {
	result, err := business.RunReconciliation(config.DB)
	if err != nil {
		logrus.Errorf("Scheduled reconciliation failed: %v", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"matched":   result.MatchedCount,
		"unmatched": result.UnmatchedCount,
		"processed": result.TotalProcessed,
	}).Info("Scheduled reconciliation finished")
}

func runPreviousMonthReport() {
	year, month := previousMonth(time.Now())
	runMonthlyReport(year, month)
}

func runMonthlyReport(year, month int) {
	result, err := business.GenerateMonthlyReport(config.DB, year, month)
	if err != nil {
		logrus.Errorf("Monthly report %d-%02d failed: %v", year, month, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"year":              year,
		"month":             month,
		"projects_created":  result.ProjectPerformanceCreated,
		"projects_updated":  result.ProjectPerformanceUpdated,
		"operators_created": result.OperatorPerformanceCreated,
		"operators_updated": result.OperatorPerformanceUpdated,
	}).Info("Monthly report generated")
}

func previousMonth(now time.Time) (int, int) {
	// 月末直接 AddDate(0,-1,0) 会被规范化到错误的月份
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := firstOfMonth.AddDate(0, 0, -1)
	return prev.Year(), int(prev.Month())
}
