package business

import (
	"path/filepath"
	"testing"
	"time"

	"adcontrol/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Project{},
		&models.Channel{},
		&models.ProjectChannel{},
		&models.Operator{},
		&models.OperatorSalary{},
		&models.AdSpendDaily{},
		&models.LedgerTransaction{},
		&models.Reconciliation{},
		&models.MonthlyProjectPerformance{},
		&models.MonthlyOperatorPerformance{},
	)
	require.NoError(t, err)

	return db
}

// seedBaseEntities creates one project, operator and channel for spend reports.
func seedBaseEntities(t *testing.T, db *gorm.DB) (models.Project, models.Operator, models.Channel) {
	t.Helper()

	project := models.Project{Name: "Alpha", Code: "ALPHA", Status: "active"}
	require.NoError(t, db.Create(&project).Error)

	operator := models.Operator{
		Name:       "Zhang San",
		EmployeeID: "E001",
		ProjectID:  &project.ID,
		Role:       "operator",
		Status:     "active",
	}
	require.NoError(t, db.Create(&operator).Error)

	channel := models.Channel{Name: "FB Agency", Status: "active"}
	require.NoError(t, db.Create(&channel).Error)

	return project, operator, channel
}

// daysAgo 返回N天前的零点日期，对账窗口基于当前时间
func daysAgo(n int) time.Time {
	now := time.Now().UTC()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -n)
}

func newSpend(project models.Project, operator models.Operator, channel models.Channel,
	date time.Time, amount string) models.AdSpendDaily {
	return models.AdSpendDaily{
		SpendDate:  date,
		ProjectID:  project.ID,
		OperatorID: operator.ID,
		ChannelID:  channel.ID,
		AmountUSDT: decimal.RequireFromString(amount),
		Status:     "pending",
	}
}

func newExpense(projectID uint, date time.Time, amount string) models.LedgerTransaction {
	return models.LedgerTransaction{
		TxDate:    date,
		Direction: "expense",
		Amount:    decimal.RequireFromString(amount),
		Currency:  "USDT",
		ProjectID: &projectID,
		Status:    "pending",
	}
}
