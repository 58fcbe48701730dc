package business

import (
	"testing"
	"time"

	"adcontrol/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMonthlyReportInvalidMonth(t *testing.T) {
	db := setupTestDB(t)

	_, err := GenerateMonthlyReport(db, 2025, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = GenerateMonthlyReport(db, 2025, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestGenerateMonthlyReportNoActivity(t *testing.T) {
	db := setupTestDB(t)
	seedBaseEntities(t, db)

	result, err := GenerateMonthlyReport(db, 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProjectPerformanceCreated)
	assert.Equal(t, 0, result.OperatorPerformanceCreated)

	// 无活动月份不写任何绩效行
	var count int64
	require.NoError(t, db.Model(&models.MonthlyProjectPerformance{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerateMonthlyReportAggregates(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	monthDate := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

	// 两条已匹配消耗共 300 USDT，一条 pending 不应计入
	spends := []models.AdSpendDaily{
		newSpend(project, operator, channel, monthDate, "100.00"),
		newSpend(project, operator, channel, monthDate.AddDate(0, 0, 1), "200.00"),
		newSpend(project, operator, channel, monthDate.AddDate(0, 0, 2), "999.00"),
	}
	spends[0].Status = "matched"
	spends[1].Status = "matched"
	for i := range spends {
		require.NoError(t, db.Create(&spends[i]).Error)
	}

	// 收入 500 USDT
	income := models.LedgerTransaction{
		TxDate:    monthDate,
		Direction: "income",
		Amount:    decimal.RequireFromString("500.00"),
		Currency:  "USDT",
		ProjectID: &project.ID,
		Status:    "approved",
	}
	require.NoError(t, db.Create(&income).Error)

	// 工资 7000 CNY
	salary := models.OperatorSalary{
		OperatorID:   operator.ID,
		Year:         2025,
		Month:        7,
		SalaryAmount: decimal.RequireFromString("5000.00"),
		BonusAmount:  decimal.RequireFromString("2000.00"),
		TotalAmount:  decimal.RequireFromString("7000.00"),
	}
	require.NoError(t, db.Create(&salary).Error)

	result, err := GenerateMonthlyReport(db, 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProjectPerformanceCreated)
	assert.Equal(t, 1, result.OperatorPerformanceCreated)

	var perf models.MonthlyProjectPerformance
	require.NoError(t, db.Where("project_id = ? AND year = ? AND month = ?", project.ID, 2025, 7).
		First(&perf).Error)
	assert.True(t, perf.TotalSpendUSDT.Equal(decimal.NewFromInt(300)), "got %s", perf.TotalSpendUSDT)
	assert.True(t, perf.TotalIncomeUSDT.Equal(decimal.NewFromInt(500)), "got %s", perf.TotalIncomeUSDT)
	// 固定汇率 1 USDT = 7 CNY
	assert.True(t, perf.TotalSpendCNY.Equal(decimal.NewFromInt(2100)), "got %s", perf.TotalSpendCNY)
	assert.True(t, perf.TotalIncomeCNY.Equal(decimal.NewFromInt(3500)), "got %s", perf.TotalIncomeCNY)
	assert.True(t, perf.NetProfitCNY.Equal(decimal.NewFromInt(1400)), "got %s", perf.NetProfitCNY)
	require.NotNil(t, perf.ProfitMargin)
	assert.True(t, perf.ProfitMargin.Equal(decimal.NewFromInt(40)), "got %s", perf.ProfitMargin)

	var opPerf models.MonthlyOperatorPerformance
	require.NoError(t, db.Where("operator_id = ? AND year = ? AND month = ?", operator.ID, 2025, 7).
		First(&opPerf).Error)
	assert.True(t, opPerf.TotalSpendUSDT.Equal(decimal.NewFromInt(300)), "got %s", opPerf.TotalSpendUSDT)
	assert.True(t, opPerf.SalaryCostCNY.Equal(decimal.NewFromInt(7000)), "got %s", opPerf.SalaryCostCNY)
	assert.True(t, opPerf.TotalCostCNY.Equal(decimal.NewFromInt(9100)), "got %s", opPerf.TotalCostCNY)

	assert.InDelta(t, 3500.0, result.Summary.TotalIncomeCNY, 0.001)
	assert.InDelta(t, 9100.0, result.Summary.TotalCostCNY, 0.001)
	assert.InDelta(t, -5600.0, result.Summary.NetProfitCNY, 0.001)
}

func TestGenerateMonthlyReportUpsert(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	monthDate := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	spend := newSpend(project, operator, channel, monthDate, "100.00")
	spend.Status = "matched"
	require.NoError(t, db.Create(&spend).Error)

	first, err := GenerateMonthlyReport(db, 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ProjectPerformanceCreated)
	assert.Equal(t, 0, first.ProjectPerformanceUpdated)

	// 补录一条消耗后重跑，应原地更新而不是新增
	more := newSpend(project, operator, channel, monthDate, "50.00")
	more.Status = "matched"
	require.NoError(t, db.Create(&more).Error)

	second, err := GenerateMonthlyReport(db, 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ProjectPerformanceCreated)
	assert.Equal(t, 1, second.ProjectPerformanceUpdated)

	var count int64
	require.NoError(t, db.Model(&models.MonthlyProjectPerformance{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var perf models.MonthlyProjectPerformance
	require.NoError(t, db.Where("project_id = ?", project.ID).First(&perf).Error)
	assert.True(t, perf.TotalSpendUSDT.Equal(decimal.NewFromInt(150)), "got %s", perf.TotalSpendUSDT)
}

func TestGenerateMonthlyReportNilMarginWithoutIncome(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	monthDate := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	spend := newSpend(project, operator, channel, monthDate, "100.00")
	spend.Status = "matched"
	require.NoError(t, db.Create(&spend).Error)

	_, err := GenerateMonthlyReport(db, 2025, 7)
	require.NoError(t, err)

	// 收入为0时利润率为空，避免除零
	var perf models.MonthlyProjectPerformance
	require.NoError(t, db.Where("project_id = ?", project.ID).First(&perf).Error)
	assert.Nil(t, perf.ProfitMargin)
	assert.True(t, perf.NetProfitCNY.Equal(decimal.NewFromInt(-700)), "got %s", perf.NetProfitCNY)
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2025, 12)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
