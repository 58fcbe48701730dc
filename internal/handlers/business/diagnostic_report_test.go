package business

import (
	"testing"
	"time"

	"adcontrol/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRoi(t *testing.T) {
	t.Run("zero cost yields zero", func(t *testing.T) {
		roi := CalculateRoi(decimal.NewFromInt(100), decimal.Zero)
		assert.True(t, roi.IsZero())
	})

	t.Run("half profit yields 50", func(t *testing.T) {
		roi := CalculateRoi(decimal.NewFromInt(50), decimal.NewFromInt(100))
		assert.True(t, roi.Equal(decimal.NewFromInt(50)), "got %s", roi)
	})

	t.Run("loss yields negative", func(t *testing.T) {
		roi := CalculateRoi(decimal.NewFromInt(-30), decimal.NewFromInt(100))
		assert.True(t, roi.Equal(decimal.NewFromInt(-30)), "got %s", roi)
	})
}

func TestPreviousMonth(t *testing.T) {
	y, m := previousMonth(2025, 1)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 12, m)

	y, m = previousMonth(2025, 7)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 6, m)
}

func TestDetectOperatorIssues(t *testing.T) {
	t.Run("healthy operator has no issues", func(t *testing.T) {
		issues := detectOperatorIssues(operatorStats{
			SpendCNY:    decimal.NewFromInt(5000),
			IncomeCNY:   decimal.NewFromInt(10000),
			Roi:         decimal.NewFromInt(80),
			ReportCount: 30,
		})
		assert.Empty(t, issues)
	})

	t.Run("few reports flags underreporting", func(t *testing.T) {
		issues := detectOperatorIssues(operatorStats{
			Roi:         decimal.NewFromInt(80),
			ReportCount: 5,
		})
		require.Len(t, issues, 1)
		assert.Equal(t, IssueUnderReporting, issues[0].Kind)
	})

	t.Run("negative roi flagged", func(t *testing.T) {
		issues := detectOperatorIssues(operatorStats{
			Roi:         decimal.NewFromInt(-10),
			ReportCount: 30,
		})
		require.Len(t, issues, 1)
		assert.Equal(t, IssueNegativeRoi, issues[0].Kind)
	})

	t.Run("low but positive roi flagged", func(t *testing.T) {
		issues := detectOperatorIssues(operatorStats{
			Roi:         decimal.NewFromInt(10),
			ReportCount: 30,
		})
		require.Len(t, issues, 1)
		assert.Equal(t, IssueLowRoi, issues[0].Kind)
	})

	t.Run("burn without output flagged", func(t *testing.T) {
		issues := detectOperatorIssues(operatorStats{
			SpendCNY:    decimal.NewFromInt(20000),
			IncomeCNY:   decimal.NewFromInt(5000),
			Roi:         decimal.NewFromInt(50),
			ReportCount: 30,
		})
		require.Len(t, issues, 1)
		assert.Equal(t, IssueBurnWithoutOutput, issues[0].Kind)
	})
}

// projectPerf builds a monthly project performance row with derived fields.
func projectPerf(projectID uint, year, month int, spendCNY, incomeCNY string) models.MonthlyProjectPerformance {
	spend := decimal.RequireFromString(spendCNY)
	income := decimal.RequireFromString(incomeCNY)
	profit := income.Sub(spend)
	var margin *decimal.Decimal
	if income.IsPositive() {
		m := profit.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
		margin = &m
	}
	return models.MonthlyProjectPerformance{
		ProjectID:      projectID,
		Year:           year,
		Month:          month,
		TotalSpendUSDT: spend.Div(ExchangeRateUSDTToCNY),
		TotalIncomeUSDT: income.Div(ExchangeRateUSDTToCNY),
		TotalSpendCNY:  spend,
		TotalIncomeCNY: income,
		NetProfitCNY:   profit,
		ProfitMargin:   margin,
	}
}

func TestGenerateDiagnosticReportOverall(t *testing.T) {
	db := setupTestDB(t)
	project, operator, _ := seedBaseEntities(t, db)

	perf := projectPerf(project.ID, 2025, 7, "7000", "14000")
	require.NoError(t, db.Create(&perf).Error)

	opPerf := models.MonthlyOperatorPerformance{
		OperatorID:     operator.ID,
		Year:           2025,
		Month:          7,
		TotalSpendUSDT: decimal.NewFromInt(1000),
		TotalSpendCNY:  decimal.NewFromInt(7000),
		SalaryCostCNY:  decimal.NewFromInt(5000),
		TotalCostCNY:   decimal.NewFromInt(12000),
	}
	require.NoError(t, db.Create(&opPerf).Error)

	report, err := GenerateDiagnosticReport(db, 2025, 7)
	require.NoError(t, err)

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 7, report.Month)
	assert.InDelta(t, 14000.0, report.OverallSummary.TotalIncomeCNY, 0.001)
	assert.InDelta(t, 7000.0, report.OverallSummary.TotalSpendCNY, 0.001)
	assert.InDelta(t, 5000.0, report.OverallSummary.TotalSalaryCNY, 0.001)
	assert.InDelta(t, 12000.0, report.OverallSummary.TotalCostCNY, 0.001)
	assert.Equal(t, "profit", report.OverallSummary.ProfitStatus)
	assert.Equal(t, 1, report.OverallSummary.ProjectCount)
	assert.Equal(t, 1, report.OverallSummary.OperatorCount)

	require.NotNil(t, report.TopProfitableProject)
	assert.Equal(t, "Alpha", report.TopProfitableProject.ProjectName)
	assert.InDelta(t, 7000.0, report.TopProfitableProject.ProfitCNY, 0.001)
	assert.NotEmpty(t, report.TopProfitableProject.Reasons)
	assert.NotEmpty(t, report.GeneratedAt)
}

func TestGenerateDiagnosticReportDecliningRoi(t *testing.T) {
	db := setupTestDB(t)
	project, _, _ := seedBaseEntities(t, db)

	// 上月 ROI 100%，本月跌到 -30%
	prev := projectPerf(project.ID, 2025, 6, "5000", "10000")
	require.NoError(t, db.Create(&prev).Error)
	curr := projectPerf(project.ID, 2025, 7, "10000", "7000")
	require.NoError(t, db.Create(&curr).Error)

	report, err := GenerateDiagnosticReport(db, 2025, 7)
	require.NoError(t, err)

	require.Len(t, report.RoiDecliningProjects, 1)
	declining := report.RoiDecliningProjects[0]
	assert.Equal(t, "Alpha", declining.ProjectName)
	assert.Greater(t, declining.PreviousRoi, declining.CurrentRoi)
	assert.NotEmpty(t, declining.Reasons)
	assert.Equal(t, "loss", report.OverallSummary.ProfitStatus)
	assert.NotEmpty(t, report.Suggestions.ProjectSuggestions)
}

func TestGenerateDiagnosticReportOperatorIssues(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	perf := projectPerf(project.ID, 2025, 7, "14000", "3500")
	require.NoError(t, db.Create(&perf).Error)

	opPerf := models.MonthlyOperatorPerformance{
		OperatorID:     operator.ID,
		Year:           2025,
		Month:          7,
		TotalSpendUSDT: decimal.NewFromInt(2000),
		TotalSpendCNY:  decimal.NewFromInt(14000),
		SalaryCostCNY:  decimal.NewFromInt(5000),
		TotalCostCNY:   decimal.NewFromInt(19000),
	}
	require.NoError(t, db.Create(&opPerf).Error)

	// 本月仅3条日报
	for i := 0; i < 3; i++ {
		spend := newSpend(project, operator, channel,
			time.Date(2025, 7, 5+i, 0, 0, 0, 0, time.UTC), "100.00")
		require.NoError(t, db.Create(&spend).Error)
	}

	report, err := GenerateDiagnosticReport(db, 2025, 7)
	require.NoError(t, err)

	require.Len(t, report.OperatorAnalysis, 1)
	analysis := report.OperatorAnalysis[0]
	assert.Equal(t, "Zhang San", analysis.OperatorName)
	assert.Equal(t, 3, analysis.ReportCount)
	assert.True(t, analysis.HasIssue(IssueUnderReporting))
	assert.True(t, analysis.HasIssue(IssueNegativeRoi))
	assert.True(t, analysis.HasIssue(IssueBurnWithoutOutput))
	assert.NotEmpty(t, report.Suggestions.OperatorSuggestions)
	assert.NotEmpty(t, report.Suggestions.FinanceSuggestions)
}

func TestGenerateDiagnosticReportInvalidMonth(t *testing.T) {
	db := setupTestDB(t)
	_, err := GenerateDiagnosticReport(db, 2025, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
