package business

import (
	"testing"

	"adcontrol/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMatchScore(t *testing.T) {
	t.Run("perfect match scores 100", func(t *testing.T) {
		score := CalculateMatchScore(decimal.Zero, 0)
		assert.True(t, score.Equal(decimal.NewFromInt(100)), "got %s", score)
	})

	t.Run("one day off scores 95", func(t *testing.T) {
		score := CalculateMatchScore(decimal.Zero, 1)
		assert.True(t, score.Equal(decimal.NewFromInt(95)), "got %s", score)
	})

	t.Run("one usdt off scores 75", func(t *testing.T) {
		score := CalculateMatchScore(decimal.NewFromInt(1), 0)
		assert.True(t, score.Equal(decimal.NewFromInt(75)), "got %s", score)
	})

	t.Run("scores never go negative", func(t *testing.T) {
		score := CalculateMatchScore(decimal.NewFromInt(500), 200)
		assert.True(t, score.Equal(decimal.Zero), "got %s", score)
	})

	t.Run("negative inputs treated as absolute", func(t *testing.T) {
		score := CalculateMatchScore(decimal.NewFromInt(-1), -1)
		assert.True(t, score.Equal(decimal.NewFromFloat(70)), "got %s", score)
	})
}

func TestRunReconciliationExactMatch(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "103.00")
	require.NoError(t, db.Create(&spend).Error)
	ledger := newExpense(project.ID, daysAgo(1), "103.00")
	require.NoError(t, db.Create(&ledger).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, 0, result.UnmatchedCount)
	assert.Equal(t, 1, result.TotalProcessed)

	var rec models.Reconciliation
	require.NoError(t, db.Where("ad_spend_id = ?", spend.ID).First(&rec).Error)
	assert.Equal(t, "matched", rec.Status)
	assert.True(t, rec.MatchScore.Equal(decimal.NewFromInt(100)), "got %s", rec.MatchScore)
	assert.True(t, rec.AmountDiff.IsZero())
	assert.Equal(t, 0, rec.DateDiff)

	// 两边状态都应被更新
	var updatedSpend models.AdSpendDaily
	require.NoError(t, db.First(&updatedSpend, spend.ID).Error)
	assert.Equal(t, "matched", updatedSpend.Status)

	var updatedLedger models.LedgerTransaction
	require.NoError(t, db.First(&updatedLedger, ledger.ID).Error)
	assert.Equal(t, "matched", updatedLedger.Status)
}

func TestRunReconciliationAmountTooFar(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "100.00")
	require.NoError(t, db.Create(&spend).Error)
	// 金额差3 USDT，超出自动匹配阈值
	ledger := newExpense(project.ID, daysAgo(1), "103.00")
	require.NoError(t, db.Create(&ledger).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)

	var rec models.Reconciliation
	require.NoError(t, db.Where("ad_spend_id = ?", spend.ID).First(&rec).Error)
	assert.Equal(t, "need_review", rec.Status)
	assert.True(t, rec.AmountDiff.Equal(decimal.NewFromInt(3)), "got %s", rec.AmountDiff)
	assert.NotEmpty(t, rec.Reason)

	// 候选记录只是参考，不被占用
	var candidate models.LedgerTransaction
	require.NoError(t, db.First(&candidate, ledger.ID).Error)
	assert.Equal(t, "pending", candidate.Status)
}

func TestRunReconciliationDateWindow(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "50.00")
	require.NoError(t, db.Create(&spend).Error)
	// 日期差2天，超过自动匹配上限，但仍是最接近的候选
	ledger := newExpense(project.ID, daysAgo(3), "50.00")
	require.NoError(t, db.Create(&ledger).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)

	var rec models.Reconciliation
	require.NoError(t, db.Where("ad_spend_id = ?", spend.ID).First(&rec).Error)
	assert.Equal(t, "need_review", rec.Status)
	assert.Equal(t, 2, rec.DateDiff)
}

func TestRunReconciliationSkipsForeignCurrency(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "50.00")
	require.NoError(t, db.Create(&spend).Error)

	ledger := newExpense(project.ID, daysAgo(1), "50.00")
	ledger.Currency = "CNY"
	require.NoError(t, db.Create(&ledger).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchedCount)

	// 同项目无 USDT 候选，落到占位记录
	var rec models.Reconciliation
	require.NoError(t, db.Where("ad_spend_id = ?", spend.ID).First(&rec).Error)
	assert.Equal(t, "need_review", rec.Status)
	assert.Equal(t, 999, rec.DateDiff)
	assert.True(t, rec.MatchScore.IsZero())
}

func TestRunReconciliationNoLedgerForProject(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	other := models.Project{Name: "Beta", Code: "BETA", Status: "active"}
	require.NoError(t, db.Create(&other).Error)

	spend := newSpend(project, operator, channel, daysAgo(1), "80.00")
	require.NoError(t, db.Create(&spend).Error)
	// 窗口内只有其他项目的支出
	ledger := newExpense(other.ID, daysAgo(1), "80.00")
	require.NoError(t, db.Create(&ledger).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)

	var rec models.Reconciliation
	require.NoError(t, db.Where("ad_spend_id = ?", spend.ID).First(&rec).Error)
	assert.Equal(t, "need_review", rec.Status)
	assert.Equal(t, 999, rec.DateDiff)
	assert.Equal(t, "no ledger transaction found for this project", rec.Reason)
}

func TestRunReconciliationNoLedgersAtAll(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "80.00")
	require.NoError(t, db.Create(&spend).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalProcessed)

	var count int64
	require.NoError(t, db.Model(&models.Reconciliation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunReconciliationLedgerConsumedOnce(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	first := newSpend(project, operator, channel, daysAgo(1), "60.00")
	require.NoError(t, db.Create(&first).Error)
	second := newSpend(project, operator, channel, daysAgo(1), "60.00")
	require.NoError(t, db.Create(&second).Error)

	ledger := newExpense(project.ID, daysAgo(1), "60.00")
	require.NoError(t, db.Create(&ledger).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)

	var matchedCount int64
	require.NoError(t, db.Model(&models.Reconciliation{}).
		Where("ledger_id = ? AND status = ?", ledger.ID, "matched").
		Count(&matchedCount).Error)
	assert.Equal(t, int64(1), matchedCount)
}

func TestRunReconciliationBestCandidateWins(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "100.00")
	require.NoError(t, db.Create(&spend).Error)

	far := newExpense(project.ID, daysAgo(2), "100.90")
	require.NoError(t, db.Create(&far).Error)
	near := newExpense(project.ID, daysAgo(1), "100.10")
	require.NoError(t, db.Create(&near).Error)

	result, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchedCount)

	var rec models.Reconciliation
	require.NoError(t, db.Where("ad_spend_id = ?", spend.ID).First(&rec).Error)
	assert.Equal(t, near.ID, rec.LedgerID)
	assert.True(t, rec.AmountDiff.Equal(decimal.NewFromFloat(0.1)), "got %s", rec.AmountDiff)
}

func TestRunReconciliationSecondRunIsStable(t *testing.T) {
	db := setupTestDB(t)
	project, operator, channel := seedBaseEntities(t, db)

	spend := newSpend(project, operator, channel, daysAgo(1), "40.00")
	require.NoError(t, db.Create(&spend).Error)
	ledger := newExpense(project.ID, daysAgo(1), "40.00")
	require.NoError(t, db.Create(&ledger).Error)

	first, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 1, first.MatchedCount)

	// 第二次运行不应产生新的配对
	second, err := RunReconciliation(db)
	require.NoError(t, err)
	assert.Equal(t, 0, second.MatchedCount)
	assert.Equal(t, 0, second.TotalProcessed)

	var count int64
	require.NoError(t, db.Model(&models.Reconciliation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
