package business

import (
	"errors"
	"fmt"
	"time"

	"adcontrol/internal/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// LedgerLookbackDays 对账时财务支出记录的回溯窗口(天)
	LedgerLookbackDays = 7
	// MaxMatchDateDiff 可自动匹配的最大日期差(天)
	MaxMatchDateDiff = 1
)

// MaxMatchAmountDiff 可自动匹配的最大金额差(USDT)
var MaxMatchAmountDiff = decimal.NewFromInt(1)

// ReconcileResult summarizes a single reconciliation run.
type ReconcileResult struct {
	MatchedCount      int    `json:"matched_count"`
	UnmatchedCount    int    `json:"unmatched_count"`
	TotalProcessed    int    `json:"total_processed"`
	ProcessedSpendIDs []uint `json:"processed_spend_ids"`
}

// CalculateMatchScore 计算匹配度（0-100）
// 金额每差 0.02 USDT 扣 1 分，日期每差 1 天扣 10 分，取平均
func CalculateMatchScore(amountDiff decimal.Decimal, dateDiff int) decimal.Decimal {
	amountScore := 100 - amountDiff.Abs().InexactFloat64()*50
	if amountScore < 0 {
		amountScore = 0
	}

	if dateDiff < 0 {
		dateDiff = -dateDiff
	}
	dateScore := 100 - float64(dateDiff)*10
	if dateScore < 0 {
		dateScore = 0
	}

	return decimal.NewFromFloat((amountScore + dateScore) / 2).Round(2)
}

// daysBetween returns the absolute whole-day difference between two dates,
// ignoring the time-of-day component.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	diff := int(da.Sub(db).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// RunReconciliation matches pending spend reports against recent expense
// ledger transactions and writes Reconciliation records. The whole run is one
// transaction; a failure rolls back every write.
func RunReconciliation(db *gorm.DB) (*ReconcileResult, error) {
	result := &ReconcileResult{ProcessedSpendIDs: []uint{}}

	err := db.Transaction(func(tx *gorm.DB) error {
		// 1. 状态为 pending 的投手日报
		var pendingSpends []models.AdSpendDaily
		if err := tx.Where("status = ?", "pending").Find(&pendingSpends).Error; err != nil {
			return err
		}

		// 2. 最近7天内、方向为支出的财务记录
		lookback := time.Now().AddDate(0, 0, -LedgerLookbackDays)
		var expenseLedgers []models.LedgerTransaction
		if err := tx.Where("direction = ? AND tx_date >= ?", "expense", lookback).
			Find(&expenseLedgers).Error; err != nil {
			return err
		}

		// 已经被成功匹配过的财务记录不允许再次被占用
		// run-scoped set, persisted consumption lives in ledger.status
		consumedLedgers := make(map[uint]bool)
		var matchedRecs []models.Reconciliation
		if err := tx.Where("status = ?", "matched").Find(&matchedRecs).Error; err != nil {
			return err
		}
		for _, rec := range matchedRecs {
			consumedLedgers[rec.LedgerID] = true
		}

		for i := range pendingSpends {
			spend := &pendingSpends[i]

			// 已匹配成功的日报跳过
			var existing models.Reconciliation
			err := tx.Where("ad_spend_id = ? AND status = ?", spend.ID, "matched").
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			var best *models.LedgerTransaction
			bestScore := decimal.Zero
			minAmountDiff := decimal.New(999999, 0)
			minDateDiff := 999

			for j := range expenseLedgers {
				ledger := &expenseLedgers[j]
				if consumedLedgers[ledger.ID] {
					continue
				}
				if ledger.ProjectID == nil || *ledger.ProjectID != spend.ProjectID {
					continue
				}
				dateDiff := daysBetween(spend.SpendDate, ledger.TxDate)
				if dateDiff > MaxMatchDateDiff {
					continue
				}
				// 币种不一致时跳过，不做汇率折算
				if ledger.Currency != "USDT" {
					continue
				}
				amountDiff := spend.AmountUSDT.Sub(ledger.Amount).Abs()
				if amountDiff.GreaterThan(MaxMatchAmountDiff) {
					continue
				}

				score := CalculateMatchScore(amountDiff, dateDiff)
				if score.GreaterThan(bestScore) ||
					(score.Equal(bestScore) && amountDiff.LessThan(minAmountDiff)) {
					best = ledger
					bestScore = score
					minAmountDiff = amountDiff
					minDateDiff = dateDiff
				}
			}

			if best != nil {
				rec := models.Reconciliation{
					AdSpendID:  spend.ID,
					LedgerID:   best.ID,
					AmountDiff: minAmountDiff,
					DateDiff:   minDateDiff,
					MatchScore: bestScore,
					Status:     "matched",
					Reason:     "auto-matched",
				}
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
				// 两边状态都置为 matched
				if err := tx.Model(spend).Update("status", "matched").Error; err != nil {
					return err
				}
				if err := tx.Model(best).Update("status", "matched").Error; err != nil {
					return err
				}
				consumedLedgers[best.ID] = true
				result.MatchedCount++
			} else {
				// 未匹配成功：找同项目下金额最接近的候选记录作为参考
				var candidate *models.LedgerTransaction
				candidateAmountDiff := decimal.New(999999, 0)
				candidateDateDiff := 999

				for j := range expenseLedgers {
					ledger := &expenseLedgers[j]
					if ledger.ProjectID == nil || *ledger.ProjectID != spend.ProjectID {
						continue
					}
					if ledger.Currency != "USDT" {
						continue
					}
					amountDiff := spend.AmountUSDT.Sub(ledger.Amount).Abs()
					if amountDiff.LessThan(candidateAmountDiff) {
						candidate = ledger
						candidateAmountDiff = amountDiff
						candidateDateDiff = daysBetween(spend.SpendDate, ledger.TxDate)
					}
				}

				if candidate != nil {
					rec := models.Reconciliation{
						AdSpendID:  spend.ID,
						LedgerID:   candidate.ID,
						AmountDiff: candidateAmountDiff,
						DateDiff:   candidateDateDiff,
						MatchScore: CalculateMatchScore(candidateAmountDiff, candidateDateDiff),
						Status:     "need_review",
						Reason: fmt.Sprintf("no confident match: amount diff %s USDT, date diff %d days",
							candidateAmountDiff.StringFixed(2), candidateDateDiff),
					}
					if err := tx.Create(&rec).Error; err != nil {
						return err
					}
					result.UnmatchedCount++
				} else if len(expenseLedgers) > 0 {
					// 该项目没有任何支出记录，使用第一条支出记录占位
					placeholder := &expenseLedgers[0]
					rec := models.Reconciliation{
						AdSpendID:  spend.ID,
						LedgerID:   placeholder.ID,
						AmountDiff: spend.AmountUSDT,
						DateDiff:   999,
						MatchScore: decimal.Zero,
						Status:     "need_review",
						Reason:     "no ledger transaction found for this project",
					}
					if err := tx.Create(&rec).Error; err != nil {
						return err
					}
					result.UnmatchedCount++
				} else {
					// 窗口内没有任何支出记录，不落库
					continue
				}
			}

			result.ProcessedSpendIDs = append(result.ProcessedSpendIDs, spend.ID)
		}

		result.TotalProcessed = len(result.ProcessedSpendIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("reconciliation run finished: matched=%d unmatched=%d processed=%d",
		result.MatchedCount, result.UnmatchedCount, result.TotalProcessed)
	return result, nil
}
