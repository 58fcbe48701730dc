package business

import (
	"errors"
	"time"

	"adcontrol/internal/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExchangeRateUSDTToCNY 固定汇率：1 USDT = 7 CNY
var ExchangeRateUSDTToCNY = decimal.NewFromInt(7)

// ErrInvalidMonth is returned for a month outside 1-12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// MonthlyReportSummary is the run-level rollup across all projects and operators.
type MonthlyReportSummary struct {
	TotalSpendUSDT  float64 `json:"total_spend_usdt"`
	TotalIncomeUSDT float64 `json:"total_income_usdt"`
	TotalSpendCNY   float64 `json:"total_spend_cny"`
	TotalIncomeCNY  float64 `json:"total_income_cny"`
	TotalSalaryCNY  float64 `json:"total_salary_cny"`
	TotalCostCNY    float64 `json:"total_cost_cny"`
	NetProfitCNY    float64 `json:"net_profit_cny"`
}

// MonthlyReportResult reports upsert counts per performance table plus the summary.
type MonthlyReportResult struct {
	ProjectPerformanceCreated  int                  `json:"project_performance_created"`
	ProjectPerformanceUpdated  int                  `json:"project_performance_updated"`
	OperatorPerformanceCreated int                  `json:"operator_performance_created"`
	OperatorPerformanceUpdated int                  `json:"operator_performance_updated"`
	Summary                    MonthlyReportSummary `json:"summary"`
}

// MonthWindow returns [first of month, first of next month).
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

type groupSum struct {
	GroupID uint            `gorm:"column:group_id"`
	Total   decimal.Decimal `gorm:"column:total"`
}

func sumToMap(rows []groupSum) map[uint]decimal.Decimal {
	m := make(map[uint]decimal.Decimal, len(rows))
	for _, r := range rows {
		m[r.GroupID] = r.Total
	}
	return m
}

// GenerateMonthlyReport aggregates matched spend, income and salaries for the
// given month into the two performance tables. The upsert is keyed on
// (entity, year, month), so re-running the same month updates in place.
func GenerateMonthlyReport(db *gorm.DB, year, month int) (*MonthlyReportResult, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	start, end := MonthWindow(year, month)
	result := &MonthlyReportResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		// 1. 按项目/投手汇总本月 matched 的广告消耗
		var spendByProjectRows []groupSum
		if err := tx.Model(&models.AdSpendDaily{}).
			Select("project_id AS group_id, SUM(amount_usdt) AS total").
			Where("status = ? AND spend_date >= ? AND spend_date < ?", "matched", start, end).
			Group("project_id").
			Scan(&spendByProjectRows).Error; err != nil {
			return err
		}

		var spendByOperatorRows []groupSum
		if err := tx.Model(&models.AdSpendDaily{}).
			Select("operator_id AS group_id, SUM(amount_usdt) AS total").
			Where("status = ? AND spend_date >= ? AND spend_date < ?", "matched", start, end).
			Group("operator_id").
			Scan(&spendByOperatorRows).Error; err != nil {
			return err
		}

		// 2. 按项目汇总本月收入(USDT)
		var incomeByProjectRows []groupSum
		if err := tx.Model(&models.LedgerTransaction{}).
			Select("project_id AS group_id, SUM(amount) AS total").
			Where("direction = ? AND currency = ? AND tx_date >= ? AND tx_date < ? AND project_id IS NOT NULL",
				"income", "USDT", start, end).
			Group("project_id").
			Scan(&incomeByProjectRows).Error; err != nil {
			return err
		}

		// 3. 按投手汇总本月工资/提成(CNY)
		var salaryByOperatorRows []groupSum
		if err := tx.Model(&models.OperatorSalary{}).
			Select("operator_id AS group_id, SUM(total_amount) AS total").
			Where("year = ? AND month = ?", year, month).
			Group("operator_id").
			Scan(&salaryByOperatorRows).Error; err != nil {
			return err
		}

		spendByProject := sumToMap(spendByProjectRows)
		spendByOperator := sumToMap(spendByOperatorRows)
		incomeByProject := sumToMap(incomeByProjectRows)
		salaryByOperator := sumToMap(salaryByOperatorRows)

		// 4. 项目绩效表
		projectIDs := make(map[uint]bool)
		for id := range spendByProject {
			projectIDs[id] = true
		}
		for id := range incomeByProject {
			projectIDs[id] = true
		}

		for projectID := range projectIDs {
			totalSpendUSDT := spendByProject[projectID]
			totalIncomeUSDT := incomeByProject[projectID]

			totalSpendCNY := totalSpendUSDT.Mul(ExchangeRateUSDTToCNY)
			totalIncomeCNY := totalIncomeUSDT.Mul(ExchangeRateUSDTToCNY)
			netProfitCNY := totalIncomeCNY.Sub(totalSpendCNY)

			// 收入为0时利润率为空，避免除零
			var profitMargin *decimal.Decimal
			if totalIncomeCNY.IsPositive() {
				m := netProfitCNY.Div(totalIncomeCNY).Mul(decimal.NewFromInt(100)).Round(2)
				profitMargin = &m
			}

			var existing models.MonthlyProjectPerformance
			err := tx.Where("project_id = ? AND year = ? AND month = ?", projectID, year, month).
				First(&existing).Error
			switch {
			case err == nil:
				updates := map[string]interface{}{
					"total_spend_usdt":  totalSpendUSDT,
					"total_income_usdt": totalIncomeUSDT,
					"total_spend_cny":   totalSpendCNY,
					"total_income_cny":  totalIncomeCNY,
					"net_profit_cny":    netProfitCNY,
					"profit_margin":     profitMargin,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return err
				}
				result.ProjectPerformanceUpdated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				perf := models.MonthlyProjectPerformance{
					ProjectID:       projectID,
					Year:            year,
					Month:           month,
					TotalSpendUSDT:  totalSpendUSDT,
					TotalIncomeUSDT: totalIncomeUSDT,
					TotalSpendCNY:   totalSpendCNY,
					TotalIncomeCNY:  totalIncomeCNY,
					NetProfitCNY:    netProfitCNY,
					ProfitMargin:    profitMargin,
				}
				if err := tx.Create(&perf).Error; err != nil {
					return err
				}
				result.ProjectPerformanceCreated++
			default:
				return err
			}
		}

		// 5. 投手绩效表
		operatorIDs := make(map[uint]bool)
		for id := range spendByOperator {
			operatorIDs[id] = true
		}
		for id := range salaryByOperator {
			operatorIDs[id] = true
		}

		for operatorID := range operatorIDs {
			totalSpendUSDT := spendByOperator[operatorID]
			salaryCostCNY := salaryByOperator[operatorID]

			totalSpendCNY := totalSpendUSDT.Mul(ExchangeRateUSDTToCNY)
			totalCostCNY := totalSpendCNY.Add(salaryCostCNY)

			var existing models.MonthlyOperatorPerformance
			err := tx.Where("operator_id = ? AND year = ? AND month = ?", operatorID, year, month).
				First(&existing).Error
			switch {
			case err == nil:
				updates := map[string]interface{}{
					"total_spend_usdt": totalSpendUSDT,
					"total_spend_cny":  totalSpendCNY,
					"salary_cost_cny":  salaryCostCNY,
					"total_cost_cny":   totalCostCNY,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return err
				}
				result.OperatorPerformanceUpdated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				perf := models.MonthlyOperatorPerformance{
					OperatorID:     operatorID,
					Year:           year,
					Month:          month,
					TotalSpendUSDT: totalSpendUSDT,
					TotalSpendCNY:  totalSpendCNY,
					SalaryCostCNY:  salaryCostCNY,
					TotalCostCNY:   totalCostCNY,
				}
				if err := tx.Create(&perf).Error; err != nil {
					return err
				}
				result.OperatorPerformanceCreated++
			default:
				return err
			}
		}

		// 6. 全局汇总
		totalSpendUSDT := decimal.Zero
		for _, v := range spendByProject {
			totalSpendUSDT = totalSpendUSDT.Add(v)
		}
		totalIncomeUSDT := decimal.Zero
		for _, v := range incomeByProject {
			totalIncomeUSDT = totalIncomeUSDT.Add(v)
		}
		totalSalaryCNY := decimal.Zero
		for _, v := range salaryByOperator {
			totalSalaryCNY = totalSalaryCNY.Add(v)
		}

		totalSpendCNY := totalSpendUSDT.Mul(ExchangeRateUSDTToCNY)
		totalIncomeCNY := totalIncomeUSDT.Mul(ExchangeRateUSDTToCNY)
		totalCostCNY := totalSpendCNY.Add(totalSalaryCNY)

		result.Summary = MonthlyReportSummary{
			TotalSpendUSDT:  totalSpendUSDT.InexactFloat64(),
			TotalIncomeUSDT: totalIncomeUSDT.InexactFloat64(),
			TotalSpendCNY:   totalSpendCNY.InexactFloat64(),
			TotalIncomeCNY:  totalIncomeCNY.InexactFloat64(),
			TotalSalaryCNY:  totalSalaryCNY.InexactFloat64(),
			TotalCostCNY:    totalCostCNY.InexactFloat64(),
			NetProfitCNY:    totalIncomeCNY.Sub(totalCostCNY).InexactFloat64(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("monthly report %d-%02d: projects created=%d updated=%d, operators created=%d updated=%d",
		year, month,
		result.ProjectPerformanceCreated, result.ProjectPerformanceUpdated,
		result.OperatorPerformanceCreated, result.OperatorPerformanceUpdated)
	return result, nil
}
