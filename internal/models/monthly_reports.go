package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyProjectPerformance 月度项目绩效表
// 同一项目同一月份只能有一条记录
type MonthlyProjectPerformance struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	ProjectID      uint             `gorm:"not null;uniqueIndex:uq_project_year_month" json:"project_id"`
	Year           int              `gorm:"not null;uniqueIndex:uq_project_year_month" json:"year"`
	Month          int              `gorm:"not null;uniqueIndex:uq_project_year_month" json:"month"`
	TotalSpendUSDT decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"total_spend_usdt"`
	TotalIncomeUSDT decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"total_income_usdt"`
	TotalSpendCNY  decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"total_spend_cny"`
	TotalIncomeCNY decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"total_income_cny"`
	NetProfitCNY   decimal.Decimal  `gorm:"type:numeric(15,2);default:0" json:"net_profit_cny"`
	ProfitMargin   *decimal.Decimal `gorm:"type:numeric(5,2)" json:"profit_margin"` // 收入为0时为空
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (MonthlyProjectPerformance) TableName() string {
	return "monthly_project_performance"
}

// MonthlyOperatorPerformance 月度投手绩效表
// 同一投手同一月份只能有一条记录
type MonthlyOperatorPerformance struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	OperatorID     uint            `gorm:"not null;uniqueIndex:uq_operator_year_month" json:"operator_id"`
	Year           int             `gorm:"not null;uniqueIndex:uq_operator_year_month" json:"year"`
	Month          int             `gorm:"not null;uniqueIndex:uq_operator_year_month" json:"month"`
	TotalSpendUSDT decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"total_spend_usdt"`
	TotalSpendCNY  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"total_spend_cny"`
	SalaryCostCNY  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"salary_cost_cny"`
	TotalCostCNY   decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"total_cost_cny"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (MonthlyOperatorPerformance) TableName() string {
	return "monthly_operator_performance"
}
