package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation 对账结果表，记录日报与财务记录的配对
type Reconciliation struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	AdSpendID  uint            `gorm:"not null;index" json:"ad_spend_id"`
	LedgerID   uint            `gorm:"not null;index" json:"ledger_id"`
	AmountDiff decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"amount_diff"`
	DateDiff   int             `gorm:"default:0" json:"date_diff"` // 日期差异(天数)
	MatchScore decimal.Decimal `gorm:"type:numeric(5,2)" json:"match_score"` // 匹配度(0-100)
	Status     string          `gorm:"size:20;default:'matched';index" json:"status"` // matched/need_review
	Reason     string          `gorm:"size:500" json:"reason"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	AdSpend    *AdSpendDaily      `gorm:"foreignKey:AdSpendID" json:"ad_spend,omitempty"`
	Ledger     *LedgerTransaction `gorm:"foreignKey:LedgerID" json:"ledger_transaction,omitempty"`
}

func (Reconciliation) TableName() string {
	return "reconciliation"
}
