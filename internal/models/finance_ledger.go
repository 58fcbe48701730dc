package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction 财务收支表
type LedgerTransaction struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	TxDate      time.Time       `gorm:"type:date;not null;index" json:"tx_date"`
	Direction   string          `gorm:"size:20;not null" json:"direction"` // 'income' or 'expense'
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	Currency    string          `gorm:"size:10;default:'USDT'" json:"currency"`
	Account     string          `gorm:"size:100" json:"account"`
	Description string          `gorm:"size:1000" json:"description"`
	FeeAmount   decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"fee_amount"` // 手续费
	ProjectID   *uint           `gorm:"index" json:"project_id"`
	OperatorID  *uint           `gorm:"index" json:"operator_id"`
	Status      string          `gorm:"size:20;default:'pending';index" json:"status"` // pending/approved/matched
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	Project     *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Operator    *Operator       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

func (LedgerTransaction) TableName() string {
	return "ledger_transactions"
}
