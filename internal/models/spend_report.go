package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdSpendDaily 投手日报表，记录每日广告消耗上报
type AdSpendDaily struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	SpendDate  time.Time       `gorm:"type:date;not null;index" json:"spend_date"`
	ProjectID  uint            `gorm:"not null;index" json:"project_id"`
	OperatorID uint            `gorm:"not null;index" json:"operator_id"`
	ChannelID  uint            `gorm:"not null;index" json:"channel_id"`
	Country    string          `gorm:"size:50" json:"country"`
	Platform   string          `gorm:"size:50" json:"platform"` // 投放平台
	AmountUSDT decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount_usdt"`
	RawMemo    string          `gorm:"size:1000" json:"raw_memo"`
	Status     string          `gorm:"size:20;default:'pending';index" json:"status"` // pending/matched/rejected
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	Project    *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Operator   *Operator       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	Channel    *Channel        `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
}

func (AdSpendDaily) TableName() string {
	return "ad_spend_daily"
}
