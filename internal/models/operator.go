package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operator 投手表
type Operator struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"size:50;not null" json:"name"`
	EmployeeID string    `gorm:"size:50;uniqueIndex;not null" json:"employee_id"`
	ProjectID  *uint     `gorm:"index" json:"project_id"` // 所属项目ID
	Role       string    `gorm:"size:20;default:'operator'" json:"role"`
	Status     string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Project    *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Operator) TableName() string {
	return "operators"
}

// OperatorSalary 投手工资/提成表，按年月记录
type OperatorSalary struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	OperatorID   uint            `gorm:"not null;index" json:"operator_id"`
	Year         int             `gorm:"not null;index" json:"year"`
	Month        int             `gorm:"not null;index" json:"month"`
	SalaryAmount decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"salary_amount"`
	BonusAmount  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"bonus_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_amount"`
	Description  string          `gorm:"size:1000" json:"description"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	Operator     *Operator       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

func (OperatorSalary) TableName() string {
	return "operator_salary"
}
