package models

import "time"

// Project 项目表
type Project struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Status      string    `gorm:"size:20;default:'active'" json:"status"` // 'active' or 'inactive'
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// Channel 渠道表
type Channel struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Contact    string    `gorm:"size:100" json:"contact"`
	RebateRate float64   `gorm:"default:0" json:"rebate_rate"` // 返点率(%)
	Status     string    `gorm:"size:20;default:'active'" json:"status"`
	Note       string    `gorm:"size:500" json:"note"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Channel) TableName() string {
	return "channels"
}

// ProjectChannel 项目渠道关联表
type ProjectChannel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	ChannelID uint      `gorm:"not null;index" json:"channel_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ProjectChannel) TableName() string {
	return "project_channels"
}
