package model

import "time"

// Genre 分类
type Genre struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true;index"` // 软删除标记
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
