package model

import "time"

// トップページの割引バナー
type Banner struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageURL  string    `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	Alt       string    `gorm:"type:varchar(255)" json:"alt,omitempty"`
	Title     string    `gorm:"type:varchar(255)" json:"title,omitempty"`
	Subtitle  string    `gorm:"type:varchar(255)" json:"subtitle,omitempty"`
	Href      string    `gorm:"type:text" json:"href,omitempty"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sortOrder"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"isActive"`
	ProductID *int64    `gorm:"index" json:"productId,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
