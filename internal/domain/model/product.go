package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID               int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"type:varchar(255);not null" json:"name"`
	Slug             string           `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description      string           `gorm:"type:text;not null" json:"description"`
	ShortDescription string           `gorm:"type:varchar(500)" json:"shortDescription,omitempty"`
	OriginalPrice    decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"originalPrice"`
	DiscountPrice    *decimal.Decimal `gorm:"type:numeric(10,2)" json:"discountPrice,omitempty"`
	StockQuantity    int64            `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stockQuantity"`
	IsActive         bool             `gorm:"not null;default:true;index" json:"isActive"`
	IsFeatured       bool             `gorm:"not null;default:false" json:"isFeatured"`
	IsRecentlyAdded  bool             `gorm:"not null;default:false" json:"isRecentlyAdded"`
	SKU              string           `gorm:"column:sku;type:varchar(100)" json:"sku,omitempty"`
	Weight           *decimal.Decimal `gorm:"type:numeric(10,3)" json:"weight,omitempty"`
	Dimensions       string           `gorm:"type:varchar(100)" json:"dimensions,omitempty"`
	SEOTitle         string           `gorm:"column:seo_title;type:varchar(255)" json:"seoTitle,omitempty"`
	SEODescription   string           `gorm:"column:seo_description;type:text" json:"seoDescription,omitempty"`
	SEOKeywords      string           `gorm:"column:seo_keywords;type:varchar(500)" json:"seoKeywords,omitempty"`
	SortOrder        int              `gorm:"not null;default:0" json:"sortOrder"`
	CategoryID       int64            `gorm:"not null;index" json:"categoryId"`
	Category         *Category        `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Images           []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time        `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}

// 割引価格があればそれ、なければ通常価格
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.OriginalPrice
}

type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"productId"`
	URL       string    `gorm:"column:url;type:text;not null" json:"url"`
	SortOrder int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
