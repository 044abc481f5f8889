package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品は後から変更・削除され得るので、名前と単価は注文時点のスナップショットを持つ
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"orderId"`
	ProductID           int64           `gorm:"not null;index" json:"productId"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"productName"`
	UnitPrice           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
	Quantity            int64           `gorm:"not null;check:quantity > 0" json:"quantity"`
	LineTotal           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"lineTotal"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}
