package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus は管理画面から来た値を検証する
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// 配送済み・キャンセル済みは終端
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type DeliveryOption string

const (
	DeliveryPickup       DeliveryOption = "PICKUP"
	DeliveryHomeDelivery DeliveryOption = "HOME_DELIVERY"
)

// 配送方法ごとの固定送料
var deliveryFees = map[DeliveryOption]decimal.Decimal{
	DeliveryPickup:       decimal.RequireFromString("0.00"),
	DeliveryHomeDelivery: decimal.RequireFromString("20.00"),
}

// ParseDeliveryOption はチェックアウトで受け付ける free_pickup / home_delivery を変換する
func ParseDeliveryOption(s string) (DeliveryOption, bool) {
	switch s {
	case "free_pickup":
		return DeliveryPickup, true
	case "home_delivery":
		return DeliveryHomeDelivery, true
	}
	return "", false
}

func (o DeliveryOption) Fee() decimal.Decimal {
	return deliveryFees[o]
}

type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName   string          `gorm:"type:varchar(255);not null" json:"customerName"`
	WhatsappNumber string          `gorm:"type:varchar(50);not null" json:"whatsappNumber"`
	DeliveryOption DeliveryOption  `gorm:"type:varchar(20);not null" json:"deliveryOption"`
	DeliveryFee    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"deliveryFee"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalPrice"`
	Note           string          `gorm:"type:text" json:"note,omitempty"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IdempotencyKey *string         `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
