package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string   // order lifecycle state
type PaymentStatus string // invoice settlement state

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCanceled   OrderStatus = "Canceled"
	OrderStatusReturned   OrderStatus = "Returned"

	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
)

// Cancelable reports whether an order in this state may still be canceled.
func (s OrderStatus) Cancelable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// CancelableStatuses lists the states Cancelable accepts, for use in query filters.
func CancelableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusProcessing}
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusUnpaid
}

type Order struct {
	OrderID    uint        `gorm:"primaryKey" json:"order_id"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	DatePlaced time.Time   `gorm:"not null;index" json:"date_placed"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`

	OrderProducts []OrderProduct `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_products,omitempty"`
	Invoice       *Invoice       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"invoice,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderProduct struct {
	OrderID   uint `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
}

func (OrderProduct) TableName() string {
	return "order_products"
}

type Invoice struct {
	InvoiceID     uint            `gorm:"primaryKey" json:"invoice_id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	TotalCost     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_cost"`
	DateIssued    time.Time       `gorm:"not null" json:"date_issued"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
}

func (Invoice) TableName() string {
	return "invoices"
}
