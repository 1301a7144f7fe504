// Package repository defines the storage contract shared by the relational and the
// document backends. A Store is chosen once when the application is composed; nothing
// above this package branches on which backend is live.
package repository

import (
	"context"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/shopspring/decimal"
)

type CatalogRepository interface {
	// ListProducts returns products ascending by id, each with its categories ascending by id.
	ListProducts(ctx context.Context) ([]model.Product, error)
	// ListUsers returns users ascending by id.
	ListUsers(ctx context.Context) ([]model.User, error)
}

type CartRepository interface {
	// GetCart returns the user's cart lines ordered by product id. An unknown user has an
	// empty cart.
	GetCart(ctx context.Context, userID uint) ([]CartLine, error)
	// AddToCart increments the (user, product) line by quantity, creating it when absent.
	// Concurrent calls for the same pair must not lose an increment.
	AddToCart(ctx context.Context, userID, productID uint, quantity int) error
}

type OrderRepository interface {
	// PlaceOrder turns the user's cart into an order with one invoice, all-or-nothing.
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (uint, error)
	// CancelOrder restocks and cancels a Pending or Processing order owned by userID.
	CancelOrder(ctx context.Context, userID, orderID uint) error
	GetOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error)
}

type ReportRepository interface {
	SpendersOverThreshold(ctx context.Context, since time.Time, threshold decimal.Decimal) ([]SpenderRow, error)
	RepeatBuyerProducts(ctx context.Context, since time.Time) ([]RepeatBuyerRow, error)
}

// Store is the full data-access surface of one backend.
type Store interface {
	CatalogRepository
	CartRepository
	OrderRepository
	ReportRepository

	Mode() Mode
	// Stats counts rows per table (or documents per collection).
	Stats(ctx context.Context) ([]CollectionStat, error)
}

// Sequence hands out globally unique, monotonically increasing identifiers.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
	// Seed raises the sequence so the next value is greater than floor. It never lowers it.
	Seed(ctx context.Context, name string, floor int64) error
}

// Sequence names used by the document backend.
const (
	SequenceOrderID   = "order_id"
	SequenceInvoiceID = "invoice_id"
)

// StockPolicy decides what PlaceOrder does when a line exceeds the product's stock.
type StockPolicy string

const (
	// StockPolicyReject fails the order with ErrInsufficientStock.
	StockPolicyReject StockPolicy = "reject"
	// StockPolicyBackorder lets stock go negative.
	StockPolicyBackorder StockPolicy = "backorder"
)

type PlaceOrderInput struct {
	UserID        uint
	PaymentStatus model.PaymentStatus
	PlacedAt      time.Time
}

type CartLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type OrderLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderDetail struct {
	OrderID       uint                `json:"order_id"`
	UserID        uint                `json:"user_id"`
	DatePlaced    time.Time           `json:"date_placed"`
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status,omitempty"`
	Lines         []OrderLine         `json:"lines"`
	TotalCost     decimal.Decimal     `json:"total_cost"`
}

type SpenderRow struct {
	UserID       uint            `json:"user_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}

type RepeatBuyerRow struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	BuyerCount  int64  `json:"buyer_count"`
}

type CollectionStat struct {
	Name    string `json:"name"`
	Entries int64  `json:"entries"`
}
