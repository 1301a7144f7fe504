package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document-store shapes. Every _id is the relational primary key it was copied from,
// so identifiers survive the migration unchanged.

const (
	CollectionUsers      = "users"
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionCounters   = "counters"
)

type UserDocument struct {
	ID             uint               `bson:"_id"`
	FirstName      string             `bson:"first_name"`
	LastName       string             `bson:"last_name"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password"`
	DateRegistered time.Time          `bson:"date_registered"`
	Orders         []OrderDocument    `bson:"orders"`
	CartProducts   []LineItemDocument `bson:"cart_products"`
}

type OrderDocument struct {
	OrderID       uint               `bson:"order_id"`
	DatePlaced    time.Time          `bson:"date_placed"`
	Status        OrderStatus        `bson:"order_status"`
	OrderProducts []LineItemDocument `bson:"order_products"`
	Invoice       *InvoiceDocument   `bson:"invoice,omitempty"`
}

// LineItemDocument is one (product, quantity) entry of a cart or an order.
type LineItemDocument struct {
	ProductID uint `bson:"product_id"`
	Quantity  int  `bson:"quantity"`
}

type InvoiceDocument struct {
	InvoiceID     uint                 `bson:"invoice_id"`
	TotalCost     primitive.Decimal128 `bson:"total_cost"`
	DateIssued    time.Time            `bson:"date_issued"`
	PaymentStatus PaymentStatus        `bson:"payment_status"`
}

type ProductDocument struct {
	ID           uint                 `bson:"_id"`
	Name         string               `bson:"product_name"`
	Price        primitive.Decimal128 `bson:"price"`
	Quantity     int                  `bson:"quantity"`
	Description  string               `bson:"product_desc"`
	CategoryIDs  []uint               `bson:"category_ids"`
	AccessoryIDs []uint               `bson:"accessory_ids"`
}

type CategoryDocument struct {
	ID          uint   `bson:"_id"`
	Name        string `bson:"category_name"`
	Description string `bson:"category_desc"`
}

type CounterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
