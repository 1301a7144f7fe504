package db

import (
	"fmt"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dataset is a complete relational data set with explicit ids, as seeded or as read back.
type Dataset struct {
	Categories        []model.Category
	Products          []model.Product
	ProductCategories []model.ProductCategory
	Accessories       []model.Accessory
	Users             []model.User
	// Orders carry their OrderProducts and Invoice.
	Orders       []model.Order
	CartProducts []model.CartProduct
}

const seedBatchSize = 500

// Seed inserts data in dependency order inside one transaction.
func Seed(conn *gorm.DB, data Dataset) error {
	logger.Info("Seeding relational data", map[string]interface{}{
		"categories": len(data.Categories),
		"products":   len(data.Products),
		"users":      len(data.Users),
		"orders":     len(data.Orders),
	})

	var lines []model.OrderProduct
	var invoices []model.Invoice
	orders := make([]model.Order, len(data.Orders))
	for i, o := range data.Orders {
		for _, op := range o.OrderProducts {
			op.OrderID = o.OrderID
			lines = append(lines, op)
		}
		if o.Invoice != nil {
			inv := *o.Invoice
			inv.OrderID = o.OrderID
			invoices = append(invoices, inv)
		}
		o.OrderProducts = nil
		o.Invoice = nil
		orders[i] = o
	}

	err := conn.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			table string
			rows  interface{}
			n     int
		}{
			{"categories", data.Categories, len(data.Categories)},
			{"products", data.Products, len(data.Products)},
			{"product_categories", data.ProductCategories, len(data.ProductCategories)},
			{"accessories", data.Accessories, len(data.Accessories)},
			{"users", data.Users, len(data.Users)},
			{"orders", orders, len(orders)},
			{"order_products", lines, len(lines)},
			{"invoices", invoices, len(invoices)},
			{"cart_products", data.CartProducts, len(data.CartProducts)},
		}
		for _, step := range steps {
			if step.n == 0 {
				continue
			}
			if err := tx.Omit(clause.Associations).CreateInBatches(step.rows, seedBatchSize).Error; err != nil {
				return fmt.Errorf("seed %s: %w", step.table, err)
			}
		}
		return syncSequences(tx)
	})
	if err != nil {
		logger.Error("Failed to seed relational data", err)
		return err
	}

	logger.Info("Relational data seeded")
	return nil
}

// syncSequences moves PostgreSQL serial sequences past explicitly inserted ids.
func syncSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	serials := map[string]string{
		"users":      "user_id",
		"categories": "category_id",
		"products":   "product_id",
		"orders":     "order_id",
		"invoices":   "invoice_id",
	}
	for table, column := range serials {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 0) + 1, false) FROM %s",
			table, column, column, table)
		if err := tx.Exec(q).Error; err != nil {
			return fmt.Errorf("sync sequence of %s: %w", table, err)
		}
	}
	return nil
}

// DemoData returns a small catalog with order history relative to now.
func DemoData(now time.Time) Dataset {
	now = now.UTC().Truncate(time.Second)
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	price := decimal.RequireFromString

	order := func(id, userID uint, placed time.Time, status model.OrderStatus, invoiceID uint, total string, paid model.PaymentStatus, lines ...model.OrderProduct) model.Order {
		return model.Order{
			OrderID:       id,
			UserID:        userID,
			DatePlaced:    placed,
			Status:        status,
			OrderProducts: lines,
			Invoice: &model.Invoice{
				InvoiceID:     invoiceID,
				TotalCost:     price(total),
				DateIssued:    placed,
				PaymentStatus: paid,
			},
		}
	}
	line := func(productID uint, q int) model.OrderProduct {
		return model.OrderProduct{ProductID: productID, Quantity: q}
	}

	return Dataset{
		Categories: []model.Category{
			{CategoryID: 1, Name: "Electronics", Description: "Computers and peripherals"},
			{CategoryID: 2, Name: "Accessories", Description: "Cables, mice and the like"},
			{CategoryID: 3, Name: "Books", Description: "Printed books"},
		},
		Products: []model.Product{
			{ProductID: 1, Name: "Laptop", Price: price("1200.00"), Quantity: 10, Description: "14 inch laptop"},
			{ProductID: 2, Name: "Mouse", Price: price("25.00"), Quantity: 100, Description: "Wireless mouse"},
			{ProductID: 3, Name: "Novel", Price: price("12.50"), Quantity: 50, Description: "Paperback novel"},
			{ProductID: 4, Name: "Cable", Price: price("5.00"), Quantity: 200, Description: "USB-C cable"},
		},
		ProductCategories: []model.ProductCategory{
			{ProductID: 1, CategoryID: 1},
			{ProductID: 2, CategoryID: 1},
			{ProductID: 2, CategoryID: 2},
			{ProductID: 3, CategoryID: 3},
			{ProductID: 4, CategoryID: 2},
		},
		Accessories: []model.Accessory{
			{BaseProductID: 1, AccessoryProductID: 2},
			{BaseProductID: 1, AccessoryProductID: 4},
			{BaseProductID: 2, AccessoryProductID: 4},
		},
		Users: []model.User{
			{UserID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "changeme", DateRegistered: daysAgo(500)},
			{UserID: 2, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Password: "changeme", DateRegistered: daysAgo(450)},
			{UserID: 3, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "changeme", DateRegistered: daysAgo(420)},
		},
		Orders: []model.Order{
			order(1, 1, daysAgo(30), model.OrderStatusDelivered, 101, "1250.00", model.PaymentStatusPaid, line(1, 1), line(2, 2)),
			order(2, 1, daysAgo(20), model.OrderStatusPending, 102, "25.00", model.PaymentStatusUnpaid, line(2, 1)),
			order(3, 2, daysAgo(40), model.OrderStatusDelivered, 103, "25.00", model.PaymentStatusPaid, line(3, 2)),
			order(4, 2, daysAgo(10), model.OrderStatusProcessing, 104, "27.50", model.PaymentStatusPaid, line(3, 1), line(4, 3)),
			order(5, 3, daysAgo(400), model.OrderStatusDelivered, 105, "25.00", model.PaymentStatusPaid, line(2, 1)),
			order(6, 3, daysAgo(5), model.OrderStatusDelivered, 106, "25.00", model.PaymentStatusPaid, line(2, 1)),
			order(7, 3, daysAgo(3), model.OrderStatusDelivered, 107, "25.00", model.PaymentStatusPaid, line(2, 1)),
		},
		CartProducts: []model.CartProduct{
			{UserID: 1, ProductID: 3, Quantity: 1},
			{UserID: 3, ProductID: 4, Quantity: 2},
		},
	}
}
