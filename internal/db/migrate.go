package db

import (
	"github.com/ikkim/dualstore-shop/internal/app/model"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"gorm.io/gorm"
)

// relationalModels lists the schema in dependency order: parents before children.
func relationalModels() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductCategory{},
		&model.Accessory{},
		&model.Order{},
		&model.OrderProduct{},
		&model.Invoice{},
		&model.CartProduct{},
	}
}

// RelationalTables returns the table names of the relational schema, parents first.
func RelationalTables() []string {
	return []string{
		"users", "categories", "products", "product_categories", "accessories",
		"orders", "order_products", "invoices", "cart_products",
	}
}

// Migrate creates or updates the relational schema.
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := relationalModels()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// DropRelational drops every relational table, children first. The data is gone for good.
func DropRelational(conn *gorm.DB) error {
	models := relationalModels()
	logger.Warn("Dropping relational tables", map[string]interface{}{
		"tables": len(models),
	})

	for i := len(models) - 1; i >= 0; i-- {
		if err := conn.Migrator().DropTable(models[i]); err != nil {
			logger.Error("Failed to drop relational table", err, map[string]interface{}{
				"table": RelationalTables()[i],
			})
			return err
		}
	}

	logger.Info("Relational tables dropped", map[string]interface{}{
		"tables": len(models),
	})
	return nil
}
