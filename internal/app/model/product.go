package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   uint            `gorm:"primaryKey" json:"product_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"` // stock on hand
	Description string          `gorm:"type:varchar(500)" json:"description"`

	Categories []Category `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID" json:"categories"`
}

func (Product) TableName() string {
	return "products"
}

type Category struct {
	CategoryID  uint   `gorm:"primaryKey" json:"category_id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:varchar(500)" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

// ProductCategory is the join row behind Product.Categories.
type ProductCategory struct {
	ProductID  uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// Accessory links a base product to a product sold alongside it. The relation is
// directed; nothing stops A->B and B->A from both existing.
type Accessory struct {
	BaseProductID      uint `gorm:"primaryKey;autoIncrement:false" json:"base_product_id"`
	AccessoryProductID uint `gorm:"primaryKey;autoIncrement:false" json:"accessory_product_id"`
}

func (Accessory) TableName() string {
	return "accessories"
}
