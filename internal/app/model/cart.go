package model

type CartProduct struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
}

func (CartProduct) TableName() string {
	return "cart_products"
}
