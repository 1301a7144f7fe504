package model

import (
	"time"
)

type User struct {
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	FirstName      string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(50);not null" json:"last_name"`
	Email          string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"type:varchar(257);not null" json:"-"`
	DateRegistered time.Time `gorm:"not null" json:"date_registered"`

	Orders       []Order       `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CartProducts []CartProduct `gorm:"foreignKey:UserID" json:"cart_products,omitempty"`
}

func (User) TableName() string {
	return "users"
}
