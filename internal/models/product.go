package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the persisted form of a product row. CategoryIDs is filled from
// the product_categories join table by the repository; it is not a column.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(150);uniqueIndex;not null"`
	Description string          `gorm:"type:varchar(500)"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	UserID      uint            `gorm:"not null;index"`
	Owner       *User           `gorm:"foreignKey:UserID" json:"-"`
	CategoryIDs []uint          `gorm:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}
