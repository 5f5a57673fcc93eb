package models

import "time"

// Category is the persisted form of a product category.
type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	Description string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for Category.
func (Category) TableName() string {
	return "categories"
}

// ProductCategory is one row of the product/category join relation.
// Position keeps the order in which the categories were given.
type ProductCategory struct {
	ProductID  uint      `gorm:"primaryKey"`
	CategoryID uint      `gorm:"primaryKey;index"`
	Position   int       `gorm:"not null;default:0"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for ProductCategory.
func (ProductCategory) TableName() string {
	return "product_categories"
}
