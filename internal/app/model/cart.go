package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a snapshot of a product line at the time it was added.
type CartItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Qty       int             `json:"qty"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
}

// Cart is keyed by the browser session and adopted by the user on sign-in.
type Cart struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	SessionCartID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_cart_id"`
	UserID        *uint           `gorm:"index" json:"user_id,omitempty"`
	Items         []CartItem      `gorm:"serializer:json;type:text" json:"items"`
	ItemsPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"items_price"`
	ShippingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_price"`
	TaxPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_price"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `gorm:"index" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Cart) TableName() string {
	return "carts"
}

// FindItem returns the index of the line for productID, or -1.
func (c *Cart) FindItem(productID uint) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
