package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodPayPal         = "PayPal"
	PaymentMethodStripe         = "Stripe"
	PaymentMethodCashOnDelivery = "CashOnDelivery"
)

// ShippingAddress is stored as JSON on users and orders.
type ShippingAddress struct {
	FullName      string   `json:"full_name"`
	StreetAddress string   `json:"street_address"`
	City          string   `json:"city"`
	PostalCode    string   `json:"postal_code"`
	Country       string   `json:"country"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
}

// PaymentResult records what the payment gateway reported on settlement.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
	PricePaid    string `json:"price_paid"`
}

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	ShippingAddress ShippingAddress `gorm:"serializer:json;type:text" json:"shipping_address"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentResult   *PaymentResult  `gorm:"serializer:json;type:text" json:"payment_result,omitempty"`
	ItemsPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"items_price"`
	ShippingPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_price"`
	TaxPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_price"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	IsPaid          bool            `gorm:"not null;default:false" json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem copies the cart line so later product edits do not rewrite history.
type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"not null" json:"name"`
	Slug      string          `gorm:"not null" json:"slug"`
	Image     string          `json:"image"`
	Qty       int             `gorm:"not null" json:"qty"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
