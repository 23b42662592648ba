package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Brand       string          `gorm:"not null" json:"brand"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Images      []string        `gorm:"serializer:json;type:text" json:"images"`
	IsFeatured  bool            `gorm:"not null;default:false;index" json:"is_featured"`
	Banner      *string         `json:"banner"`
	Rating      float64         `gorm:"not null;default:0" json:"rating"`      // mean of review ratings
	NumReviews  int             `gorm:"not null;default:0" json:"num_reviews"` // count of reviews
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Reviews []Review `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// FirstImage returns the cover image or "" when none is set.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
