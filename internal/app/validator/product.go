package validator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductInput is the admin product form.
type ProductInput struct {
	Name        string   `json:"name" label:"Name" validate:"min=3"`
	Slug        string   `json:"slug" label:"Slug" validate:"min=3"`
	Category    string   `json:"category" label:"Category" validate:"min=3"`
	Brand       string   `json:"brand" label:"Brand" validate:"min=3"`
	Description string   `json:"description" label:"Description" validate:"min=3"`
	Stock       int      `json:"stock" label:"Stock" validate:"gte=0"`
	Images      []string `json:"images" label:"Images" validate:"min=1,dive,min=1"`
	IsFeatured  bool     `json:"is_featured"`
	Banner      *string  `json:"banner"`
	Price       string   `json:"price" label:"Price" validate:"required,currency"`
}

// ProductData is a validated ProductInput with the price parsed.
type ProductData struct {
	Name        string
	Slug        string
	Category    string
	Brand       string
	Description string
	Stock       int
	Images      []string
	IsFeatured  bool
	Banner      *string
	Price       decimal.Decimal
}

// ParseInsertProduct validates the form used to create a product.
func ParseInsertProduct(in ProductInput) (*ProductData, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Category = strings.TrimSpace(in.Category)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Price = strings.TrimSpace(in.Price)

	if err := validate(in); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return nil, newValidationError("price", "Price must have exactly two decimal places")
	}

	return &ProductData{
		Name:        in.Name,
		Slug:        in.Slug,
		Category:    in.Category,
		Brand:       in.Brand,
		Description: in.Description,
		Stock:       in.Stock,
		Images:      in.Images,
		IsFeatured:  in.IsFeatured,
		Banner:      in.Banner,
		Price:       price.Round(2),
	}, nil
}

// ParseUpdateProduct applies the insert constraints and additionally requires an id.
func ParseUpdateProduct(id uint, in ProductInput) (*ProductData, error) {
	if id == 0 {
		return nil, newValidationError("id", "Id is required")
	}
	return ParseInsertProduct(in)
}
