package validator

import (
	"strings"

	"github.com/prostore/prostore-backend/internal/app/model"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" label:"Product" validate:"required"`
	Qty       int  `json:"qty" label:"Quantity" validate:"gte=0"`
}

type ShippingAddressInput struct {
	FullName      string   `json:"full_name" label:"Name" validate:"min=3"`
	StreetAddress string   `json:"street_address" label:"Street address" validate:"min=3"`
	City          string   `json:"city" label:"City" validate:"min=3"`
	PostalCode    string   `json:"postal_code" label:"Postal code" validate:"min=3"`
	Country       string   `json:"country" label:"Country" validate:"min=3"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
}

type PaymentMethodInput struct {
	Type string `json:"type" label:"Payment method" validate:"required,payment_method"`
}

type PaymentResultInput struct {
	ID           string `json:"id" label:"Id" validate:"required"`
	Status       string `json:"status" label:"Status" validate:"required"`
	EmailAddress string `json:"email_address" label:"Email address"`
	PricePaid    string `json:"price_paid" label:"Price paid" validate:"required,currency"`
}

// ParseCartItem validates an add-to-cart request. A zero quantity means one.
func ParseCartItem(in CartItemInput) (*CartItemInput, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Qty == 0 {
		in.Qty = 1
	}
	return &in, nil
}

// ParseShippingAddress validates and trims an address.
func ParseShippingAddress(in ShippingAddressInput) (*model.ShippingAddress, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.StreetAddress = strings.TrimSpace(in.StreetAddress)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Country = strings.TrimSpace(in.Country)
	if err := validate(in); err != nil {
		return nil, err
	}
	return &model.ShippingAddress{
		FullName:      in.FullName,
		StreetAddress: in.StreetAddress,
		City:          in.City,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
		Lat:           in.Lat,
		Lng:           in.Lng,
	}, nil
}

// ParsePaymentMethod validates the method against the configured list.
func ParsePaymentMethod(in PaymentMethodInput) (string, error) {
	in.Type = strings.TrimSpace(in.Type)
	if err := validate(in); err != nil {
		return "", err
	}
	return in.Type, nil
}

// ParsePaymentResult validates a gateway settlement record.
func ParsePaymentResult(in PaymentResultInput) (*model.PaymentResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return &model.PaymentResult{
		ID:           in.ID,
		Status:       in.Status,
		EmailAddress: in.EmailAddress,
		PricePaid:    in.PricePaid,
	}, nil
}
