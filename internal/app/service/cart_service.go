package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNoSessionCart    = errors.New("cart session not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found")
)

var (
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingPrice     = decimal.NewFromInt(10)
	taxRate               = decimal.RequireFromString("0.15")
)

// Prices are the derived totals of a cart or order.
type Prices struct {
	ItemsPrice    decimal.Decimal `json:"items_price"`
	ShippingPrice decimal.Decimal `json:"shipping_price"`
	TaxPrice      decimal.Decimal `json:"tax_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// CalcPrices totals the lines. Shipping is free above 100, tax is 15% of
// the items and every figure is rounded to cents.
func CalcPrices(items []model.CartItem) Prices {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := flatShippingPrice
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := itemsPrice.Mul(taxRate).Round(2)

	return Prices{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping.Round(2),
		TaxPrice:      tax,
		TotalPrice:    itemsPrice.Add(shipping).Add(tax).Round(2),
	}
}

func applyPrices(cart *model.Cart) {
	p := CalcPrices(cart.Items)
	cart.ItemsPrice = p.ItemsPrice
	cart.ShippingPrice = p.ShippingPrice
	cart.TaxPrice = p.TaxPrice
	cart.TotalPrice = p.TotalPrice
}

type CartService interface {
	GetMyCart(ctx context.Context, sessionCartID string, userID *uint) (*model.Cart, error)
	AddItemToCart(ctx context.Context, sessionCartID string, userID *uint, in validator.CartItemInput) ActionResult
	RemoveItemFromCart(ctx context.Context, sessionCartID string, userID *uint, productID uint) ActionResult
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetMyCart returns the signed-in user's cart and falls back to the session
// cart. A missing cart is nil without error.
func (s *cartService) GetMyCart(ctx context.Context, sessionCartID string, userID *uint) (*model.Cart, error) {
	if (userID == nil || *userID == 0) && sessionCartID == "" {
		return nil, ErrNoSessionCart
	}

	if userID != nil && *userID != 0 {
		cart, err := s.cartRepo.FindByUserID(*userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if sessionCartID == "" {
			return nil, nil
		}
	}

	cart, err := s.cartRepo.FindBySessionID(sessionCartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItemToCart(ctx context.Context, sessionCartID string, userID *uint, in validator.CartItemInput) (result ActionResult) {
	defer guard(&result, "add item to cart")

	if sessionCartID == "" {
		return failure(ErrNoSessionCart, "add item to cart")
	}

	item, err := validator.ParseCartItem(in)
	if err != nil {
		return failure(err, "add item to cart")
	}

	product, err := s.productRepo.FindByID(item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrProductNotFound, "add item to cart")
		}
		return failure(err, "add item to cart")
	}

	cart, err := s.GetMyCart(ctx, sessionCartID, userID)
	if err != nil {
		return failure(err, "add item to cart")
	}

	message := fmt.Sprintf("%s added to cart", product.Name)
	if cart == nil {
		cart = &model.Cart{SessionCartID: sessionCartID, UserID: userID}
	}

	idx := cart.FindItem(product.ID)
	qty := item.Qty
	if idx >= 0 {
		qty += cart.Items[idx].Qty
		message = fmt.Sprintf("%s updated in cart", product.Name)
	}
	if product.Stock < qty {
		return failure(ErrOutOfStock, "add item to cart")
	}

	if idx >= 0 {
		cart.Items[idx].Qty = qty
	} else {
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Qty:       qty,
			Image:     product.FirstImage(),
			Price:     product.Price,
		})
	}
	applyPrices(cart)

	if err := s.cartRepo.Save(cart); err != nil {
		return failure(err, "add item to cart")
	}

	logger.FromContext(ctx).Info("Cart item added", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": product.ID,
		"qty":        qty,
	})
	return succeed(message, cart)
}

// RemoveItemFromCart takes one unit of the product out of the cart and drops
// the line when its quantity reaches zero.
func (s *cartService) RemoveItemFromCart(ctx context.Context, sessionCartID string, userID *uint, productID uint) (result ActionResult) {
	defer guard(&result, "remove item from cart")

	if sessionCartID == "" && (userID == nil || *userID == 0) {
		return failure(ErrNoSessionCart, "remove item from cart")
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrProductNotFound, "remove item from cart")
		}
		return failure(err, "remove item from cart")
	}

	cart, err := s.GetMyCart(ctx, sessionCartID, userID)
	if err != nil {
		return failure(err, "remove item from cart")
	}
	if cart == nil {
		return failure(ErrCartNotFound, "remove item from cart")
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return failure(ErrCartItemNotFound, "remove item from cart")
	}

	if cart.Items[idx].Qty <= 1 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Qty--
	}
	applyPrices(cart)

	if err := s.cartRepo.Save(cart); err != nil {
		return failure(err, "remove item from cart")
	}

	logger.FromContext(ctx).Info("Cart item removed", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
	})
	return succeed(fmt.Sprintf("%s removed from cart", product.Name), cart)
}
