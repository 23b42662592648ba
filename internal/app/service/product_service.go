package service

import (
	"context"
	"errors"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/internal/cache"
	"github.com/prostore/prostore-backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminProductsPath is the cached admin listing dropped by every product mutation.
const AdminProductsPath = "/admin/products"

// ProductPagePath is the cached product page dropped when its reviews change.
func ProductPagePath(slug string) string {
	return "/product/" + slug
}

// SearchParams are the raw query parameters of the product search page.
// "" and "all" disable a filter.
type SearchParams struct {
	Query    string
	Category string
	Price    string
	Rating   string
	Sort     string
	Page     int
	Limit    int
}

type SearchResult struct {
	Data       []model.Product `json:"data"`
	TotalPages int             `json:"total_pages"`
	Total      int64           `json:"total"`
}

type ProductService interface {
	SearchProducts(ctx context.Context, params SearchParams) (*SearchResult, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetLatestProducts(ctx context.Context) ([]model.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetAllCategories(ctx context.Context) ([]repository.CategoryCount, error)
	CreateProduct(ctx context.Context, in validator.ProductInput) ActionResult
	UpdateProduct(ctx context.Context, id uint, in validator.ProductInput) ActionResult
	DeleteProduct(ctx context.Context, id uint) ActionResult
}

type productService struct {
	productRepo repository.ProductRepository
	pages       cache.PageCache
	store       config.StoreConfig
}

func NewProductService(productRepo repository.ProductRepository, pages cache.PageCache, store config.StoreConfig) ProductService {
	if pages == nil {
		pages = cache.NewNoopPageCache()
	}
	if store.PageSize <= 0 {
		store.PageSize = 12
	}
	if store.LatestProductsLimit <= 0 {
		store.LatestProductsLimit = 4
	}
	if store.FeaturedLimit <= 0 {
		store.FeaturedLimit = 4
	}
	return &productService{productRepo: productRepo, pages: pages, store: store}
}

// buildFilter turns raw search parameters into a repository filter.
func (s *productService) buildFilter(params SearchParams) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{Sort: repository.ProductSortNewest}

	if !validator.IsUnfiltered(params.Query) {
		filter.Query = params.Query
	}
	if !validator.IsUnfiltered(params.Category) {
		filter.Category = params.Category
	}
	if !validator.IsUnfiltered(params.Price) {
		lo, hi, err := validator.ParsePriceFilter(params.Price)
		if err != nil {
			return filter, err
		}
		filter.Price = &repository.PriceRange{Min: lo, Max: hi}
	}
	if !validator.IsUnfiltered(params.Rating) {
		rating, err := validator.ParseRatingFilter(params.Rating)
		if err != nil {
			return filter, err
		}
		filter.MinRating = &rating
	}

	switch repository.ProductSort(params.Sort) {
	case repository.ProductSortLowest, repository.ProductSortHighest, repository.ProductSortRating:
		filter.Sort = repository.ProductSort(params.Sort)
	}

	// PageSize caps every page; a smaller Limit only narrows it.
	limit := s.store.PageSize
	if params.Limit > 0 && params.Limit < limit {
		limit = params.Limit
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	return filter, nil
}

// SearchProducts returns one page of products. TotalPages counts the pages of
// the filtered result, so it never points past the last matching product.
func (s *productService) SearchProducts(ctx context.Context, params SearchParams) (*SearchResult, error) {
	filter, err := s.buildFilter(params)
	if err != nil {
		logger.FromContext(ctx).Warn("Rejected product search", map[string]interface{}{
			"price":  params.Price,
			"rating": params.Rating,
			"error":  err.Error(),
		})
		return nil, err
	}

	products, total, err := s.productRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &SearchResult{
		Data:       products,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetLatestProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindLatest(s.store.LatestProductsLimit)
}

func (s *productService) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindFeatured(s.store.FeaturedLimit)
}

func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetAllCategories(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.productRepo.CountByCategory()
}

func (s *productService) revalidate(ctx context.Context, path string) {
	if err := s.pages.Revalidate(ctx, path); err != nil {
		logger.FromContext(ctx).Warn("Cached page left stale", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func (s *productService) CreateProduct(ctx context.Context, in validator.ProductInput) (result ActionResult) {
	defer guard(&result, "create product")

	data, err := validator.ParseInsertProduct(in)
	if err != nil {
		return failure(err, "create product")
	}

	product := &model.Product{}
	applyProductData(product, data)
	if err := s.productRepo.Create(product); err != nil {
		return failure(err, "create product")
	}

	logger.FromContext(ctx).Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	s.revalidate(ctx, AdminProductsPath)
	return succeed("Product created successfully", product)
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, in validator.ProductInput) (result ActionResult) {
	defer guard(&result, "update product")

	data, err := validator.ParseUpdateProduct(id, in)
	if err != nil {
		return failure(err, "update product")
	}

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return failure(err, "update product")
	}

	applyProductData(product, data)
	if err := s.productRepo.Update(product); err != nil {
		return failure(err, "update product")
	}

	logger.FromContext(ctx).Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	s.revalidate(ctx, AdminProductsPath)
	return succeed("Product updated successfully", product)
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) (result ActionResult) {
	defer guard(&result, "delete product")

	if _, err := s.GetProductByID(ctx, id); err != nil {
		return failure(err, "delete product")
	}

	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrProductNotFound, "delete product")
		}
		return failure(err, "delete product")
	}

	logger.FromContext(ctx).Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	s.revalidate(ctx, AdminProductsPath)
	return succeed("Product deleted successfully")
}

func applyProductData(product *model.Product, data *validator.ProductData) {
	product.Name = data.Name
	product.Slug = data.Slug
	product.Category = data.Category
	product.Brand = data.Brand
	product.Description = data.Description
	product.Stock = data.Stock
	product.Images = data.Images
	product.IsFeatured = data.IsFeatured
	product.Banner = data.Banner
	product.Price = data.Price
}
