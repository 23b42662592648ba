package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest  ProductSort = "newest"
	ProductSortLowest  ProductSort = "lowest"
	ProductSortHighest ProductSort = "highest"
	ProductSortRating  ProductSort = "rating"
)

// PriceRange is an inclusive [Min, Max] bound.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// ProductFilter holds already-parsed search criteria. Zero values mean "no filter".
type ProductFilter struct {
	Query     string
	Category  string
	Price     *PriceRange
	MinRating *float64
	Sort      ProductSort
	Limit     int
	Offset    int
}

// CategoryCount is one row of the category group-by.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	Search(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindLatest(limit int) ([]model.Product, error)
	FindFeatured(limit int) ([]model.Product, error)
	CountByCategory() ([]CategoryCount, error)
	Update(product *model.Product) error
	Delete(id uint) error
	BulkUpsertBySlug(products []model.Product, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"slug":     product.Slug,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	products, _, err := r.Search(ProductFilter{Sort: ProductSortNewest})
	return products, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes % and _ in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// applyFilter adds the WHERE clauses shared by the page query and its count.
func applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q))+"%")
	}
	if filter.Category != "" {
		query = query.Where("products.category = ?", filter.Category)
	}
	if filter.Price != nil {
		query = query.Where("products.price >= ? AND products.price <= ?", filter.Price.Min, filter.Price.Max)
	}
	if filter.MinRating != nil {
		query = query.Where("products.rating >= ?", *filter.MinRating)
	}
	return query
}

func orderClause(sort ProductSort) string {
	switch sort {
	case ProductSortLowest:
		return "products.price ASC, products.id ASC"
	case ProductSortHighest:
		return "products.price DESC, products.id DESC"
	case ProductSortRating:
		return "products.rating DESC, products.id DESC"
	default:
		return "products.created_at DESC, products.id DESC"
	}
}

// Search returns one page of matching products and the number of products
// matching the filter across all pages.
func (r *productRepository) Search(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Searching products", map[string]interface{}{
		"query":      filter.Query,
		"category":   filter.Category,
		"price":      filter.Price,
		"min_rating": filter.MinRating,
		"sort":       filter.Sort,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	})

	var total int64
	if err := applyFilter(r.db.Model(&model.Product{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count filtered products", err, map[string]interface{}{
			"query":    filter.Query,
			"category": filter.Category,
		})
		return nil, 0, err
	}

	query := applyFilter(r.db.Model(&model.Product{}), filter).Order(orderClause(filter.Sort))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	products := []model.Product{}
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to search products", err, map[string]interface{}{
			"query":    filter.Query,
			"category": filter.Category,
		})
		return nil, 0, err
	}

	logger.Debug("Products found", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindLatest(limit int) ([]model.Product, error) {
	products, _, err := r.Search(ProductFilter{Sort: ProductSortNewest, Limit: limit})
	return products, err
}

func (r *productRepository) FindFeatured(limit int) ([]model.Product, error) {
	logger.Debug("Finding featured products", map[string]interface{}{
		"limit": limit,
	})

	products := []model.Product{}
	if err := r.db.Where("is_featured = ?", true).
		Order(orderClause(ProductSortNewest)).
		Limit(limit).
		Find(&products).Error; err != nil {
		logger.Error("Failed to find featured products", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CountByCategory() ([]CategoryCount, error) {
	logger.Debug("Grouping products by category", nil)

	rows := []CategoryCount{}
	if err := r.db.Model(&model.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to group products by category", err)
		return nil, err
	}

	logger.Debug("Product categories grouped", map[string]interface{}{
		"category_count": len(rows),
	})
	return rows, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	// rating and num_reviews belong to the review aggregation
	if err := r.db.Model(product).
		Select("name", "slug", "category", "brand", "description", "price", "stock", "images", "is_featured", "banner").
		Updates(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// BulkUpsertBySlug updates products whose slug already exists and inserts
// the rest in batches of batchSize, all in one transaction.
func (r *productRepository) BulkUpsertBySlug(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	logger.Info("Bulk importing products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		var fresh []model.Product
		for i := range products {
			p := products[i]
			var existing model.Product
			err := tx.Where("slug = ?", p.Slug).First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).
					Select("name", "category", "brand", "description", "price", "stock", "images", "is_featured", "banner").
					Updates(&p).Error; err != nil {
					return fmt.Errorf("update %s: %w", p.Slug, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				fresh = append(fresh, p)
			default:
				return err
			}
		}

		if len(fresh) == 0 {
			return nil
		}
		return tx.CreateInBatches(fresh, batchSize).Error
	})
}
