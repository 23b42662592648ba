package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListAll returns every product, newest first
// GET /api/products
func (ctrl *ProductController) ListAll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.ListAllProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list products")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Search filters, sorts and pages the catalog
// GET /api/v1/products?q=&category=&price=&rating=&sort=&page=
func (ctrl *ProductController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := service.SearchParams{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Price:    c.Query("price"),
		Rating:   c.Query("rating"),
		Sort:     c.Query("sort"),
		Page:     queryInt(c, "page"),
	}

	result, err := ctrl.productService.SearchProducts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "search products")
		return
	}

	log.Debug("Product search served", map[string]interface{}{
		"query":       params.Query,
		"category":    params.Category,
		"total":       result.Total,
		"total_pages": result.TotalPages,
	})

	c.JSON(http.StatusOK, result)
}

// AdminList is Search for the admin catalog table; the router caches it
// GET /api/v1/products/admin
func (ctrl *ProductController) AdminList(c *gin.Context) {
	ctrl.Search(c)
}

// Latest returns the newest products for the home page
// GET /api/v1/products/latest
func (ctrl *ProductController) Latest(c *gin.Context) {
	products, err := ctrl.productService.GetLatestProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "latest products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Featured returns the products shown in the home page carousel
// GET /api/v1/products/featured
func (ctrl *ProductController) Featured(c *gin.Context) {
	products, err := ctrl.productService.GetFeaturedProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "featured products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Categories returns each category with its product count
// GET /api/v1/products/categories
func (ctrl *ProductController) Categories(c *gin.Context) {
	categories, err := ctrl.productService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// BySlug returns a product by slug
// GET /api/v1/products/slug/:slug
func (ctrl *ProductController) BySlug(c *gin.Context) {
	product, err := ctrl.productService.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ByID returns a product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) ByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Create adds a product (admin only)
// POST /api/v1/products
func (ctrl *ProductController) Create(c *gin.Context) {
	var req validator.ProductInput
	if !bindJSON(c, &req) {
		return
	}

	result := ctrl.productService.CreateProduct(c.Request.Context(), req)
	if result.Success {
		c.JSON(http.StatusCreated, result)
		return
	}
	respondAction(c, result)
}

// Update replaces a product (admin only)
// PUT /api/v1/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req validator.ProductInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.productService.UpdateProduct(c.Request.Context(), id, req))
}

// Delete removes a product (admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	respondAction(c, ctrl.productService.DeleteProduct(c.Request.Context(), id))
}
