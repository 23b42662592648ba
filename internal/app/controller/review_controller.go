package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// List returns a product's reviews, newest first
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) List(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// Mine returns the caller's review of the product, or null
// GET /api/v1/products/:id/reviews/me
func (ctrl *ReviewController) Mine(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.GetMyReview(c.Request.Context(), middleware.GetUserIDPtr(c), productID)
	if err != nil {
		respondServiceError(c, err, "get review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// Upsert creates or replaces the caller's review of the product
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) Upsert(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req validator.ReviewInput
	if !bindJSON(c, &req) {
		return
	}
	req.ProductID = productID

	respondAction(c, ctrl.reviewService.CreateOrUpdateReview(c.Request.Context(), middleware.GetUserIDPtr(c), req))
}
