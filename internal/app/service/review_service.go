package service

import (
	"context"
	"errors"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/internal/cache"
	"github.com/prostore/prostore-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateOrUpdateReview(ctx context.Context, callerID *uint, in validator.ReviewInput) ActionResult
	ListReviews(ctx context.Context, productID uint) ([]model.Review, error)
	GetMyReview(ctx context.Context, callerID *uint, productID uint) (*model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	pages       cache.PageCache
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, pages cache.PageCache) ReviewService {
	if pages == nil {
		pages = cache.NewNoopPageCache()
	}
	return &reviewService{reviewRepo: reviewRepo, productRepo: productRepo, pages: pages}
}

// CreateOrUpdateReview records the caller's review of a product. A caller
// holds at most one review per product; resubmitting replaces it. The
// product's rating and review count are recomputed in the same transaction.
func (s *reviewService) CreateOrUpdateReview(ctx context.Context, callerID *uint, in validator.ReviewInput) (result ActionResult) {
	defer guard(&result, "update review")

	if callerID == nil || *callerID == 0 {
		return failure(ErrUnauthenticated, "update review")
	}

	data, err := validator.ParseInsertReview(*callerID, in)
	if err != nil {
		return failure(err, "update review")
	}

	if _, err := s.productRepo.FindByID(data.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrProductNotFound, "update review")
		}
		return failure(err, "update review")
	}

	product, err := s.reviewRepo.UpsertWithAggregation(&model.Review{
		ProductID:   data.ProductID,
		UserID:      data.UserID,
		Title:       data.Title,
		Description: data.Description,
		Rating:      data.Rating,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrProductNotFound, "update review")
		}
		return failure(err, "update review")
	}

	logger.FromContext(ctx).Info("Review saved", map[string]interface{}{
		"product_id":  product.ID,
		"user_id":     data.UserID,
		"rating":      product.Rating,
		"num_reviews": product.NumReviews,
	})

	if err := s.pages.Revalidate(ctx, ProductPagePath(product.Slug)); err != nil {
		logger.FromContext(ctx).Warn("Cached page left stale", map[string]interface{}{
			"slug":  product.Slug,
			"error": err.Error(),
		})
	}
	return succeed("Review updated successfully")
}

func (s *reviewService) ListReviews(ctx context.Context, productID uint) ([]model.Review, error) {
	return s.reviewRepo.FindByProduct(productID)
}

// GetMyReview returns the caller's review of the product, or nil if there is none.
func (s *reviewService) GetMyReview(ctx context.Context, callerID *uint, productID uint) (*model.Review, error) {
	if callerID == nil || *callerID == 0 {
		return nil, ErrUnauthenticated
	}

	review, err := s.reviewRepo.FindByProductAndUser(productID, *callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return review, nil
}
