package repository

import (
	"errors"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAggregate is the durable mean and count of a product's reviews.
type RatingAggregate struct {
	Avg   float64
	Count int64
}

type ReviewRepository interface {
	UpsertWithAggregation(review *model.Review) (*model.Product, error)
	FindByProduct(productID uint) ([]model.Review, error)
	FindByProductAndUser(productID, userID uint) (*model.Review, error)
	RecalculateAllRatings() (int, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func aggregate(tx *gorm.DB, productID uint) (RatingAggregate, error) {
	var agg RatingAggregate
	err := tx.Model(&model.Review{}).
		Select("COALESCE(CAST(AVG(rating) AS DOUBLE PRECISION), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	return agg, err
}

// UpsertWithAggregation writes the caller's review for the product and
// recomputes the product's rating and num_reviews from the stored reviews.
// The product row is locked for the whole transaction, so concurrent reviews
// of the same product serialize and the derived fields always match the rows
// that were committed. It returns the product with its new aggregate.
func (r *reviewRepository) UpsertWithAggregation(review *model.Review) (*model.Product, error) {
	logger.Debug("Upserting review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"user_id":    review.UserID,
		"rating":     review.Rating,
	})

	var product model.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, review.ProductID).Error; err != nil {
			return err
		}

		var existing model.Review
		err := tx.Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"title":       review.Title,
				"description": review.Description,
				"rating":      review.Rating,
			}).Error; err != nil {
				return err
			}
			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(review).Error; err != nil {
				return err
			}
		default:
			return err
		}

		agg, err := aggregate(tx, review.ProductID)
		if err != nil {
			return err
		}

		product.Rating = agg.Avg
		product.NumReviews = int(agg.Count)
		return tx.Model(&product).Updates(map[string]interface{}{
			"rating":      product.Rating,
			"num_reviews": product.NumReviews,
		}).Error
	})
	if err != nil {
		logger.Error("Failed to upsert review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
			"user_id":    review.UserID,
		})
		return nil, err
	}

	logger.Debug("Review upserted in database", map[string]interface{}{
		"review_id":   review.ID,
		"product_id":  product.ID,
		"rating":      product.Rating,
		"num_reviews": product.NumReviews,
	})
	return &product, nil
}

func (r *reviewRepository) FindByProduct(productID uint) ([]model.Review, error) {
	logger.Debug("Finding reviews by product in database", map[string]interface{}{
		"product_id": productID,
	})

	reviews := []model.Review{}
	err := r.db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name")
	}).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) FindByProductAndUser(productID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find review by product and user", err, map[string]interface{}{
				"product_id": productID,
				"user_id":    userID,
			})
		}
		return nil, err
	}
	return &review, nil
}

// RecalculateAllRatings rewrites rating and num_reviews on every product
// from its reviews and returns how many products were corrected.
func (r *reviewRepository) RecalculateAllRatings() (int, error) {
	var ids []uint
	if err := r.db.Model(&model.Product{}).Order("id").Pluck("id", &ids).Error; err != nil {
		logger.Error("Failed to list products for rating recalculation", err)
		return 0, err
	}

	fixed := 0
	for _, id := range ids {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			var product model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
				return err
			}

			agg, err := aggregate(tx, id)
			if err != nil {
				return err
			}
			if product.NumReviews == int(agg.Count) && product.Rating == agg.Avg {
				return nil
			}

			fixed++
			return tx.Model(&product).Updates(map[string]interface{}{
				"rating":      agg.Avg,
				"num_reviews": agg.Count,
			}).Error
		})
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to recalculate product rating", err, map[string]interface{}{
				"product_id": id,
			})
			return fixed, err
		}
	}

	logger.Info("Product ratings recalculated", map[string]interface{}{
		"products":  len(ids),
		"corrected": fixed,
	})
	return fixed, nil
}
