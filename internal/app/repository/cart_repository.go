package repository

import (
	"errors"
	"time"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindBySessionID(sessionCartID string) (*model.Cart, error)
	FindByUserID(userID uint) (*model.Cart, error)
	Save(cart *model.Cart) error
	AssignSessionCartToUser(sessionCartID string, userID uint) error
	Delete(id uint) error
	DeleteStaleSessionCarts(olderThan time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) findOne(query string, arg interface{}) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.Where(query, arg).Order("updated_at DESC").First(&cart).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find cart in database", err, map[string]interface{}{
				"query": query,
			})
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindBySessionID(sessionCartID string) (*model.Cart, error) {
	logger.Debug("Finding cart by session in database", map[string]interface{}{
		"session_cart_id": sessionCartID,
	})
	return r.findOne("session_cart_id = ?", sessionCartID)
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user in database", map[string]interface{}{
		"user_id": userID,
	})
	return r.findOne("user_id = ?", userID)
}

// Save inserts a new cart or rewrites every column of an existing one.
func (r *cartRepository) Save(cart *model.Cart) error {
	logger.Debug("Saving cart in database", map[string]interface{}{
		"cart_id":         cart.ID,
		"session_cart_id": cart.SessionCartID,
		"items":           len(cart.Items),
	})

	if err := r.db.Save(cart).Error; err != nil {
		logger.Error("Failed to save cart in database", err, map[string]interface{}{
			"cart_id":         cart.ID,
			"session_cart_id": cart.SessionCartID,
		})
		return err
	}
	return nil
}

// AssignSessionCartToUser makes the session's cart the user's only cart.
// Any cart the user owned from an earlier session is discarded.
func (r *cartRepository) AssignSessionCartToUser(sessionCartID string, userID uint) error {
	logger.Debug("Assigning session cart to user", map[string]interface{}{
		"session_cart_id": sessionCartID,
		"user_id":         userID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where("session_cart_id = ?", sessionCartID).First(&cart).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND id <> ?", userID, cart.ID).
			Delete(&model.Cart{}).Error; err != nil {
			return err
		}

		return tx.Model(&cart).Update("user_id", userID).Error
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to assign session cart to user", err, map[string]interface{}{
			"session_cart_id": sessionCartID,
			"user_id":         userID,
		})
	}
	return err
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": id,
	})

	if err := r.db.Delete(&model.Cart{}, id).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": id,
		})
		return err
	}
	return nil
}

// DeleteStaleSessionCarts removes anonymous carts untouched since olderThan.
func (r *cartRepository) DeleteStaleSessionCarts(olderThan time.Time) (int64, error) {
	result := r.db.Where("user_id IS NULL AND updated_at < ?", olderThan).Delete(&model.Cart{})
	if result.Error != nil {
		logger.Error("Failed to delete stale session carts", result.Error, map[string]interface{}{
			"older_than": olderThan,
		})
		return 0, result.Error
	}

	logger.Info("Stale session carts deleted", map[string]interface{}{
		"older_than": olderThan,
		"deleted":    result.RowsAffected,
	})
	return result.RowsAffected, nil
}
