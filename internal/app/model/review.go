package model

import "time"

// Review is unique per (product, user); a second submission updates it in place.
type Review struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Rating      int       `gorm:"not null" json:"rating"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
