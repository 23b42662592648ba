package validator

import "strings"

// ReviewInput is the review form. Rating arrives as a number and must be whole.
type ReviewInput struct {
	ProductID   uint    `json:"product_id" label:"ProductId" validate:"required"`
	Title       string  `json:"title" label:"Title" validate:"min=3"`
	Description string  `json:"description" label:"Description" validate:"min=3"`
	Rating      float64 `json:"rating" label:"Rating" validate:"integer,gte=1,lte=5"`
}

// ReviewData is a validated review bound to its author.
type ReviewData struct {
	ProductID   uint
	UserID      uint
	Title       string
	Description string
	Rating      int
}

// ParseInsertReview validates the review content for userID.
func ParseInsertReview(userID uint, in ReviewInput) (*ReviewData, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if err := validate(in); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, newValidationError("userId", "UserId is required")
	}

	return &ReviewData{
		ProductID:   in.ProductID,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Rating:      int(in.Rating),
	}, nil
}
