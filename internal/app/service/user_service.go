package service

import (
	"context"
	"errors"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserPage is one page of the admin user listing.
type UserPage struct {
	Data       []model.User `json:"data"`
	TotalPages int          `json:"total_pages"`
	Total      int64        `json:"total"`
}

type UserService interface {
	UpdateProfile(ctx context.Context, userID uint, in validator.UpdateProfileInput) ActionResult
	UpdateUserAddress(ctx context.Context, userID uint, in validator.ShippingAddressInput) ActionResult
	UpdateUserPaymentMethod(ctx context.Context, userID uint, in validator.PaymentMethodInput) ActionResult
	UpdateUser(ctx context.Context, id uint, in validator.UpdateUserInput) ActionResult
	DeleteUser(ctx context.Context, id uint) ActionResult
	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) find(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the caller's display name. The email is the login
// identity and is not changed here.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, in validator.UpdateProfileInput) (result ActionResult) {
	defer guard(&result, "update user profile")

	data, err := validator.ParseUpdateProfile(in)
	if err != nil {
		return failure(err, "update user profile")
	}

	user, err := s.find(userID)
	if err != nil {
		return failure(err, "update user profile")
	}

	user.Name = data.Name
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"name": user.Name}); err != nil {
		return failure(err, "update user profile")
	}

	logger.FromContext(ctx).Info("User profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return succeed("User updated successfully", user)
}

func (s *userService) UpdateUserAddress(ctx context.Context, userID uint, in validator.ShippingAddressInput) (result ActionResult) {
	defer guard(&result, "update user address")

	address, err := validator.ParseShippingAddress(in)
	if err != nil {
		return failure(err, "update user address")
	}

	user, err := s.find(userID)
	if err != nil {
		return failure(err, "update user address")
	}

	user.Address = address
	if err := s.userRepo.Update(user); err != nil {
		return failure(err, "update user address")
	}
	return succeed("User updated successfully", user)
}

func (s *userService) UpdateUserPaymentMethod(ctx context.Context, userID uint, in validator.PaymentMethodInput) (result ActionResult) {
	defer guard(&result, "update user payment method")

	method, err := validator.ParsePaymentMethod(in)
	if err != nil {
		return failure(err, "update user payment method")
	}

	user, err := s.find(userID)
	if err != nil {
		return failure(err, "update user payment method")
	}

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"payment_method": method}); err != nil {
		return failure(err, "update user payment method")
	}
	user.PaymentMethod = method
	return succeed("User updated successfully", user)
}

// UpdateUser is the admin edit of another user's name and role.
func (s *userService) UpdateUser(ctx context.Context, id uint, in validator.UpdateUserInput) (result ActionResult) {
	defer guard(&result, "update user")

	data, err := validator.ParseUpdateUser(id, in)
	if err != nil {
		return failure(err, "update user")
	}

	user, err := s.find(id)
	if err != nil {
		return failure(err, "update user")
	}

	user.Name = data.Name
	user.Role = model.UserRole(data.Role)
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"name": user.Name,
		"role": user.Role,
	}); err != nil {
		return failure(err, "update user")
	}

	logger.FromContext(ctx).Info("User updated by admin", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return succeed("User updated successfully", user)
}

func (s *userService) DeleteUser(ctx context.Context, id uint) (result ActionResult) {
	defer guard(&result, "delete user")

	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrUserNotFound, "delete user")
		}
		return failure(err, "delete user")
	}

	logger.FromContext(ctx).Info("User deleted", map[string]interface{}{
		"user_id": id,
	})
	return succeed("User deleted successfully")
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) (*UserPage, error) {
	if limit <= 0 {
		limit = 12
	}
	if page < 1 {
		page = 1
	}

	users, total, err := s.userRepo.List(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Data:       users,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Total:      total,
	}, nil
}
