package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/redis"
	"github.com/prostore/prostore-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Session is the data of a successful sign-in or sign-up.
type Session struct {
	User   *model.User     `json:"user"`
	Tokens *util.TokenPair `json:"tokens"`
}

type AuthService interface {
	SignUp(ctx context.Context, in validator.SignUpInput, sessionCartID string) ActionResult
	SignIn(ctx context.Context, in validator.SignInInput, sessionCartID string) ActionResult
	SignOut(ctx context.Context, accessToken string) ActionResult
	Refresh(ctx context.Context, refreshToken string) ActionResult
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	cartRepo      repository.CartRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		cartRepo:      cartRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) SignUp(ctx context.Context, in validator.SignUpInput, sessionCartID string) (result ActionResult) {
	defer guard(&result, "sign up user")

	data, err := validator.ParseSignUp(in)
	if err != nil {
		return failure(err, "sign up user")
	}

	existing, err := s.userRepo.FindByEmail(data.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return failure(err, "sign up user")
	}
	if existing != nil {
		return failure(ErrEmailAlreadyExists, "sign up user")
	}

	hashed, err := util.HashPassword(data.Password)
	if err != nil {
		return failure(err, "sign up user")
	}

	user := &model.User{
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return failure(err, "sign up user")
	}

	session, err := s.startSession(ctx, user, sessionCartID)
	if err != nil {
		return failure(err, "sign up user")
	}

	logger.FromContext(ctx).Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return succeed("User registered successfully", session)
}

func (s *authService) SignIn(ctx context.Context, in validator.SignInInput, sessionCartID string) (result ActionResult) {
	defer guard(&result, "sign in user")

	data, err := validator.ParseSignIn(in)
	if err != nil {
		return failure(err, "sign in user")
	}

	user, err := s.userRepo.FindByEmail(data.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrInvalidCredentials, "sign in user")
		}
		return failure(err, "sign in user")
	}
	if !util.VerifyPassword(user.PasswordHash, data.Password) {
		return failure(ErrInvalidCredentials, "sign in user")
	}

	// Accounts created before a name was chosen take the local part of their email.
	if user.Name == model.PlaceholderName {
		user.Name = strings.SplitN(user.Email, "@", 2)[0]
		if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"name": user.Name}); err != nil {
			return failure(err, "sign in user")
		}
	}

	session, err := s.startSession(ctx, user, sessionCartID)
	if err != nil {
		return failure(err, "sign in user")
	}

	logger.FromContext(ctx).Info("User signed in", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return succeed("Signed in successfully", session)
}

// startSession issues tokens and hands the anonymous session cart to the user.
func (s *authService) startSession(ctx context.Context, user *model.User, sessionCartID string) (*Session, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		return nil, err
	}

	if sessionCartID != "" {
		err := s.cartRepo.AssignSessionCartToUser(sessionCartID, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return &Session{User: user, Tokens: tokens}, nil
}

// SignOut revokes the access token for the rest of its lifetime.
func (s *authService) SignOut(ctx context.Context, accessToken string) (result ActionResult) {
	defer guard(&result, "sign out user")

	claims, err := util.ValidateAccessToken(accessToken, s.jwtSecret)
	if err != nil {
		return failure(ErrUnauthenticated, "sign out user")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := redis.BlacklistToken(ctx, accessToken, ttl); err != nil {
		return failure(err, "sign out user")
	}

	logger.FromContext(ctx).Info("User signed out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return succeed("Signed out successfully")
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (result ActionResult) {
	defer guard(&result, "refresh session")

	claims, err := util.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return failure(ErrUnauthenticated, "refresh session")
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return failure(ErrUnauthenticated, "refresh session")
		}
		return failure(err, "refresh session")
	}

	session, err := s.startSession(ctx, user, "")
	if err != nil {
		return failure(err, "refresh session")
	}
	return succeed("Session refreshed", session)
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
