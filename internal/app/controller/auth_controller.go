package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/app/validator"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthController(authService service.AuthService, userService service.UserService) *AuthController {
	return &AuthController{
		authService: authService,
		userService: userService,
	}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignUp registers a user and signs them in. The visitor's session cart
// becomes theirs.
// POST /api/v1/auth/sign-up
func (ctrl *AuthController) SignUp(c *gin.Context) {
	var req validator.SignUpInput
	if !bindJSON(c, &req) {
		return
	}

	result := ctrl.authService.SignUp(c.Request.Context(), req, middleware.GetSessionCartID(c))
	if result.Success {
		c.JSON(http.StatusCreated, result)
		return
	}
	respondAction(c, result)
}

// SignIn checks credentials and issues tokens
// POST /api/v1/auth/sign-in
func (ctrl *AuthController) SignIn(c *gin.Context) {
	var req validator.SignInInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.authService.SignIn(c.Request.Context(), req, middleware.GetSessionCartID(c)))
}

// SignOut revokes the access token the request carries
// POST /api/v1/auth/sign-out
func (ctrl *AuthController) SignOut(c *gin.Context) {
	respondAction(c, ctrl.authService.SignOut(c.Request.Context(), middleware.GetAccessToken(c)))
}

// Refresh trades a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid refresh request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Refresh token is required")
		return
	}

	respondAction(c, ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken))
}

// Me returns the signed-in user
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile renames the signed-in user
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req validator.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.userService.UpdateProfile(c.Request.Context(), userID, req))
}
