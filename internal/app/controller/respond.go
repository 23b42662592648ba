package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/service"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/internal/middleware"
)

// respondAction writes an ActionResult with the status its code maps to.
func respondAction(c *gin.Context, result service.ActionResult) {
	status := apperrors.StatusForCode(result.Code)
	if result.Success {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// respondServiceError writes a read failure as an ErrorResponse.
func respondServiceError(c *gin.Context, err error, context string) {
	code := service.CodeFor(err, context)
	status := apperrors.StatusForCode(code)

	log := middleware.GetLoggerFromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", err, map[string]interface{}{
			"action": context,
			"code":   code,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Warn("Request rejected", map[string]interface{}{
		"action": context,
		"code":   code,
		"reason": err.Error(),
	})
	apperrors.RespondWithError(c, status, code, apperrors.FormatError(err))
}

// parseID reads a numeric path parameter. It writes the 400 itself and
// returns false when the value is not a positive integer.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id in path", map[string]interface{}{
			"param": param,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body. It writes the 400 itself on malformed JSON.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Malformed request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, "Invalid request body", nil)
		return false
	}
	return true
}

// queryInt returns a positive integer query parameter or 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// caller rebuilds the signed-in user from the token claims.
func caller(c *gin.Context) *model.User {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	role, _ := middleware.GetUserRole(c)
	email, _ := middleware.GetUserEmail(c)
	return &model.User{ID: id, Email: email, Role: role}
}
