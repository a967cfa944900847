package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/middleware"
	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}
