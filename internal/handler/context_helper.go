package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/brightclass/class-rewards-api/internal/middleware"
	"github.com/brightclass/class-rewards-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentTeacher(c)
	if !ok {
		return nil
	}
	return claims
}
