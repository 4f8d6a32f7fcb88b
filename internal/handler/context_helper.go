package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unitime-api/internal/middleware"
	"github.com/noah-isme/unitime-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// hodDepartment returns the department a head of department is bound to.
// Admins and lecturers are not bound to one.
func hodDepartment(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.Role != models.RoleHOD || claims.DepartmentID == "" {
		return "", false
	}
	return claims.DepartmentID, true
}
