package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role models.UserRole, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := models.JWTClaims{
		UserID: "user-1",
		Role:   role,
		Email:  "hod@example.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWT(NewTokenVerifier(testSecret)), RBAC(roles...), func(c *gin.Context) {
		value, _ := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"role": value.(*models.JWTClaims).Role})
	})
	return router
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAcceptsValidToken(t *testing.T) {
	router := newProtectedRouter(models.RoleHOD, models.RoleAdmin)

	w := serve(router, "Bearer "+signToken(t, testSecret, models.RoleHOD, time.Hour))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "HOD")
}

func TestJWTRejectsBadTokens(t *testing.T) {
	router := newProtectedRouter(models.RoleHOD)

	cases := map[string]string{
		"missing":      "",
		"scheme":       "Basic abc",
		"wrong secret": "Bearer " + signToken(t, "other", models.RoleHOD, time.Hour),
		"expired":      "Bearer " + signToken(t, testSecret, models.RoleHOD, -time.Minute),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := serve(router, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRBACRejectsOtherRoles(t *testing.T) {
	router := newProtectedRouter(models.RoleAdmin)

	w := serve(router, "Bearer "+signToken(t, testSecret, models.RoleLecturer, time.Hour))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
