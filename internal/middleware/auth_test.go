package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, subject, issuer string, roles []string, expires time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Roles: roles,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, "auth.example.com"))
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID, "roles": GetRolesFromContext(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()
	hour := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Bearer {token}"},
		{"bad signature", "Bearer " + mintToken(t, "other", "u1", "auth.example.com", nil, hour), http.StatusUnauthorized, "Invalid token"},
		{"expired", "Bearer " + mintToken(t, testSecret, "u1", "auth.example.com", nil, time.Now().Add(-time.Hour)), http.StatusUnauthorized, "Token has expired"},
		{"wrong issuer", "Bearer " + mintToken(t, testSecret, "u1", "evil", nil, hour), http.StatusUnauthorized, "Invalid token"},
		{"missing subject", "Bearer " + mintToken(t, testSecret, "", "auth.example.com", nil, hour), http.StatusUnauthorized, "Invalid token claims"},
		{"valid", "Bearer " + mintToken(t, testSecret, "u1", "auth.example.com", []string{"approver"}, hour), http.StatusOK, `"roles":["APPROVER"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestWithIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserIDFromContext(c)
	assert.False(t, ok)

	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), "u2", []domain.UserRole{domain.RoleAdmin}))
	userID, ok := GetUserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "u2", userID)
	assert.Equal(t, []domain.UserRole{domain.RoleAdmin}, GetRolesFromContext(c))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := NewLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(lim))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = NewLimiter("lots")
	assert.Error(t, err)
}
