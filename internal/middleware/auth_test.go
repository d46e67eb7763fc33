package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireUser(secret))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
	})
	return r
}

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func getWhoami(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser_ValidToken(t *testing.T) {
	secret := []byte("secret")
	r := authRouter(secret)

	token := signToken(t, secret, jwt.MapClaims{"sub": "user-42"})
	w := getWhoami(r, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
}

func TestRequireUser_Rejections(t *testing.T) {
	secret := []byte("secret")
	r := authRouter(secret)

	t.Run("no header", func(t *testing.T) {
		w := getWhoami(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := getWhoami(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := getWhoami(r, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, []byte("other"), jwt.MapClaims{"sub": "user-42"})
		w := getWhoami(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{"role": "admin"})
		w := getWhoami(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unsigned token", func(t *testing.T) {
		// alg=none must never be accepted even with the right claims.
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone,
			jwt.MapClaims{"sub": "user-42"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		w := getWhoami(r, "Bearer "+unsigned)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
