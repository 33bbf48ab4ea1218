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
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	handler := func(c *gin.Context) {
		sub := ""
		if claims := GetClaims(c); claims != nil {
			sub = claims.Subject
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "sub": sub})
	}
	r.POST("/chat-assistant", handler)
	r.GET("/health", handler)
	return r
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Email: "traveler@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestCORSMiddleware(t *testing.T) {
	r := newTestRouter(CORSMiddleware())

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/chat-assistant", nil)
		req.Header.Set("Origin", "https://app.example.com")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "authorization, x-client-info, apikey, content-type", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("regular request carries headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecurityMiddleware(t *testing.T) {
	r := newTestRouter(SecurityMiddleware())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestMetricsMiddleware(t *testing.T) {
	r := newTestRouter(MetricsMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJWTAuthMiddleware(t *testing.T) {
	valid := signToken(t, testSecret, "user-1", time.Hour)
	expired := signToken(t, testSecret, "user-1", -time.Hour)
	wrongKey := signToken(t, "other-secret", "user-1", time.Hour)

	tests := []struct {
		name     string
		optional bool
		header   string
		wantCode int
		wantSub  string
	}{
		{name: "required valid", header: "Bearer " + valid, wantCode: http.StatusOK, wantSub: "user-1"},
		{name: "required lowercase scheme", header: "bearer " + valid, wantCode: http.StatusOK, wantSub: "user-1"},
		{name: "required missing", wantCode: http.StatusUnauthorized},
		{name: "required expired", header: "Bearer " + expired, wantCode: http.StatusUnauthorized},
		{name: "required wrong key", header: "Bearer " + wrongKey, wantCode: http.StatusUnauthorized},
		{name: "required wrong scheme", header: "Basic " + valid, wantCode: http.StatusUnauthorized},
		{name: "optional missing", optional: true, wantCode: http.StatusOK},
		{name: "optional invalid", optional: true, header: "Bearer nonsense", wantCode: http.StatusOK},
		{name: "optional valid", optional: true, header: "Bearer " + valid, wantCode: http.StatusOK, wantSub: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(JWTAuthMiddleware(JWTConfig{SecretKey: testSecret, Optional: tt.optional, Logger: zap.NewNop()}))
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/chat-assistant", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"ok":true,"sub":"`+tt.wantSub+`"}`, w.Body.String())
			}
		})
	}
}

func TestJWTAuthMiddleware_NoSecretDisablesCheck(t *testing.T) {
	r := newTestRouter(JWTAuthMiddleware(JWTConfig{}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat-assistant", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, unsigned)
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 1, 2)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "clients are independent")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "token refilled")

	now = now.Add(time.Hour)
	rl.evictIdle()
	rl.mu.Lock()
	assert.Empty(t, rl.clients)
	rl.mu.Unlock()
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 0.001, 1)
	r := newTestRouter(rl.Middleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat-assistant", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat-assistant", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again in a moment."}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/chat-assistant", nil))
	assert.NotEqual(t, http.StatusTooManyRequests, w.Code, "preflight is never limited")
}

func TestRateLimiter_KeysByClaimsSubject(t *testing.T) {
	rl := NewRateLimiter(zap.NewNop(), 0.001, 1)
	r := newTestRouter(JWTAuthMiddleware(JWTConfig{SecretKey: testSecret, Optional: true}), rl.Middleware())

	for _, sub := range []string{"alice", "bob"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat-assistant", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, sub, time.Hour))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, sub)
	}
}
