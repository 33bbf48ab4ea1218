package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

const claimsKey = "auth_claims"

// Claims are the bearer token claims accepted by the API.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT authentication configuration
type JWTConfig struct {
	SecretKey string
	Logger    *zap.Logger
	Optional  bool // If true, missing/invalid tokens won't block the request
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}

// JWTAuthMiddleware reads an `Authorization: Bearer` token. With Optional
// set, anonymous and invalid requests pass through without claims. An empty
// secret disables the check entirely. It never calls c.Next, so it can also
// run inline from another handler.
func JWTAuthMiddleware(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if cfg.SecretKey == "" || c.Request.Method == http.MethodOptions {
			return
		}

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *Claims
			claims, err = ParseToken(cfg.SecretKey, raw)
			if err == nil {
				c.Set(claimsKey, claims)
				return
			}
		}

		if cfg.Optional {
			if !errors.Is(err, errNoBearer) {
				log.Debug("Ignoring invalid bearer token", zap.Error(err))
			}
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrUnauthenticated.Error()})
	}
}

var errNoBearer = errors.New("no bearer token")

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errNoBearer
	}
	return strings.TrimSpace(token), nil
}

// GetClaims returns the validated claims, or nil for anonymous requests.
func GetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
