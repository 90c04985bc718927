package middleware

import (
	"errors"
	"net/http"
	"strings"

	"treatment_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AuthUserKey = "authUser"
)

var errNoAuthUser = errors.New("user ID not found in context")

// tokenErrorMessage gives each verification failure its own 401 message
func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrTokenMissing):
		return "Authorization token required"
	case errors.Is(err, utils.ErrTokenMalformed):
		return "Malformed token"
	case errors.Is(err, utils.ErrTokenSignatureInvalid):
		return "Invalid token signature"
	case errors.Is(err, utils.ErrTokenExpired):
		return "Token has expired"
	default:
		return "Invalid token"
	}
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, claims.UserID)

		c.Next()
	}
}

// AuthUserID returns the caller resolved by JWTAuthMiddleware
func AuthUserID(c *gin.Context) (uuid.UUID, error) {
	userIDVal, exists := c.Get(AuthUserKey)
	if !exists {
		return uuid.Nil, errNoAuthUser
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("invalid user ID type in context")
	}
	return userID, nil
}
