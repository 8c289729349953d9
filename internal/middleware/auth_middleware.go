package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/models"
)

// CachedIdentity is the resolved token identity kept in the Redis cache.
type CachedIdentity struct {
	UserID     uint   `json:"user_id"`
	KerberosID string `json:"kerberosId"`
}

const identityCacheTTL = 10 * time.Minute

// AuthMiddleware validates the bearer token and resolves it to an existing
// user before any handler runs. The identity lookup is cached in Redis when
// available; otherwise it falls through to the database.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handleAuthError(c, "Authentication required")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			handleAuthError(c, "Invalid Authorization header format")
			return
		}
		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			handleAuthError(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid user ID format in token")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:identity", userID)
		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var identity CachedIdentity
				if json.Unmarshal([]byte(cached), &identity) == nil {
					setContextAndProceed(c, &identity)
					return
				}
				slog.Warn("Failed to unmarshal cached identity", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Redis GET command failed", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := config.DB.First(&dbUser, userID).Error; err != nil {
			handleAuthError(c, "Invalid token")
			return
		}

		identity := CachedIdentity{
			UserID:     dbUser.ID,
			KerberosID: dbUser.KerberosID,
		}

		if config.RDB != nil {
			jsonData, err := json.Marshal(identity)
			if err != nil {
				slog.Error("Failed to marshal identity for caching", "error", err, "user_id", userID)
			} else if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, identityCacheTTL).Err(); err != nil {
				slog.Error("Failed to SET identity to cache", "error", err, "user_id", userID)
			}
		}

		setContextAndProceed(c, &identity)
	}
}

func setContextAndProceed(c *gin.Context, identity *CachedIdentity) {
	c.Set("user_id", identity.UserID)
	c.Set("kerberosId", identity.KerberosID)
	c.Next()
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": message})
	c.Abort()
}
