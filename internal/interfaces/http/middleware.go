package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
)

const identityKey = "identity"

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware logs one line per request
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("latency", time.Since(start).String()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// corsMiddleware adds CORS headers for the browser front end
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authMiddleware verifies the bearer token and stores the caller's identity
func authMiddleware(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing or malformed authorization header",
			})
			return
		}

		ident, err := tokens.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(identityKey, *ident)
		c.Next()
	}
}

// requireStaff restricts a route group to mechanics and admins
func requireStaff() gin.HandlerFunc {
	return requireRoles(models.RoleMechanic, models.RoleAdmin)
}

// requireAdmin restricts a route group to admins
func requireAdmin() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin)
}

func requireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identityFrom(c)
		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "insufficient permissions",
		})
	}
}

// identityFrom returns the authenticated caller. Routes behind
// authMiddleware always have one.
func identityFrom(c *gin.Context) auth.Identity {
	v, _ := c.Get(identityKey)
	ident, _ := v.(auth.Identity)
	return ident
}
