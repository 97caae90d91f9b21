package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/logging"
	"github.com/getgranularity/backend/internal/server/auth"
	"github.com/getgranularity/backend/internal/server/models"
)

// accessTokenHeader is the custom header carrying the bearer token.
const accessTokenHeader = "x-access-token"

// currentUserKey is the gin context key holding the authenticated user.
const currentUserKey = "currentUser"

// UserResolver resolves a user record by identifier. Satisfied by
// services.UserService.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AccessGuard validates the bearer token from the x-access-token header and
// resolves the authenticated user, placing it in the request context. It
// performs exactly one store lookup per request; resolved identities are
// never cached.
func AccessGuard(users UserResolver, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(accessTokenHeader)
		if token == "" {
			respondError(c, http.StatusUnauthorized, msgInvalidRequest)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, jwtSecret)
		if err != nil || userID == "" {
			respondError(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				respondError(c, http.StatusUnauthorized, msgUserGone)
				return
			}
			respondError(c, http.StatusInternalServerError, msgInternalError)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user resolved by AccessGuard.
func currentUser(c *gin.Context) *models.User {
	u, _ := c.Get(currentUserKey)
	user, _ := u.(*models.User)
	return user
}

// RequestLogger tags each request with an id and logs method, path, status
// and latency once the handler chain completes.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			"requestId", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// CORS allows requests from the configured origins. Requests without an
// Origin header (curl, mobile clients) pass through untouched.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if _, ok := allowed[origin]; !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+accessTokenHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
