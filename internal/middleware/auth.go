package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// ActorContextKey is the key the authenticated actor is stored under
const ActorContextKey = "actor"

var (
	ErrActorNotFound = errors.New("actor not found in context")
	ErrInvalidActor  = errors.New("invalid actor type")
)

// AuthMiddleware resolves the bearer token to an actor and adds it to the
// request context. Requests with a missing, malformed, expired or revoked
// token are rejected with 401 before any handler runs.
func AuthMiddleware(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose actor has a different
// role. Runs after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := GetActor(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if actor.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor extracts the authenticated actor from the context
func GetActor(c *gin.Context) (*models.Actor, error) {
	val, exists := c.Get(ActorContextKey)
	if !exists {
		return nil, ErrActorNotFound
	}

	actor, ok := val.(*models.Actor)
	if !ok {
		return nil, ErrInvalidActor
	}

	return actor, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
