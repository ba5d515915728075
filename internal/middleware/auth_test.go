package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// stubAuthService accepts a single known token
type stubAuthService struct {
	token string
	actor *models.Actor
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*models.Actor, error) {
	if token == s.token {
		return s.actor, nil
	}
	return nil, apperrors.ErrUnauthenticated
}

func (s *stubAuthService) Signup(context.Context, *models.SignupRequest) (*models.User, error) {
	return nil, nil
}
func (s *stubAuthService) Login(context.Context, string, string) (string, error) { return "", nil }
func (s *stubAuthService) Logout(context.Context, *models.Actor) error           { return nil }
func (s *stubAuthService) GetUser(context.Context, int) (*models.User, error)    { return nil, nil }

func newAuthTestRouter(handlerCalled *bool, extra ...gin.HandlerFunc) *gin.Engine {
	auth := &stubAuthService{
		token: "good-token",
		actor: &models.Actor{UserID: 1, Role: models.RoleMentee, TokenID: "tok-1"},
	}

	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	router.GET("/test", handlers...)
	return router
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	handlerCalled := false
	router := newAuthTestRouter(&handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handlerCalled := false
	router := newAuthTestRouter(&handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"good-token", "Basic good-token", "Bearer", "Bearer "} {
		handlerCalled := false
		router := newAuthTestRouter(&handlerCalled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.False(t, handlerCalled, "header %q must be rejected", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	handlerCalled := false
	router := newAuthTestRouter(&handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ActorInContext(t *testing.T) {
	auth := &stubAuthService{
		token: "good-token",
		actor: &models.Actor{UserID: 42, Email: "u@example.com", Role: models.RoleMentor, TokenID: "tok-42"},
	}

	var got *models.Actor
	router := gin.New()
	router.GET("/test", AuthMiddleware(auth), func(c *gin.Context) {
		actor, err := GetActor(c)
		assert.NoError(t, err)
		got = actor
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, 42, got.UserID)
	assert.Equal(t, models.RoleMentor, got.Role)
}

func TestRequireRole(t *testing.T) {
	handlerCalled := false
	router := newAuthTestRouter(&handlerCalled, RequireRole(models.RoleMentee))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	handlerCalled := false
	router := newAuthTestRouter(&handlerCalled, RequireRole(models.RoleMentor))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetActor_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetActor(c)
	assert.ErrorIs(t, err, ErrActorNotFound)
}
