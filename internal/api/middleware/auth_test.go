package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"media-tracker/internal/core/identity"
	"media-tracker/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	identity *identity.Identity
	err      error
	gotCred  string
}

func (s *stubResolver) Resolve(ctx context.Context, credential string) (*identity.Identity, error) {
	s.gotCred = credential
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func authRouter(resolver identity.Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(resolver), func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID})
	})
	return router
}

func TestAuth_SessionCookie(t *testing.T) {
	resolver := &stubResolver{identity: &identity.Identity{UserID: "user-1"}}
	router := authRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-cred"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cookie-cred", resolver.gotCred)
}

func TestAuth_BearerFallback(t *testing.T) {
	resolver := &stubResolver{identity: &identity.Identity{UserID: "user-1"}}
	router := authRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer header-cred")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "header-cred", resolver.gotCred)
}

func TestAuth_CookieWinsOverHeader(t *testing.T) {
	resolver := &stubResolver{identity: &identity.Identity{UserID: "user-1"}}
	router := authRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-cred"})
	req.Header.Set("Authorization", "Bearer header-cred")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cookie-cred", resolver.gotCred)
}

func TestAuth_NoCredential(t *testing.T) {
	resolver := &stubResolver{identity: &identity.Identity{UserID: "user-1"}}
	router := authRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, resolver.gotCred, "resolver must not be called without a credential")
	assert.Contains(t, rec.Body.String(), common.ErrInvalidSession.Code)
}

func TestAuth_ResolutionFailure(t *testing.T) {
	resolver := &stubResolver{err: common.ErrInvalidSession}
	router := authRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "expired"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
