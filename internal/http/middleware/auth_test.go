package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/service"
)

type stubParser struct{}

func (stubParser) Parse(token string) (model.Principal, error) {
	if token == "bad" {
		return model.Principal{}, errors.New("bad token")
	}
	return model.Principal{Email: token}, nil
}

type stubResolver struct {
	caps map[string]permission.Set
	err  error
}

func (r stubResolver) Resolve(_ context.Context, principal model.Principal) (service.Actor, error) {
	if r.err != nil {
		return service.Actor{}, r.err
	}
	return service.Actor{Principal: principal, Caps: r.caps[principal.Email]}, nil
}

func newEngine(resolver ActorResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(stubParser{}, resolver, zerolog.Nop()))
	router.GET("/finance", Require(permission.Finance), func(c *gin.Context) {
		principal, _ := MustPrincipal(c)
		c.String(http.StatusOK, principal.Email)
	})
	router.GET("/users", RequireMaster(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func do(router *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	router := newEngine(stubResolver{})

	require.Equal(t, http.StatusUnauthorized, do(router, "/finance", "").Code)
	require.Equal(t, http.StatusUnauthorized, do(router, "/finance", "Basic abc").Code)
	require.Equal(t, http.StatusUnauthorized, do(router, "/finance", "Bearer bad").Code)
}

func TestAuthSignsOutWithoutAccess(t *testing.T) {
	router := newEngine(stubResolver{err: service.ErrNoAccess})

	rec := do(router, "/finance", "Bearer ana@lma.com")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["sign_out"])
}

func TestAuthStoreFailureIsInternal(t *testing.T) {
	router := newEngine(stubResolver{err: errors.New("store down")})
	require.Equal(t, http.StatusInternalServerError, do(router, "/finance", "Bearer ana@lma.com").Code)
}

func TestRequireCapability(t *testing.T) {
	router := newEngine(stubResolver{caps: map[string]permission.Set{
		"fin@lma.com": permission.NewSet(permission.Entry, permission.Finance),
		"ana@lma.com": permission.NewSet(permission.Entry),
	}})

	rec := do(router, "/finance", "bearer fin@lma.com")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fin@lma.com", rec.Body.String())

	require.Equal(t, http.StatusForbidden, do(router, "/finance", "Bearer ana@lma.com").Code)
	require.Equal(t, http.StatusForbidden, do(router, "/users", "Bearer fin@lma.com").Code)
	require.Equal(t, http.StatusOK, do(router, "/finance?access_token=fin@lma.com", "").Code)
}
