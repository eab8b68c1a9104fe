package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/service"
)

const (
	principalKey = "principal"
	actorKey     = "actor"
)

type TokenParser interface {
	Parse(token string) (model.Principal, error)
}

type ActorResolver interface {
	Resolve(ctx context.Context, principal model.Principal) (service.Actor, error)
}

// Auth authenticates the bearer token and resolves the caller's capabilities
// once per request. A caller without any access is told to sign out.
func Auth(parser TokenParser, resolver ActorResolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token := ""
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			token = strings.TrimSpace(header[7:])
		}
		if token == "" {
			// EventSource cannot set headers.
			token = strings.TrimSpace(c.Query("access_token"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), principal)
		switch {
		case errors.Is(err, service.ErrNoAccess):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no access", "sign_out": true})
			return
		case err != nil:
			log.Error().Err(err).Str("email", principal.Email).Msg("resolve permissions failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(principalKey, principal)
		c.Set(actorKey, actor)
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}

func MustActor(c *gin.Context) (service.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := value.(service.Actor)
	return actor, ok
}

// Require rejects callers without capability.
func Require(capability permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := MustActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}
		if !actor.Caps.Has(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

func RequireMaster() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := MustActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}
		if !actor.Master {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
