package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/service"
	"github.com/identity-service/backend/internal/token"
)

const principalKey = "auth_principal"

// AuthMiddleware verifies the bearer access token and stores the resolved
// principal in the request context. Handlers read it once and pass it down
// explicitly.
func AuthMiddleware(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortError(c, apperr.New(apperr.Unauthenticated))
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := codec.Verify(raw)
		if err != nil || codec.Expired(claims) {
			abortError(c, apperr.New(apperr.Unauthenticated))
			return
		}

		c.Set(principalKey, &model.Principal{
			Username:    claims.Subject,
			Authorities: service.AuthoritiesFromScope(claims.Scope),
		})
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) *model.Principal {
	if value, ok := c.Get(principalKey); ok {
		if principal, ok := value.(*model.Principal); ok {
			return principal
		}
	}
	return nil
}
