package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fittrack/internal/domain"
	"fittrack/internal/token"
)

const contextCallerKey = "caller"

// AuthMiddleware validates the bearer token and stores the resulting caller
// identity in the request context. Requests without a valid token are
// rejected.
func AuthMiddleware(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFromHeader(c, tokens)
		if !ok {
			return
		}
		if caller.Anonymous() {
			abortWithError(c, http.StatusUnauthorized, "authorization header is missing")
			return
		}
		c.Set(contextCallerKey, caller)
		c.Next()
	}
}

func callerFromHeader(c *gin.Context, tokens *token.Manager) (domain.Caller, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return domain.Caller{}, true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		abortWithError(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}")
		return domain.Caller{}, false
	}
	claims, err := tokens.Parse(parts[1])
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return domain.Caller{}, false
	}
	caller, err := claims.Caller()
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return domain.Caller{}, false
	}
	return caller, true
}

// RequireRoles rejects callers holding none of the listed roles. Must run
// after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := currentCaller(c)
		if caller.Anonymous() {
			abortWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if caller.HasRole(role) {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "insufficient role")
	}
}

func currentCaller(c *gin.Context) domain.Caller {
	raw, exists := c.Get(contextCallerKey)
	if !exists {
		return domain.Caller{}
	}
	caller, ok := raw.(domain.Caller)
	if !ok {
		return domain.Caller{}
	}
	return caller
}
