package httpx

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-mesa/internal/auth"
)

const adminKey = "admin"

// Authorizer validates an admin bearer token.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer" token.
func RequireAdmin(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			Fail(c, auth.ErrUnauthorized)
			return
		}

		claims, err := a.Authorize(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			Fail(c, err)
			return
		}
		c.Set(adminKey, claims)
		c.Next()
	}
}

// Admin returns the claims stored by RequireAdmin.
func Admin(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
