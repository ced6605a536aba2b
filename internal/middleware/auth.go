package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SiddhuQuant/dietec-api/internal/handler"
	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/service/identity"
	"github.com/SiddhuQuant/dietec-api/internal/session"
)

const contextUserKey = "user"

type AuthMiddleware struct {
	identitySvc *identity.Service
	provider    *session.Provider
}

func NewAuthMiddleware(identitySvc *identity.Service, provider *session.Provider) *AuthMiddleware {
	return &AuthMiddleware{
		identitySvc: identitySvc,
		provider:    provider,
	}
}

// Authenticate resolves the caller's identity and puts it in context.
// A bearer token identifies a patient session; without one, the cached
// doctor/admin record or the ambient provider session is consulted.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.resolveUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}
		if user.Role != role {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolveUser(c *gin.Context) *model.AuthUser {
	ctx := c.Request.Context()

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil
		}

		sess, err := m.provider.SessionFromToken(ctx, parts[1])
		if err != nil {
			return nil
		}
		return m.identitySvc.Resolve(ctx, &sess.UserID, sess.Email)
	}

	user, err := m.identitySvc.CurrentUser(ctx)
	if err != nil {
		return nil
	}
	return user
}

// CurrentUser returns the authenticated user placed in context by
// Authenticate.
func CurrentUser(c *gin.Context) (*model.AuthUser, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.AuthUser)
	return user, ok
}
