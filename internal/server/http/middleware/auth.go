package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/server/http/response"
)

const (
	// RequesterContextKey is a gin context key for the authenticated model.Requester.
	RequesterContextKey = "requester"
	AuthCookieName      = "eshop_token"
)

// RequesterResolver turns a bearer token into the calling user.
type RequesterResolver interface {
	Requester(ctx context.Context, token string) (model.Requester, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(resolver RequesterResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, domainErrors.ErrUnauthorized)
			return
		}

		req, err := resolver.Requester(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(RequesterContextKey, req)
		c.Next()
	}
}

// CurrentRequester returns the requester stored by AuthRequired.
func CurrentRequester(c *gin.Context) model.Requester {
	val, ok := c.Get(RequesterContextKey)
	if !ok {
		return model.Requester{}
	}
	req, _ := val.(model.Requester)
	return req
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(AuthCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
