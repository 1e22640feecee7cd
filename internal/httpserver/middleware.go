package httpserver

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore/internal/domain"
	customersvc "bookstore/internal/service/customer"
)

const (
	userCtxKey      = "currentUser"
	requestIDHeader = "X-Request-ID"
)

// requestIDMiddleware tags every request with an id for log correlation.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// authMiddleware resolves an optional bearer token into the current user.
// Requests without a token pass through as guests; requests with an invalid
// token are rejected so callers notice expired sessions.
func authMiddleware(customers *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			respondError(c, domain.ErrUnauthenticated)
			c.Abort()
			return
		}
		u, err := customers.LookupByToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, customersvc.ErrInvalidToken)
			c.Abort()
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

// requireUser rejects requests that did not authenticate.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			respondError(c, domain.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

// identityFromRequest resolves exactly one identity for cart operations: the
// authenticated user when present, otherwise the caller's guest session token
// from the request body, query string, or header. Returns a zero identity
// when nothing is supplied; add-to-cart mints a fresh token in that case.
func identityFromRequest(c *gin.Context, bodyToken string) domain.Identity {
	if u, ok := currentUser(c); ok {
		return domain.UserIdentity(u.ID)
	}
	token := strings.TrimSpace(bodyToken)
	if token == "" {
		token = strings.TrimSpace(c.Query("session_token"))
	}
	if token == "" {
		token = strings.TrimSpace(c.GetHeader("X-Session-Token"))
	}
	if token == "" {
		return domain.Identity{}
	}
	return domain.GuestIdentity(token)
}
