package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/pkg/apperror"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
	"github.com/oksasatya/pet-adoption-api/pkg/response"
)

const (
	CtxCurrentUserKey = "currentUser"
	CtxUserIDKey      = "userID"
	CtxUserRoleKey    = "userRole"
)

// TokenVerifier is satisfied by *helpers.JWTManager.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// UserLookup resolves the subject of a verified token.
type UserLookup interface {
	Lookup(ctx context.Context, id int64) (*entity.User, error)
}

// Guard authenticates bearer tokens and enforces roles on protected routes.
type Guard struct {
	Tokens TokenVerifier
	Users  UserLookup
	// CookieFallback lets browser clients send the token in the access_token cookie.
	CookieFallback bool
}

func NewGuard(tokens TokenVerifier, users UserLookup, cookieFallback bool) *Guard {
	return &Guard{Tokens: tokens, Users: users, CookieFallback: cookieFallback}
}

// Require admits an authenticated user holding one of roles. With no roles
// any authenticated user passes.
func (g *Guard) Require(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := g.extract(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		claims, err := g.Tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "token expired"
			}
			response.Abort(c, http.StatusUnauthorized, msg, nil)
			return
		}
		id, err := claims.UserID()
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		user, err := g.Users.Lookup(c.Request.Context(), id)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindNotFound {
				response.Abort(c, http.StatusUnauthorized, "user not found", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		if len(roles) > 0 && !hasRole(user.Role, roles) {
			response.Abort(c, http.StatusForbidden, "forbidden: insufficient role", map[string]any{
				"required": roles,
				"role":     user.Role,
			})
			return
		}

		c.Set(CtxCurrentUserKey, user)
		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUserRoleKey, string(user.Role))
		c.Next()
	}
}

func (g *Guard) extract(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if g.CookieFallback {
			if token, err := c.Cookie(helpers.AccessCookieName); err == nil && token != "" {
				return token, true
			}
		}
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func hasRole(have entity.Role, want []entity.Role) bool {
	for _, r := range want {
		if r == have {
			return true
		}
	}
	return false
}

// CurrentUser returns the user stored by Guard.Require.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxCurrentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
