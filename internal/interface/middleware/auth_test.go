package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/pkg/apperror"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

type failingUsers struct{ err error }

func (f failingUsers) Lookup(context.Context, int64) (*entity.User, error) { return nil, f.err }

type stubUsers map[int64]*entity.User

func (s stubUsers) Lookup(_ context.Context, id int64) (*entity.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user not found")
}

var (
	org     = &entity.User{ID: 1, Name: "Shelter", Role: entity.RoleOrganization}
	adopter = &entity.User{ID: 2, Name: "Ana", Role: entity.RoleAdopter}
)

func newGuardRouter(t *testing.T, jwt *helpers.JWTManager, cookie bool, roles ...entity.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := NewGuard(jwt, stubUsers{org.ID: org, adopter.ID: adopter}, cookie)
	r := gin.New()
	r.GET("/protected", g.Require(roles...), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, "%d:%s:%d", u.ID, c.GetString(CtxUserRoleKey), c.GetInt64(CtxUserIDKey))
	})
	return r
}

func do(r http.Handler, header, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.AccessCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issue(t *testing.T, jwt *helpers.JWTManager, u *entity.User) string {
	token, _, err := jwt.Issue(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func TestGuardRoleEnforcement(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newGuardRouter(t, jwt, false, entity.RoleOrganization)

	w := do(r, "Bearer "+issue(t, jwt, org), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1:organization:1", w.Body.String())

	w = do(r, "Bearer "+issue(t, jwt, adopter), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGuardAnyAuthenticated(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newGuardRouter(t, jwt, false)

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+issue(t, jwt, adopter), "").Code)
	assert.Equal(t, http.StatusOK, do(r, "bearer "+issue(t, jwt, org), "").Code)
}

func TestGuardRejectsMissingOrBadTokens(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newGuardRouter(t, jwt, false, entity.RoleOrganization)
	valid := issue(t, jwt, org)

	for name, header := range map[string]string{
		"missing":      "",
		"wrong scheme": "Basic " + valid,
		"no token":     "Bearer ",
		"garbage":      "Bearer abc.def.ghi",
		"other secret": "Bearer " + issue(t, helpers.NewJWTManager("other", time.Hour), org),
		"ghost user":   "Bearer " + issue(t, jwt, &entity.User{ID: 99, Role: entity.RoleOrganization}),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(r, header, "").Code)
		})
	}
}

func TestGuardExpiredTokenMessage(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	old := helpers.NewJWTManager("secret", time.Hour, helpers.WithClock(func() time.Time { return issued }))
	r := newGuardRouter(t, helpers.NewJWTManager("secret", time.Hour), false)

	w := do(r, "Bearer "+issue(t, old, org), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestGuardCookieFallback(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token := issue(t, jwt, adopter)

	assert.Equal(t, http.StatusUnauthorized, do(newGuardRouter(t, jwt, false), "", token).Code)
	assert.Equal(t, http.StatusOK, do(newGuardRouter(t, jwt, true), "", token).Code)
}

func TestGuardLookupFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token := issue(t, jwt, org)

	for _, tc := range []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"deleted user", apperror.NotFound("user not found"), http.StatusUnauthorized, "user not found"},
		{"store down", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
		{"internal kind", apperror.Internal(errors.New("timeout")), http.StatusInternalServerError, "internal server error"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/protected", NewGuard(jwt, failingUsers{tc.err}, false).Require(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := do(r, "Bearer "+token, "")
			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), tc.msg)
		})
	}
}
