package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookswap/internal/common/security"
	"bookswap/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, mw ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	security.InitJWT([]byte("middleware-test"), time.Hour)
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetUserIDFromContext(r.Context())
		role, _ := GetUserRoleFromContext(r.Context())
		w.Write([]byte(id + ":" + role))
	})
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return jwtauth.Verifier(security.TokenAuth)(h)
}

func call(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator(t *testing.T) {
	h := protected(t, Authenticator)

	rec := call(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization token required")

	rec = call(h, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")

	token, err := security.GenerateToken("u1", model.RoleSeeker)
	require.NoError(t, err)
	rec = call(h, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1:seeker", rec.Body.String())
}

func TestAuthenticator_MissingUserID(t *testing.T) {
	h := protected(t, Authenticator)
	_, token, err := security.TokenAuth.Encode(map[string]interface{}{"role": model.RoleOwner})
	require.NoError(t, err)

	rec := call(h, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token claims")
}

func TestOwnerOnly(t *testing.T) {
	h := protected(t, Authenticator, OwnerOnly)

	seeker, err := security.GenerateToken("u1", model.RoleSeeker)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call(h, seeker).Code)

	owner, err := security.GenerateToken("u2", model.RoleOwner)
	require.NoError(t, err)
	rec := call(h, owner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2:owner", rec.Body.String())
}
