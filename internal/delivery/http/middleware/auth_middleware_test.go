package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telehealth-backend/config"
	"telehealth-backend/internal/domain/entity"
	"telehealth-backend/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	jwtService *jwt.JWTService
	redis      *miniredis.Miniredis
	middleware *AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
	})

	return &authFixture{
		jwtService: jwtService,
		redis:      mr,
		middleware: NewAuthMiddleware(jwtService, client),
	}
}

// issue mints an access token and registers it in redis as non-revoked.
func (f *authFixture) issue(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()

	token, tokenID, err := f.jwtService.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	f.redis.Set(fmt.Sprintf("access_token:%s:%s", userID, tokenID), "1")
	return token
}

func (f *authFixture) do(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, string) {
	t.Helper()

	var gotUserID uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	f.middleware.Authenticate(next).ServeHTTP(rec, req)
	return rec, gotUserID, gotRole
}

func TestAuthenticate_ValidTokenSetsIdentity(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()
	token := f.issue(t, userID, entity.RoleUser)

	rec, gotUserID, gotRole := f.do(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, entity.RoleUser, gotRole)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	f := newAuthFixture(t)

	rec, _, _ := f.do(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	f := newAuthFixture(t)

	rec, _, _ := f.do(t, "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()
	token := f.issue(t, userID, entity.RoleUser)
	f.redis.FlushAll() // simulate logout

	rec, _, _ := f.do(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()

	token, tokenID, err := f.jwtService.GenerateRefreshToken(userID, entity.RoleUser)
	require.NoError(t, err)
	f.redis.Set(fmt.Sprintf("access_token:%s:%s", userID, tokenID), "1")

	rec, _, _ := f.do(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name     string
		role     string
		guard    func(http.Handler) http.Handler
		wantCode int
	}{
		{"admin passes admin guard", entity.RoleAdmin, RequireAdmin, http.StatusOK},
		{"user blocked by admin guard", entity.RoleUser, RequireAdmin, http.StatusForbidden},
		{"doctor passes doctor guard", entity.RoleDoctor, RequireDoctor, http.StatusOK},
		{"admin blocked by user guard", entity.RoleAdmin, RequireUser, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), UserRoleKey, tc.role))
			rec := httptest.NewRecorder()

			tc.guard(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}
