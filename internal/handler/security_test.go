package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamkart/roamkart/internal/domain/auth"
)

// --- Mock implementations ---

type mockAPIKeyRepo struct {
	byHash map[string]*auth.APIKeyInfo
}

func (m *mockAPIKeyRepo) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	info, ok := m.byHash[hash]
	if !ok {
		return nil, errors.New("api key not found")
	}
	return info, nil
}

// --- Helpers ---

const testPepper = "test-pepper"

func hashKey(key string) string {
	mac := hmac.New(sha256.New, []byte(testPepper))
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestSecurity(keys ...*auth.APIKeyInfo) *Security {
	byHash := make(map[string]*auth.APIKeyInfo, len(keys))
	for _, k := range keys {
		byHash[k.KeyHash] = k
	}
	return NewSecurity(&mockAPIKeyRepo{byHash: byHash}, []byte(testPepper))
}

func identityEcho(t *testing.T, wantID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, info.ID)
		w.WriteHeader(http.StatusOK)
	}
}

// --- Tests ---

func TestRequireAuth_ValidKey(t *testing.T) {
	sec := newTestSecurity(&auth.APIKeyInfo{ID: "u1", KeyHash: hashKey("secret")})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("api_key", "secret")
	rec := httptest.NewRecorder()

	sec.RequireAuth(identityEcho(t, "u1")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingKey(t *testing.T) {
	sec := newTestSecurity()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()

	sec.RequireAuth(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestRequireAuth_UnknownKey(t *testing.T) {
	sec := newTestSecurity(&auth.APIKeyInfo{ID: "u1", KeyHash: hashKey("secret")})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("api_key", "wrong")
	rec := httptest.NewRecorder()

	sec.RequireAuth(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_WithScope(t *testing.T) {
	sec := newTestSecurity(&auth.APIKeyInfo{
		ID: "admin", KeyHash: hashKey("admin-key"), Scopes: []string{auth.ScopeAdmin},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("api_key", "admin-key")
	rec := httptest.NewRecorder()

	sec.RequireAdmin(identityEcho(t, "admin")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_WithoutScope(t *testing.T) {
	sec := newTestSecurity(&auth.APIKeyInfo{ID: "u1", KeyHash: hashKey("secret")})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("api_key", "secret")
	rec := httptest.NewRecorder()

	sec.RequireAdmin(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin scope required")
}

func TestRequireAdmin_Anonymous(t *testing.T) {
	sec := newTestSecurity()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rec := httptest.NewRecorder()

	sec.RequireAdmin(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
