package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/roamkart/roamkart/internal/domain/auth"
)

// identityKey is the context key for the authenticated API key.
type identityKey struct{}

// IdentityFromContext extracts the authenticated key from the context.
func IdentityFromContext(ctx context.Context) (*auth.APIKeyInfo, bool) {
	info, ok := ctx.Value(identityKey{}).(*auth.APIKeyInfo)
	return info, ok
}

// Security authenticates requests via HMAC-SHA256 hashed API keys carried in
// the api_key header.
type Security struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurity creates a Security guard with the given API key repository and
// HMAC pepper.
func NewSecurity(apikeys auth.Repository, pepper []byte) *Security {
	return &Security{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// authenticate resolves the request's API key, if any. A present-but-invalid
// key is an error; an absent key is an anonymous request.
func (s *Security) authenticate(r *http.Request) (*auth.APIKeyInfo, bool, error) {
	key := r.Header.Get("api_key")
	if key == "" {
		return nil, false, nil
	}

	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(key))
	hash := mac.Sum(nil)

	info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
	if err != nil {
		return nil, false, err
	}

	storedBytes, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return nil, false, err
	}
	if subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
		return nil, false, errInvalidKey
	}

	return info, true, nil
}

var errInvalidKey = errors.New("invalid api key")

// RequireAuth wraps a handler so it only runs with a valid identity in
// context. Responds 401 otherwise.
func (s *Security) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok, err := s.authenticate(r)
		if err != nil || !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, info)
		next(w, r.WithContext(ctx))
	})
}

// RequireAdmin is RequireAuth plus the admin scope. Responds 403 for valid
// keys without the scope.
func (s *Security) RequireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok, err := s.authenticate(r)
		if err != nil || !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !info.HasScope(auth.ScopeAdmin) {
			respondError(w, http.StatusForbidden, "admin scope required")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, info)
		next(w, r.WithContext(ctx))
	})
}
