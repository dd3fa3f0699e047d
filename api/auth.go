package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vocdoni/zk-governance/log"
	"golang.org/x/time/rate"
)

const (
	// APIKeyHeader carries the API key of a request. A bearer token in the
	// Authorization header is accepted as well.
	APIKeyHeader = "X-API-Key"

	// DefaultKeyRate and DefaultKeyBurst bound the requests of every API
	// key when the configuration leaves them unset.
	DefaultKeyRate  = 5
	DefaultKeyBurst = 20
)

// apiKey is a configured key with its own rate limiter.
type apiKey struct {
	key     []byte
	limiter *rate.Limiter
}

// keyAuth authenticates requests by API key and rate limits every key on
// its own.
type keyAuth struct {
	keys []apiKey
}

func newKeyAuth(keys []string, rps float64, burst int) *keyAuth {
	if rps <= 0 {
		rps = DefaultKeyRate
	}
	if burst <= 0 {
		burst = DefaultKeyBurst
	}
	ka := &keyAuth{}
	for _, k := range keys {
		if k == "" {
			continue
		}
		ka.keys = append(ka.keys, apiKey{key: []byte(k), limiter: rate.NewLimiter(rate.Limit(rps), burst)})
	}
	return ka
}

// limiter returns the limiter of key, or nil for unknown keys. Every
// configured key is compared so the lookup time does not depend on which
// one matches.
func (ka *keyAuth) limiter(key string) *rate.Limiter {
	var found *rate.Limiter
	for _, k := range ka.keys {
		if subtle.ConstantTimeCompare(k.key, []byte(key)) == 1 {
			found = k.limiter
		}
	}
	return found
}

func requestKey(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > len("Bearer ") && strings.EqualFold(auth[:len("Bearer ")], "Bearer ") {
		return auth[len("Bearer "):]
	}
	return ""
}

// Handler rejects requests without a known API key and those exceeding the
// rate of their key.
func (ka *keyAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := requestKey(r)
		if key == "" {
			ErrMissingAPIKey.Write(w)
			return
		}
		limiter := ka.limiter(key)
		if limiter == nil {
			log.Debugw("rejected API key", "path", r.URL.Path, "remote", r.RemoteAddr)
			ErrInvalidAPIKey.Write(w)
			return
		}
		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			ErrRateLimited.Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
