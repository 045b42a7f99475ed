package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// AccessCodePrefix marks a bearer token as an access code rather than an API key.
const AccessCodePrefix = "nk-"

// verifiedCodeTTL bounds how long a verified code skips the argon2 check.
const verifiedCodeTTL = 5 * time.Minute

// Denial messages
const (
	MsgEmptyAccessCode = "empty access code"
	MsgWrongAccessCode = "wrong access code"
	MsgOwnAPIKey       = "you are not allowed to access with your own api key"
)

// AccessCodeAuthorizer admits clients holding a configured access code, or
// their own upstream API key unless HideUserAPIKey is set.
type AccessCodeAuthorizer struct {
	mu             sync.RWMutex
	hashes         []string
	hideUserAPIKey bool
	cache          *ristretto.Cache[string, bool]
}

// NewAccessCodeAuthorizer creates an authorizer over argon2id code hashes.
// cache may be nil, in which case every request pays for a hash check.
func NewAccessCodeAuthorizer(hashes []string, hideUserAPIKey bool, cache *ristretto.Cache[string, bool]) *AccessCodeAuthorizer {
	return &AccessCodeAuthorizer{
		hashes:         hashes,
		hideUserAPIKey: hideUserAPIKey,
		cache:          cache,
	}
}

// NewCodeCache creates the verified-code cache.
func NewCodeCache() (*ristretto.Cache[string, bool], error) {
	return ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: 1e4,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
}

// SetHashes replaces the accepted code hashes. Cached verifications are dropped.
func (a *AccessCodeAuthorizer) SetHashes(hashes []string) {
	a.mu.Lock()
	a.hashes = hashes
	a.mu.Unlock()

	if a.cache != nil {
		a.cache.Clear()
	}
}

// ParseAPIKey splits an Authorization header into an access code or an API key.
// Exactly one of the two is non-empty unless the header is empty.
func ParseAPIKey(bearer string) (accessCode, apiKey string) {
	token := strings.TrimSpace(strings.ReplaceAll(bearer, "Bearer ", ""))
	if strings.HasPrefix(token, AccessCodePrefix) {
		return strings.TrimPrefix(token, AccessCodePrefix), ""
	}
	return "", token
}

// Authorize implements Authorizer.
func (a *AccessCodeAuthorizer) Authorize(r *http.Request, provider string) Decision {
	accessCode, apiKey := ParseAPIKey(r.Header.Get("Authorization"))

	a.mu.RLock()
	hashes := a.hashes
	a.mu.RUnlock()

	if len(hashes) > 0 && !a.validCode(hashes, accessCode) && apiKey == "" {
		if accessCode == "" {
			return Deny(MsgEmptyAccessCode)
		}
		return Deny(MsgWrongAccessCode)
	}

	if a.hideUserAPIKey && apiKey != "" {
		return Deny(MsgOwnAPIKey)
	}

	return Decision{}
}

// validCode checks code against the configured hashes.
func (a *AccessCodeAuthorizer) validCode(hashes []string, code string) bool {
	if code == "" {
		return false
	}

	sum := sha256.Sum256([]byte(code))
	cacheKey := "code:" + hex.EncodeToString(sum[:])

	if a.cache != nil {
		if ok, found := a.cache.Get(cacheKey); found && ok {
			return true
		}
	}

	for _, hash := range hashes {
		if valid, _ := VerifySecret(code, hash); valid {
			if a.cache != nil {
				a.cache.SetWithTTL(cacheKey, true, 1, verifiedCodeTTL)
			}
			return true
		}
	}
	return false
}
