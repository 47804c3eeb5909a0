package gatekeeper

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"strings"
)

// IsUnavailable reports whether the failure was transient: the identity
// provider was unreachable, answered 5xx, or the breaker is open.
func IsUnavailable(err error) bool {
	return stderrors.Is(err, errGatekeeperTransient)
}

// IsTokenRejected reports whether the provider answered and declined the
// token, as opposed to being unable to answer.
func IsTokenRejected(err error) bool {
	return stderrors.Is(err, ErrTokenRejected)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func trimBaseURL(baseURL string) string {
	return strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
}

func buildURL(baseURL, path string) string {
	if path == "" {
		return baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}
