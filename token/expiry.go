package token

import "time"

// IsExpired reports whether the token's validity window has elapsed: exp <= now,
// compared in whole seconds since epoch. Nil claims, or claims without exp, are
// reported as expired; callers must handle a failed decode before asking.
func IsExpired(claims *Claims, now time.Time) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Unix() <= now.Unix()
}
