package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Pair holds the access/refresh bearer credentials issued by the API.
// The two tokens are always stored and cleared together.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (p Pair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// AccessExpiresAt returns the expiry claim of the access token. The token is
// parsed without signature verification: the client never holds the signing
// key, it only needs the timestamp to decide when a proactive refresh is
// worthwhile. Returns the zero time when the token is opaque or carries no
// expiry.
func (p Pair) AccessExpiresAt() time.Time {
	if p.Access == "" {
		return time.Time{}
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(p.Access, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Expired reports whether the access token's expiry claim has passed.
// Opaque tokens never report expired; the server remains the authority.
func (p Pair) Expired(now time.Time) bool {
	exp := p.AccessExpiresAt()
	if exp.IsZero() {
		return false
	}
	return now.After(exp)
}
