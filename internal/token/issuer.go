package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token that failed signature or lifetime checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by issued tokens: the subject's username and
// the names of its roles, plus the registered expiry.
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issuer builds and verifies HMAC-SHA256 signed bearer tokens. Issuer and
// audience are deliberately not set or validated; the deployment is
// single-tenant.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given subject with the configured TTL.
func (i *Issuer) Issue(name string, roles []string) (string, error) {
	return i.IssueWithTTL(name, roles, i.ttl)
}

// IssueWithTTL signs a token expiring at now + ttl.
func (i *Issuer) IssueWithTTL(name string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and lifetime and returns the claims. Only HS256
// tokens are accepted.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
