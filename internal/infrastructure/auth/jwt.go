package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims we accept from the identity provider's access
// tokens. The provider issues tokens; this service only validates them.
type Claims struct {
	Subject     string `json:"sub"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Admin       bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenValidator validates provider-issued HS256 access tokens
type TokenValidator struct {
	secret    []byte
	issuer    string
	audience  string
	clockSkew time.Duration
}

// NewTokenValidator creates a validator sharing the provider's signing secret
func NewTokenValidator(secret, issuer, audience string, clockSkew time.Duration) *TokenValidator {
	return &TokenValidator{
		secret:    []byte(secret),
		issuer:    issuer,
		audience:  audience,
		clockSkew: clockSkew,
	}
}

// Validate parses and verifies an access token and returns its claims
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		claims.Subject = claims.RegisteredClaims.Subject
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}
