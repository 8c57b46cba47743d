package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nanorand/nanorand"

	"shopstock/internal/util"
)

var ErrInvalidToken = errors.New("invalid token")

// HSProvider signs and verifies HS256 access tokens.
type HSProvider struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewHSProvider(secret, issuer, audience string) *HSProvider {
	return &HSProvider{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (p *HSProvider) SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)

	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   sub.String(),
			Audience:  []string{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	return signed, exp, err
}

// NewRefresh mints an opaque refresh token. The client gets the opaque
// value once; the server keeps only its hash.
func (p *HSProvider) NewRefresh(ctx context.Context, ttl time.Duration) (opaque, hash string, exp time.Time, err error) {
	exp = p.now().Add(ttl)
	opaque, err = nanorand.Gen(48)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return opaque, util.HashOpaque(opaque), exp, nil
}

// ParseAccess verifies the signature, issuer, audience and expiry, and
// returns the subject id with its role.
func (p *HSProvider) ParseAccess(ctx context.Context, raw string) (uuid.UUID, string, error) {
	var claims accessClaims
	t, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !t.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	return sub, claims.Role, nil
}
