package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopstock/internal/token"
	"shopstock/internal/util"
)

func TestHSProvider_SignAndParse(t *testing.T) {
	p := token.NewHSProvider("test-secret", "shopstock", "shopstock-api")
	ctx := context.Background()
	sub := uuid.New()

	raw, exp, err := p.SignAccess(ctx, sub, "ROLE_ADMIN", 15*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	gotSub, role, err := p.ParseAccess(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, sub, gotSub)
	assert.Equal(t, "ROLE_ADMIN", role)
}

func TestHSProvider_NewRefresh(t *testing.T) {
	p := token.NewHSProvider("test-secret", "shopstock", "shopstock-api")
	ctx := context.Background()

	opaque, hash, exp, err := p.NewRefresh(ctx, 720*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, opaque)
	assert.Equal(t, util.HashOpaque(opaque), hash)
	assert.WithinDuration(t, time.Now().Add(720*time.Hour), exp, 5*time.Second)

	// Two mints never collide.
	opaque2, hash2, _, err := p.NewRefresh(ctx, 720*time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, opaque, opaque2)
	assert.NotEqual(t, hash, hash2)
}

func TestHSProvider_RejectsWrongSecret(t *testing.T) {
	signer := token.NewHSProvider("secret-a", "shopstock", "shopstock-api")
	verifier := token.NewHSProvider("secret-b", "shopstock", "shopstock-api")
	ctx := context.Background()

	raw, _, err := signer.SignAccess(ctx, uuid.New(), "ROLE_CUSTOMER", time.Minute)
	require.NoError(t, err)

	_, _, err = verifier.ParseAccess(ctx, raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestHSProvider_RejectsWrongIssuerOrAudience(t *testing.T) {
	ctx := context.Background()
	signer := token.NewHSProvider("secret", "other-issuer", "shopstock-api")
	verifier := token.NewHSProvider("secret", "shopstock", "shopstock-api")

	raw, _, err := signer.SignAccess(ctx, uuid.New(), "ROLE_CUSTOMER", time.Minute)
	require.NoError(t, err)
	_, _, err = verifier.ParseAccess(ctx, raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	signer = token.NewHSProvider("secret", "shopstock", "other-audience")
	raw, _, err = signer.SignAccess(ctx, uuid.New(), "ROLE_CUSTOMER", time.Minute)
	require.NoError(t, err)
	_, _, err = verifier.ParseAccess(ctx, raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestHSProvider_RejectsExpired(t *testing.T) {
	p := token.NewHSProvider("secret", "shopstock", "shopstock-api")
	ctx := context.Background()

	raw, _, err := p.SignAccess(ctx, uuid.New(), "ROLE_CUSTOMER", -time.Minute)
	require.NoError(t, err)

	_, _, err = p.ParseAccess(ctx, raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestHSProvider_RejectsGarbage(t *testing.T) {
	p := token.NewHSProvider("secret", "shopstock", "shopstock-api")
	_, _, err := p.ParseAccess(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
