package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

func TestUserService_SignupAndLogin(t *testing.T) {
	f := newFixture(t, pricing.Calculator{})
	ctx := context.Background()

	assert.Equal(t, "owner@example.com", f.user.Email)
	assert.NotEqual(t, "secret123", f.user.Password)

	_, err := f.users.Signup(ctx, " OWNER@example.com", "another1", "")
	require.ErrorIs(t, err, ErrEmailTaken)

	u, err := f.users.Login(ctx, "owner@EXAMPLE.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, u.ID)

	_, err = f.users.Login(ctx, "owner@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	assert.True(t, f.users.Exists(ctx, f.user.ID))
	assert.False(t, f.users.Exists(ctx, 999))
}

func TestUserService_ProfileAndPassword(t *testing.T) {
	f := newFixture(t, pricing.Calculator{})
	ctx := context.Background()
	other := f.secondUser(t)

	_, err := f.users.UpdateProfile(ctx, f.user.ID, "New", other.Email)
	require.ErrorIs(t, err, ErrEmailTaken)

	u, err := f.users.UpdateProfile(ctx, f.user.ID, " New Name ", "Renamed@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	assert.Equal(t, "renamed@example.com", u.Email)

	require.ErrorIs(t, f.users.ChangePassword(ctx, f.user.ID, "bad", "newsecret1"), ErrWrongPassword)
	require.NoError(t, f.users.ChangePassword(ctx, f.user.ID, "secret123", "newsecret1"))

	_, err = f.users.Login(ctx, "renamed@example.com", "newsecret1")
	require.NoError(t, err)
	_, err = f.users.Get(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}
