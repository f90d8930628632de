package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "  Alice@Example.com ",
		Password: "password1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", result.User.Name)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// Stored password is hashed
	user, err := env.userRepo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", user.Password)

	// Duplicate email is refused, case-insensitively
	_, err = env.auth.Register(ctx, &RegisterInput{
		Name:     "Imposter",
		Email:    "ALICE@example.com",
		Password: "password2",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	result, err := env.auth.Login(ctx, &LoginInput{
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.User.Name)
	assert.NotEmpty(t, result.AccessToken)

	_, err = env.auth.Login(ctx, &LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginInput{
		Email:    "nobody@example.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	claims, err := env.auth.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = env.auth.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	refreshed, err := env.auth.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is revoked by the rotation
	_, err = env.auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The new one still works
	_, err = env.auth.RefreshToken(ctx, refreshed.RefreshToken)
	require.NoError(t, err)

	_, err = env.auth.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, registered.RefreshToken))

	_, err = env.auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	// A second session
	login, err := env.auth.Login(ctx, &LoginInput{
		Email:    "alice@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.LogoutAll(ctx, registered.User.ID))

	_, err = env.auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = env.auth.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "Alice", "alice@example.com")

	got, err := env.auth.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = env.auth.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
