package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officegames/rating-system/models"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, []byte("test-secret"))
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	userID, role, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RolePlayer, role)
}

func TestAuthRegisterValidation(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, []byte("test-secret"))
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "alice@example.com", "long enough")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Register(ctx, "Alice", "not-an-email", "long enough")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Register(ctx, "Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, []byte("test-secret"))
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "battery staple")
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, []byte("test-secret"))
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestAuthParseTokenRejectsForgery(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, []byte("test-secret"))
	other := NewAuthService(users, []byte("other-secret"))
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)

	_, _, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
