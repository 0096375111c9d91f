package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxpractice/internal/authz"
)

const testSecret = "test-signing-secret"

func seedUser(t *testing.T, store *memStore, email, password, role string) string {
	t.Helper()
	u, err := NewUserService(store, zap.NewNop()).Create(context.Background(), testActor, "Pat Smith", email, password, role)
	require.NoError(t, err)
	return u.ID
}

func TestLoginIssuesToken(t *testing.T) {
	store := newMemStore()
	userID := seedUser(t, store, "pat@firm.test", "hunter22!", authz.RolePreparer)
	svc := NewAuthService(store, testSecret, zap.NewNop())

	res, err := svc.Login(context.Background(), "pat@firm.test", "hunter22!")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, userID, res.User.ID)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(tok *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, authz.RolePreparer, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestLoginRejectsWithUniformError(t *testing.T) {
	store := newMemStore()
	userID := seedUser(t, store, "pat@firm.test", "hunter22!", authz.RolePreparer)
	svc := NewAuthService(store, testSecret, zap.NewNop())
	ctx := context.Background()

	_, badPassword := svc.Login(ctx, "pat@firm.test", "wrong")
	_, unknownEmail := svc.Login(ctx, "nobody@firm.test", "hunter22!")
	require.Error(t, badPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, badPassword.Error(), unknownEmail.Error(),
		"login errors must not reveal whether the account exists")

	require.NoError(t, NewUserService(store, zap.NewNop()).Deactivate(ctx, testActor, userID))
	_, deactivated := svc.Login(ctx, "pat@firm.test", "hunter22!")
	require.Error(t, deactivated)
	assert.Equal(t, badPassword.Error(), deactivated.Error())
}

func TestCreateUserValidation(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, "Pat", "pat@firm.test", "short", authz.RolePreparer)
	assert.Error(t, err, "password too short")

	_, err = svc.Create(ctx, testActor, "Pat", "pat@firm.test", "longenough", "INTERN")
	assert.Error(t, err, "unknown role")

	_, err = svc.Create(ctx, testActor, "Pat", "pat@firm.test", "longenough", authz.RoleManager)
	require.NoError(t, err)

	_, err = svc.Create(ctx, testActor, "Other Pat", "pat@firm.test", "longenough", authz.RoleManager)
	assert.Error(t, err, "duplicate email")
}
