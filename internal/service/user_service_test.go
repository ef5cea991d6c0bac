package service

import (
	"context"
	"testing"

	"invoicing/internal/middleware"
	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	req := RegisterUserRequest{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "s3cret-pw",
		FullName: "Asha Rao",
		Role:     model.RoleInvoiceCreator,
	}

	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "asha", user.Username)
	assert.Equal(t, model.RoleInvoiceCreator, user.Role)
	assert.True(t, user.IsActive)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "s3cret-pw", stored.Password, "password must be stored hashed")

	t.Run("duplicate username", func(t *testing.T) {
		dup := req
		dup.Email = "other@example.com"
		_, err := svc.Register(ctx, dup)
		assert.ErrorContains(t, err, "username already exists")
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := req
		dup.Username = "asha2"
		_, err := svc.Register(ctx, dup)
		assert.ErrorContains(t, err, "email already exists")
	})

	t.Run("invalid role", func(t *testing.T) {
		bad := req
		bad.Username = "asha3"
		bad.Email = "asha3@example.com"
		bad.Role = "SuperUser"
		_, err := svc.Register(ctx, bad)
		assert.ErrorContains(t, err, "invalid role")
	})

	t.Run("invalid email", func(t *testing.T) {
		bad := req
		bad.Username = "asha4"
		bad.Email = "not-an-email"
		_, err := svc.Register(ctx, bad)
		assert.ErrorContains(t, err, "invalid email")
	})
}

func TestUserService_Login(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterUserRequest{
		Username: "vikram",
		Email:    "vikram@example.com",
		Password: "correct-horse",
		FullName: "Vikram Shah",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginRequest{Username: "vikram", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, registered.ID, result.UserID)
		assert.Equal(t, model.RoleAdmin, result.Role)

		claims, err := middleware.ParseToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "vikram", claims.Username)
		assert.Equal(t, model.RoleAdmin, claims.Role)
		assert.Equal(t, registered.ID.String(), claims.Subject)

		fetched, err := svc.GetUserByID(ctx, registered.ID.String())
		require.NoError(t, err)
		assert.NotNil(t, fetched.LastLoginAt, "login is recorded")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "vikram", Password: "wrong"})
		assert.ErrorContains(t, err, "invalid username or password")
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "whatever"})
		assert.ErrorContains(t, err, "invalid username or password")
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, svc.DeactivateUser(ctx, registered.ID.String()))

		_, err := svc.Login(ctx, LoginRequest{Username: "vikram", Password: "correct-horse"})
		assert.ErrorContains(t, err, "invalid username or password")

		// Still fetchable by id after deactivation.
		fetched, err := svc.GetUserByID(ctx, registered.ID.String())
		require.NoError(t, err)
		assert.False(t, fetched.IsActive)
	})
}

func TestUserService_Update(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterUserRequest{
		Username: "meera",
		Email:    "meera@example.com",
		Password: "first-pass",
		FullName: "Meera Iyer",
		Role:     model.RoleViewOnly,
	})
	require.NoError(t, err)

	role := model.RoleAdmin
	name := "Meera K. Iyer"
	password := "second-pass"

	updated, err := svc.UpdateUser(ctx, registered.ID.String(), UpdateUserRequest{
		Role:     &role,
		FullName: &name,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, "Meera K. Iyer", updated.FullName)

	_, err = svc.Login(ctx, LoginRequest{Username: "meera", Password: "second-pass"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginRequest{Username: "meera", Password: "first-pass"})
	assert.Error(t, err, "old password no longer works")

	t.Run("email collision", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterUserRequest{
			Username: "taken",
			Email:    "taken@example.com",
			Password: "whatever-pw",
			FullName: "Taken",
			Role:     model.RoleViewOnly,
		})
		require.NoError(t, err)

		email := "taken@example.com"
		_, err = svc.UpdateUser(ctx, registered.ID.String(), UpdateUserRequest{Email: &email})
		assert.ErrorContains(t, err, "email already exists")
	})
}
