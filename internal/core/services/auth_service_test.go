package services

import (
	"context"
	"testing"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/adapters/persistence/repositories"
	"librahub/internal/core/domain"
	"librahub/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *UserService) {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	return NewAuthService(userRepo, roleRepo, testConfig()), NewUserService(userRepo, roleRepo)
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterInput{
		Email:    "a@x.com",
		Name:     "Alice",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "a@x.com", result.User.Email)
	assert.Equal(t, []string{models.RoleUser}, result.User.Roles)
	assert.True(t, result.User.IsActive)

	// The token carries identity and the role set
	claims, err := jwt.ValidateAccessToken(result.AccessToken, "test-secret", "librahub", "librahub-clients")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.True(t, claims.HasRole(models.RoleUser))
	assert.False(t, claims.HasRole(models.RoleManager))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "a@x.com", Name: "Alice", Password: "Passw0rd!"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{Email: "a@x.com", Name: "Clone", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "a@x.com", Name: "Alice", Password: "Passw0rd!"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginInput{Email: "a@x.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "a@x.com", result.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "a@x.com", Name: "Alice", Password: "Passw0rd!"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "a@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &LoginInput{Email: "nobody@x.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, userSvc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "a@x.com", Name: "Alice", Password: "Passw0rd!"})
	require.NoError(t, err)

	// Deactivate via an admin created separately
	admin, err := svc.Register(ctx, &RegisterInput{Email: "admin@x.com", Name: "Admin", Password: "Passw0rd!"})
	require.NoError(t, err)

	inactive := false
	_, err = userSvc.UpdateUserByAdmin(ctx, reg.User.ID, admin.User.ID, &UpdateUserByAdminInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "a@x.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefresh_ReflectsRoleChanges(t *testing.T) {
	svc, userSvc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Email: "a@x.com", Name: "Alice", Password: "Passw0rd!"})
	require.NoError(t, err)

	_, err = userSvc.AssignRole(ctx, reg.User.ID, models.RoleManager)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, reg.User.ID)
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(refreshed.AccessToken, "test-secret", "librahub", "librahub-clients")
	require.NoError(t, err)
	assert.True(t, claims.HasRole(models.RoleManager))
	assert.True(t, claims.HasRole(models.RoleUser))
}

func TestRefresh_UnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Refresh(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
