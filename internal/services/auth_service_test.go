package services

import (
	"context"
	"testing"

	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
		Seed: config.SeedConfig{
			SuperAdminUsername: "superadmin",
			SuperAdminPassword: "seed-password",
		},
	}
}

func TestEnsureSuperAdminSeedsOnce(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(repo, testAuthConfig())

	require.NoError(t, svc.EnsureSuperAdmin(context.Background()))
	require.NoError(t, svc.EnsureSuperAdmin(context.Background()))

	admins, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "superadmin", admins[0].Username)
	assert.Equal(t, models.RoleSuperAdmin, admins[0].Role)
	assert.NotEqual(t, "seed-password", admins[0].Password, "password must be stored hashed")
}

func TestEnsureSuperAdminRequiresConfiguredPassword(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Seed.SuperAdminPassword = ""
	svc := NewAuthService(newFakeAdminRepo(), cfg)

	assert.Error(t, svc.EnsureSuperAdmin(context.Background()))
}

func TestLogin(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(repo, testAuthConfig())
	require.NoError(t, svc.EnsureSuperAdmin(context.Background()))

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &models.LoginRequest{
			Username: "SuperAdmin",
			Password: "seed-password",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "superadmin", resp.Admin.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Username: "superadmin",
			Password: "wrong",
		})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("unknown user reports the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Username: "nobody",
			Password: "seed-password",
		})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestAdminCreateRules(t *testing.T) {
	repo := newFakeAdminRepo()
	authSvc := NewAuthService(repo, testAuthConfig())
	require.NoError(t, authSvc.EnsureSuperAdmin(context.Background()))
	svc := NewAdminService(repo)
	creator := primitive.NewObjectID()

	t.Run("creates a regular admin", func(t *testing.T) {
		admin, err := svc.Create(context.Background(), &models.CreateAdminRequest{
			Username: "Operator",
			Password: "secret1",
		}, creator)
		require.NoError(t, err)
		assert.Equal(t, "operator", admin.Username)
		assert.Equal(t, models.RoleAdmin, admin.Role)
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &models.CreateAdminRequest{
			Username: "ab",
			Password: "secret1",
		}, creator)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &models.CreateAdminRequest{
			Username: "operator2",
			Password: "short",
		}, creator)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &models.CreateAdminRequest{
			Username: "operator",
			Password: "secret1",
		}, creator)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("rejects second superadmin", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &models.CreateAdminRequest{
			Username: "boss2",
			Password: "secret1",
			Role:     models.RoleSuperAdmin,
		}, creator)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestAdminDeleteRules(t *testing.T) {
	repo := newFakeAdminRepo()
	authSvc := NewAuthService(repo, testAuthConfig())
	require.NoError(t, authSvc.EnsureSuperAdmin(context.Background()))
	svc := NewAdminService(repo)

	super, err := repo.FindByRole(context.Background(), models.RoleSuperAdmin)
	require.NoError(t, err)

	admin, err := svc.Create(context.Background(), &models.CreateAdminRequest{
		Username: "operator",
		Password: "secret1",
	}, super.ID)
	require.NoError(t, err)

	t.Run("superadmin cannot be deleted", func(t *testing.T) {
		err := svc.Delete(context.Background(), super.ID, admin.ID)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("self-deletion is refused", func(t *testing.T) {
		err := svc.Delete(context.Background(), admin.ID, admin.ID)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("unknown admin", func(t *testing.T) {
		err := svc.Delete(context.Background(), primitive.NewObjectID(), super.ID)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("regular admin is deleted", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), admin.ID, super.ID))
		_, err := repo.FindByID(context.Background(), admin.ID)
		assert.Error(t, err)
	})
}
