package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"github.com/spinquest/spinwheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles admin authentication
type AuthServiceImpl struct {
	adminRepo repositories.AdminRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{adminRepo: adminRepo, cfg: cfg}
}

// Login checks credentials and returns a signed JWT with the admin profile.
// Unknown usernames and bad passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Validation("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Validation("invalid credentials")
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Username, admin.Role, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	slog.Info("Admin logged in", "username", admin.Username)
	return &models.LoginResponse{Token: token, Admin: admin}, nil
}

// GetByID returns the admin profile for an authenticated session
func (s *AuthServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("admin not found")
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	return admin, nil
}

// Refresh issues a fresh JWT for a still-valid session
func (s *AuthServiceImpl) Refresh(ctx context.Context, id primitive.ObjectID) (string, error) {
	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Username, admin.Role, s.cfg)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// EnsureSuperAdmin seeds the superadmin account at startup when absent
func (s *AuthServiceImpl) EnsureSuperAdmin(ctx context.Context) error {
	_, err := s.adminRepo.FindByRole(ctx, models.RoleSuperAdmin)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check for superadmin: %w", err)
	}

	if s.cfg.Seed.SuperAdminPassword == "" {
		return errors.New("superadmin password is not configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Seed.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	admin := &models.Admin{
		Username: strings.ToLower(s.cfg.Seed.SuperAdminUsername),
		Password: string(hash),
		Role:     models.RoleSuperAdmin,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}
	slog.Info("Superadmin account created", "username", admin.Username)
	return nil
}
