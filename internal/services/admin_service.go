package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AdminServiceImpl implements AdminService
var _ AdminService = (*AdminServiceImpl)(nil)

// AdminServiceImpl manages admin accounts (superadmin-only operations)
type AdminServiceImpl struct {
	adminRepo repositories.AdminRepository
}

// NewAdminService creates a new AdminServiceImpl
func NewAdminService(adminRepo repositories.AdminRepository) *AdminServiceImpl {
	return &AdminServiceImpl{adminRepo: adminRepo}
}

// List returns all admin accounts
func (s *AdminServiceImpl) List(ctx context.Context) ([]*models.Admin, error) {
	admins, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// Create adds a new admin account. At most one superadmin may exist.
func (s *AdminServiceImpl) Create(ctx context.Context, req *models.CreateAdminRequest, createdBy primitive.ObjectID) (*models.Admin, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 3 {
		return nil, apperrors.Validation("username must be at least 3 characters long")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters long")
	}
	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return nil, apperrors.Validation("role must be admin or superadmin")
	}

	if _, err := s.adminRepo.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.Validation("username already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if role == models.RoleSuperAdmin {
		if _, err := s.adminRepo.FindByRole(ctx, models.RoleSuperAdmin); err == nil {
			return nil, apperrors.Validation("only one superadmin is allowed")
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to check for superadmin: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:  username,
		Password:  string(hash),
		Role:      role,
		CreatedBy: &createdBy,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Validation("username already exists")
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("Admin account created", "username", admin.Username, "role", admin.Role, "createdBy", createdBy.Hex())
	return admin, nil
}

// Delete removes an admin account. The superadmin cannot be deleted, and no
// admin may delete itself.
func (s *AdminServiceImpl) Delete(ctx context.Context, id, requestedBy primitive.ObjectID) error {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("admin not found")
		}
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin.Role == models.RoleSuperAdmin {
		return apperrors.Validation("cannot delete the superadmin account")
	}
	if admin.ID == requestedBy {
		return apperrors.Validation("cannot delete your own account")
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	slog.Info("Admin account deleted", "username", admin.Username, "deletedBy", requestedBy.Hex())
	return nil
}
