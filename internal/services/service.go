package services

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeService defines the interface for prize table operations
type PrizeService interface {
	// ListPrizes returns the 8 slots ordered by position; empty when uninitialized
	ListPrizes(ctx context.Context) ([]models.PrizeSlot, error)

	// ReplaceAll validates and replaces the whole prize table as a set
	ReplaceAll(ctx context.Context, inputs []models.PrizeSlotInput) ([]models.PrizeSlot, error)

	// EnsureInitialized seeds the default table once; idempotent
	EnsureInitialized(ctx context.Context) error
}

// TokenService defines the interface for the token lifecycle
type TokenService interface {
	// Issue creates quantity tokens in bulk. When unique-code generation fails
	// partway through, tokens already persisted are kept and returned along
	// with the error so callers can report created vs requested.
	Issue(ctx context.Context, quantity int, createdBy primitive.ObjectID) ([]models.IssuedToken, error)

	// Validate is the read-only pre-check exposed to the public caller
	Validate(ctx context.Context, code string) (*models.Token, error)

	// MarkUsed applies the conditional used transition; invoked only by the
	// redemption engine. Reports a CONFLICT error when the token was no
	// longer unused and unexpired at write time.
	MarkUsed(ctx context.Context, tokenID, resultID primitive.ObjectID, now time.Time) error

	// List returns a page of tokens filtered by derived status
	List(ctx context.Context, status models.TokenStatus, page, limit int) ([]*models.Token, int64, error)

	// Stats counts tokens by derived status
	Stats(ctx context.Context) (*models.TokenStats, error)

	// PurgeExpired deletes expired, never-used tokens
	PurgeExpired(ctx context.Context) (int64, error)
}

// SpinService defines the interface for the redemption engine
type SpinService interface {
	// Spin consumes a valid token and returns the weighted-random prize outcome
	Spin(ctx context.Context, code string, info models.ClientInfo) (*models.SpinOutcome, error)

	// Results returns a page of past spins for the admin feed
	Results(ctx context.Context, page, limit int) ([]models.SpinResultEntry, int64, error)

	// Stats aggregates actual vs expected prize distribution
	Stats(ctx context.Context) (*models.SpinStats, error)
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	Refresh(ctx context.Context, id primitive.ObjectID) (string, error)

	// EnsureSuperAdmin seeds the superadmin account once; idempotent
	EnsureSuperAdmin(ctx context.Context) error
}

// AdminService defines the interface for admin account management
type AdminService interface {
	List(ctx context.Context) ([]*models.Admin, error)
	Create(ctx context.Context, req *models.CreateAdminRequest, createdBy primitive.ObjectID) (*models.Admin, error)
	Delete(ctx context.Context, id, requestedBy primitive.ObjectID) error
}
