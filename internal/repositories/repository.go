package repositories

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeRepository defines the interface for prize table operations
type PrizeRepository interface {
	// FindAll returns all slots ordered by position; empty when uninitialized.
	FindAll(ctx context.Context) ([]models.PrizeSlot, error)
	Count(ctx context.Context) (int64, error)
	// ReplaceAll upserts the given slots keyed by position in one batch.
	// Callers validate the set before handing it over.
	ReplaceAll(ctx context.Context, slots []models.PrizeSlot) ([]models.PrizeSlot, error)
	InsertMany(ctx context.Context, slots []models.PrizeSlot) error
}

// TokenRepository defines the interface for token data operations
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	FindByCode(ctx context.Context, code string) (*models.Token, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Token, error)
	// MarkUsed performs the conditional used transition: it succeeds only when
	// the token is still unused and unexpired at write time. The store's
	// per-record update atomicity is the only synchronization relied upon.
	// Returns false when the precondition did not hold.
	MarkUsed(ctx context.Context, id primitive.ObjectID, resultID primitive.ObjectID, now time.Time) (bool, error)
	FindPage(ctx context.Context, status models.TokenStatus, now time.Time, page, limit int) ([]*models.Token, int64, error)
	Stats(ctx context.Context, now time.Time) (*models.TokenStats, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SpinResultRepository defines the interface for spin result operations
type SpinResultRepository interface {
	Create(ctx context.Context, result *models.SpinResult) error
	// Delete removes an orphaned result after a lost markUsed race. Normal
	// operation never deletes results.
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindPage(ctx context.Context, page, limit int) ([]*models.SpinResult, int64, error)
	CountByPrize(ctx context.Context) (map[primitive.ObjectID]int64, error)
	Count(ctx context.Context) (int64, error)
}

// AdminRepository defines the interface for admin account operations
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindByRole(ctx context.Context, role string) (*models.Admin, error)
	FindAll(ctx context.Context) ([]*models.Admin, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
