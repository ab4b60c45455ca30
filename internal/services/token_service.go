package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"github.com/spinquest/spinwheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure TokenServiceImpl implements TokenService
var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceImpl handles the token lifecycle: bulk issue, validation and
// the conditional used transition.
type TokenServiceImpl struct {
	tokenRepo repositories.TokenRepository
	cfg       config.TokenConfig

	// now is injectable for expiry tests
	now func() time.Time
}

// NewTokenService creates a new TokenServiceImpl
func NewTokenService(tokenRepo repositories.TokenRepository, cfg config.TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{
		tokenRepo: tokenRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Issue creates quantity tokens, each with a collision-checked unique code
// and a fixed validity window. When code generation for one unit exhausts its
// retries, tokens created earlier in the batch are kept and returned with the
// error so the caller can report created vs requested.
func (s *TokenServiceImpl) Issue(ctx context.Context, quantity int, createdBy primitive.ObjectID) ([]models.IssuedToken, error) {
	if quantity < 1 || quantity > s.cfg.MaxBatchSize {
		return nil, apperrors.Validation("quantity must be between 1 and %d", s.cfg.MaxBatchSize)
	}

	expiresAt := s.now().Add(s.cfg.Validity())
	issued := make([]models.IssuedToken, 0, quantity)

	for i := 0; i < quantity; i++ {
		token, err := s.mintToken(ctx, expiresAt, createdBy)
		if err != nil {
			slog.Error("Token batch aborted", "error", err, "requested", quantity, "created", len(issued))
			return issued, err
		}
		issued = append(issued, models.IssuedToken{
			ID:        token.ID,
			Code:      token.Code,
			ExpiresAt: token.ExpiresAt,
			CreatedAt: token.CreatedAt,
		})
	}

	slog.Info("Tokens issued", "count", len(issued), "createdBy", createdBy.Hex())
	return issued, nil
}

// mintToken generates a unique code and persists one token, retrying on
// collisions up to the configured bound. The unique index on code backstops
// the pre-insert lookup.
func (s *TokenServiceImpl) mintToken(ctx context.Context, expiresAt time.Time, createdBy primitive.ObjectID) (*models.Token, error) {
	for attempt := 0; attempt < s.cfg.MaxCodeRetries; attempt++ {
		code := utils.GenerateTokenCode(s.cfg.CodeLength)

		_, err := s.tokenRepo.FindByCode(ctx, code)
		if err == nil {
			continue // collision, try a fresh code
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
		}

		token := &models.Token{
			Code:      code,
			IsUsed:    false,
			ExpiresAt: expiresAt,
			CreatedBy: createdBy,
		}
		if err := s.tokenRepo.Create(ctx, token); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue // lost a race on the unique index, try again
			}
			return nil, fmt.Errorf("failed to create token: %w", err)
		}
		return token, nil
	}
	return nil, apperrors.Generation("could not generate a unique token code after %d attempts", s.cfg.MaxCodeRetries)
}

// Validate normalizes the code and checks existence, consumption and expiry
// without mutating anything.
func (s *TokenServiceImpl) Validate(ctx context.Context, code string) (*models.Token, error) {
	normalized := utils.NormalizeTokenCode(code)
	if normalized == "" {
		return nil, apperrors.Validation("token code is required")
	}

	token, err := s.tokenRepo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("invalid token code")
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	switch token.Status(s.now()) {
	case models.TokenStatusUsed:
		return nil, apperrors.AlreadyUsed("token has already been used")
	case models.TokenStatusExpired:
		return nil, apperrors.Expired("token has expired")
	}
	return token, nil
}

// MarkUsed applies the conditional used transition. A false CAS result means
// a concurrent spin won or the token expired between validate and commit; the
// redemption engine translates the CONFLICT before it reaches any caller.
func (s *TokenServiceImpl) MarkUsed(ctx context.Context, tokenID, resultID primitive.ObjectID, now time.Time) error {
	ok, err := s.tokenRepo.MarkUsed(ctx, tokenID, resultID, now)
	if err != nil {
		return fmt.Errorf("failed to mark token used: %w", err)
	}
	if !ok {
		return apperrors.Conflict("token was no longer unused and unexpired")
	}
	return nil
}

// List returns a page of tokens filtered by derived status
func (s *TokenServiceImpl) List(ctx context.Context, status models.TokenStatus, page, limit int) ([]*models.Token, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	tokens, total, err := s.tokenRepo.FindPage(ctx, status, s.now(), page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, total, nil
}

// Stats counts tokens by derived status
func (s *TokenServiceImpl) Stats(ctx context.Context) (*models.TokenStats, error) {
	stats, err := s.tokenRepo.Stats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute token stats: %w", err)
	}
	return stats, nil
}

// PurgeExpired deletes expired, never-used tokens
func (s *TokenServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired tokens: %w", err)
	}
	if deleted > 0 {
		slog.Info("Purged expired tokens", "deleted", deleted)
	}
	return deleted, nil
}
