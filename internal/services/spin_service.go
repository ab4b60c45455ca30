package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SpinServiceImpl implements SpinService
var _ SpinService = (*SpinServiceImpl)(nil)

// SpinServiceImpl is the redemption engine: it consumes a valid token and
// produces exactly one weighted-random prize outcome per token. The only
// synchronization is the conditional used transition in the token store.
type SpinServiceImpl struct {
	tokenService TokenService
	prizeRepo    repositories.PrizeRepository
	resultRepo   repositories.SpinResultRepository
	tokenRepo    repositories.TokenRepository

	// draw returns a uniform value in [0,100); injectable for partition tests
	draw func() float64
	now  func() time.Time
}

// NewSpinService creates a new SpinServiceImpl
func NewSpinService(
	tokenService TokenService,
	prizeRepo repositories.PrizeRepository,
	resultRepo repositories.SpinResultRepository,
	tokenRepo repositories.TokenRepository,
) *SpinServiceImpl {
	return &SpinServiceImpl{
		tokenService: tokenService,
		prizeRepo:    prizeRepo,
		resultRepo:   resultRepo,
		tokenRepo:    tokenRepo,
		draw:         func() float64 { return rand.Float64() * 100 },
		now:          time.Now,
	}
}

// Spin validates the token, performs the weighted draw, persists the result
// and commits the token's used transition. The commit is a compare-and-set;
// losing it means a concurrent spin already consumed the token, so the
// just-written result is discarded and the loser sees already-used/expired.
func (s *SpinServiceImpl) Spin(ctx context.Context, code string, info models.ClientInfo) (*models.SpinOutcome, error) {
	token, err := s.tokenService.Validate(ctx, code)
	if err != nil {
		return nil, err
	}

	slots, err := s.loadTable(ctx)
	if err != nil {
		return nil, err
	}

	winner := selectPrize(slots, s.draw())

	result := &models.SpinResult{
		Token:      token.ID,
		PrizeWon:   winner.ID,
		ClientInfo: info,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist spin result: %w", err)
	}

	now := s.now()
	if err := s.tokenService.MarkUsed(ctx, token.ID, result.ID, now); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, s.resolveLostRace(ctx, token.ID, result.ID, now)
		}
		// Unexpected storage failure after the result write: the result is an
		// orphan until offline reconciliation picks it up.
		slog.Error("markUsed failed after result write", "error", err, "tokenId", token.ID.Hex(), "resultId", result.ID.Hex())
		return nil, err
	}

	slog.Info("Spin completed", "tokenCode", token.Code, "prizePosition", winner.Position, "resultId", result.ID.Hex())
	return &models.SpinOutcome{
		ResultID: result.ID,
		Prize: models.WonPrize{
			ID:       winner.ID,
			Position: winner.Position,
			Name:     winner.Name,
			Color:    winner.Color,
		},
		SpunAt: result.CreatedAt,
	}, nil
}

// loadTable loads the prize table and rejects administrative misconfiguration
func (s *SpinServiceImpl) loadTable(ctx context.Context) ([]models.PrizeSlot, error) {
	slots, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prize table: %w", err)
	}
	if len(slots) != models.WheelSize {
		return nil, apperrors.Configuration("prize table has %d slots, expected %d", len(slots), models.WheelSize)
	}
	total := 0.0
	for _, slot := range slots {
		total += slot.Probability
	}
	if math.Abs(total-100) > models.ProbabilityTolerance {
		return nil, apperrors.Configuration("prize probabilities sum to %g, expected 100", total)
	}
	return slots, nil
}

// selectPrize maps a uniform draw r in [0,100) onto the cumulative
// probability partition: walking slots in position order, slot i owns the
// half-open range [cumulative before, cumulative after), so every r lands in
// exactly one slot. Floating-point drift that exhausts the list falls back to
// the last slot by policy.
func selectPrize(slots []models.PrizeSlot, r float64) models.PrizeSlot {
	cumulative := 0.0
	for _, slot := range slots {
		cumulative += slot.Probability
		if cumulative > r {
			return slot
		}
	}
	return slots[len(slots)-1]
}

// resolveLostRace translates a failed used-transition into the error the
// caller should see and discards the orphaned result. The token is re-read to
// distinguish a lost race from expiry between validate and commit.
func (s *SpinServiceImpl) resolveLostRace(ctx context.Context, tokenID, resultID primitive.ObjectID, now time.Time) error {
	if err := s.resultRepo.Delete(ctx, resultID); err != nil {
		// Leave the orphan for offline reconciliation; never retry the spin.
		slog.Error("Failed to discard orphaned spin result", "error", err, "resultId", resultID.Hex())
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err == nil && !token.IsUsed && token.Status(now) == models.TokenStatusExpired {
		return apperrors.Expired("token has expired")
	}
	return apperrors.AlreadyUsed("token has already been used")
}

// Results assembles the admin results feed, denormalizing token codes and
// prize details for display.
func (s *SpinServiceImpl) Results(ctx context.Context, page, limit int) ([]models.SpinResultEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	results, total, err := s.resultRepo.FindPage(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spin results: %w", err)
	}

	tokenIDs := make([]primitive.ObjectID, 0, len(results))
	for _, r := range results {
		tokenIDs = append(tokenIDs, r.Token)
	}
	tokens, err := s.tokenRepo.FindByIDs(ctx, tokenIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load tokens for results: %w", err)
	}
	codeByID := make(map[primitive.ObjectID]string, len(tokens))
	for _, t := range tokens {
		codeByID[t.ID] = t.Code
	}

	slots, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load prize table: %w", err)
	}
	prizeByID := make(map[primitive.ObjectID]models.PrizeSlot, len(slots))
	for _, slot := range slots {
		prizeByID[slot.ID] = slot
	}

	entries := make([]models.SpinResultEntry, 0, len(results))
	for _, r := range results {
		prize := prizeByID[r.PrizeWon]
		entries = append(entries, models.SpinResultEntry{
			ID:        r.ID,
			TokenCode: codeByID[r.Token],
			Prize: models.WonPrize{
				ID:       prize.ID,
				Position: prize.Position,
				Name:     prize.Name,
				Color:    prize.Color,
			},
			ClientInfo: r.ClientInfo,
			SpunAt:     r.CreatedAt,
		})
	}
	return entries, total, nil
}

// Stats aggregates per-prize counts against configured probabilities
func (s *SpinServiceImpl) Stats(ctx context.Context) (*models.SpinStats, error) {
	total, err := s.resultRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count spins: %w", err)
	}
	counts, err := s.resultRepo.CountByPrize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spins by prize: %w", err)
	}
	slots, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prize table: %w", err)
	}

	distribution := make([]models.PrizeDistribution, 0, len(slots))
	for _, slot := range slots {
		count := counts[slot.ID]
		actual := 0.0
		if total > 0 {
			actual = math.Round(float64(count)/float64(total)*10000) / 100
		}
		distribution = append(distribution, models.PrizeDistribution{
			Position:            slot.Position,
			PrizeName:           slot.Name,
			Count:               count,
			ExpectedProbability: slot.Probability,
			ActualPercentage:    actual,
		})
	}
	return &models.SpinStats{TotalSpins: total, PrizeDistribution: distribution}, nil
}
