package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure PrizeServiceImpl implements PrizeService
var _ PrizeService = (*PrizeServiceImpl)(nil)

// PrizeServiceImpl manages the 8-slot prize table
type PrizeServiceImpl struct {
	prizeRepo repositories.PrizeRepository
}

// NewPrizeService creates a new PrizeServiceImpl
func NewPrizeService(prizeRepo repositories.PrizeRepository) *PrizeServiceImpl {
	return &PrizeServiceImpl{prizeRepo: prizeRepo}
}

// ListPrizes returns all slots ordered by position
func (s *PrizeServiceImpl) ListPrizes(ctx context.Context) ([]models.PrizeSlot, error) {
	slots, err := s.prizeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prize table: %w", err)
	}
	return slots, nil
}

// ReplaceAll validates the incoming table as a set and upserts all 8 slots
// keyed by position. No partial write happens on a validation failure.
func (s *PrizeServiceImpl) ReplaceAll(ctx context.Context, inputs []models.PrizeSlotInput) ([]models.PrizeSlot, error) {
	slots, err := buildPrizeSlots(inputs)
	if err != nil {
		return nil, err
	}

	updated, err := s.prizeRepo.ReplaceAll(ctx, slots)
	if err != nil {
		slog.Error("Failed to replace prize table", "error", err)
		return nil, fmt.Errorf("failed to replace prize table: %w", err)
	}
	slog.Info("Prize table replaced", "slots", len(updated))
	return updated, nil
}

// buildPrizeSlots enforces the table invariants: exactly 8 slots, non-empty
// trimmed names, probabilities in [0,100] summing to 100 within tolerance.
func buildPrizeSlots(inputs []models.PrizeSlotInput) ([]models.PrizeSlot, error) {
	if len(inputs) != models.WheelSize {
		return nil, apperrors.Validation("must provide exactly %d prizes, got %d", models.WheelSize, len(inputs))
	}

	slots := make([]models.PrizeSlot, 0, models.WheelSize)
	total := 0.0
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, apperrors.Validation("prize %d name is required", i+1)
		}
		if in.Probability < 0 || in.Probability > 100 {
			return nil, apperrors.Validation("prize %d probability must be between 0 and 100", i+1)
		}
		color := in.Color
		if color == "" {
			color = models.DefaultPrizeColor
		}
		total += in.Probability
		slots = append(slots, models.PrizeSlot{
			Position:    i + 1,
			Name:        name,
			Probability: in.Probability,
			Color:       color,
		})
	}

	if math.Abs(total-100) > models.ProbabilityTolerance {
		return nil, apperrors.Validation("total probability must equal 100%%, got %g%%", total)
	}
	return slots, nil
}

// EnsureInitialized seeds the default equal-probability table when no prizes
// exist. Called once at startup; a no-op on every later call.
func (s *PrizeServiceImpl) EnsureInitialized(ctx context.Context) error {
	count, err := s.prizeRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count prizes: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := s.prizeRepo.InsertMany(ctx, models.DefaultPrizeSlots()); err != nil {
		return fmt.Errorf("failed to seed default prizes: %w", err)
	}
	slog.Info("Seeded default prize table", "slots", models.WheelSize)
	return nil
}
