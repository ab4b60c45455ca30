package services

import (
	"context"
	"sync"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeTokenRepo is an in-memory TokenRepository. MarkUsed mirrors the store's
// conditional update: check and mutation happen under one lock, so concurrent
// callers observe the same exactly-once behavior the real collection gives.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]*models.Token
	byCode map[string]primitive.ObjectID

	createErr error
	// createCollides forces duplicate-key failures for the first n creates
	createCollides int
	// maxCreates, when positive, caps successful creates; later ones report
	// duplicate keys as if every generated code collided
	maxCreates int
	created    int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		tokens: make(map[primitive.ObjectID]*models.Token),
		byCode: make(map[string]primitive.ObjectID),
	}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.createCollides > 0 {
		r.createCollides--
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	if r.maxCreates > 0 && r.created >= r.maxCreates {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	if _, exists := r.byCode[token.Code]; exists {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = time.Now()
	token.UpdatedAt = token.CreatedAt
	cp := *token
	r.tokens[token.ID] = &cp
	r.byCode[token.Code] = token.ID
	r.created++
	return nil
}

func (r *fakeTokenRepo) FindByCode(ctx context.Context, code string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *r.tokens[id]
	return &cp, nil
}

func (r *fakeTokenRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Token, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.tokens[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) MarkUsed(ctx context.Context, id, resultID primitive.ObjectID, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok || t.IsUsed || !t.ExpiresAt.After(now) {
		return false, nil
	}
	t.IsUsed = true
	t.UsedAt = &now
	t.Result = &resultID
	t.UpdatedAt = now
	return true, nil
}

func (r *fakeTokenRepo) FindPage(ctx context.Context, status models.TokenStatus, now time.Time, page, limit int) ([]*models.Token, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*models.Token, 0)
	for _, t := range r.tokens {
		if status == "" || t.Status(now) == status {
			cp := *t
			matched = append(matched, &cp)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeTokenRepo) Stats(ctx context.Context, now time.Time) (*models.TokenStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.TokenStats{}
	for _, t := range r.tokens {
		stats.Total++
		switch t.Status(now) {
		case models.TokenStatusUsed:
			stats.Used++
		case models.TokenStatusExpired:
			stats.Expired++
		default:
			stats.Active++
		}
	}
	return stats, nil
}

func (r *fakeTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, t := range r.tokens {
		if !t.IsUsed && !t.ExpiresAt.After(now) {
			delete(r.byCode, t.Code)
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

// fakePrizeRepo is an in-memory PrizeRepository.
type fakePrizeRepo struct {
	mu    sync.Mutex
	slots []models.PrizeSlot
}

func newFakePrizeRepo(slots []models.PrizeSlot) *fakePrizeRepo {
	for i := range slots {
		if slots[i].ID.IsZero() {
			slots[i].ID = primitive.NewObjectID()
		}
	}
	return &fakePrizeRepo{slots: slots}
}

func (r *fakePrizeRepo) FindAll(ctx context.Context) ([]models.PrizeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PrizeSlot, len(r.slots))
	copy(out, r.slots)
	return out, nil
}

func (r *fakePrizeRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.slots)), nil
}

func (r *fakePrizeRepo) ReplaceAll(ctx context.Context, slots []models.PrizeSlot) ([]models.PrizeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range slots {
		if slots[i].ID.IsZero() {
			slots[i].ID = primitive.NewObjectID()
		}
	}
	r.slots = slots
	out := make([]models.PrizeSlot, len(slots))
	copy(out, slots)
	return out, nil
}

func (r *fakePrizeRepo) InsertMany(ctx context.Context, slots []models.PrizeSlot) error {
	_, err := r.ReplaceAll(ctx, slots)
	return err
}

// fakeResultRepo is an in-memory SpinResultRepository.
type fakeResultRepo struct {
	mu      sync.Mutex
	results map[primitive.ObjectID]*models.SpinResult

	createErr error
	deleteErr error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[primitive.ObjectID]*models.SpinResult)}
}

func (r *fakeResultRepo) Create(ctx context.Context, result *models.SpinResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if result.ID.IsZero() {
		result.ID = primitive.NewObjectID()
	}
	result.CreatedAt = time.Now()
	cp := *result
	r.results[result.ID] = &cp
	return nil
}

func (r *fakeResultRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.results, id)
	return nil
}

func (r *fakeResultRepo) FindPage(ctx context.Context, page, limit int) ([]*models.SpinResult, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.SpinResult, 0, len(r.results))
	for _, res := range r.results {
		cp := *res
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeResultRepo) CountByPrize(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[primitive.ObjectID]int64)
	for _, res := range r.results {
		counts[res.PrizeWon]++
	}
	return counts, nil
}

func (r *fakeResultRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.results)), nil
}

func (r *fakeResultRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// fakeAdminRepo is an in-memory AdminRepository.
type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]*models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[primitive.ObjectID]*models.Admin)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == admin.Username {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAdminRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) FindByRole(ctx context.Context, role string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Role == role {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAdminRepo) FindAll(ctx context.Context) ([]*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, id)
	return nil
}
