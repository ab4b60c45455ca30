package mongodb

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenRepository implements the repositories.TokenRepository interface
type TokenRepository struct {
	collection *mongo.Collection
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *mongo.Database) repositories.TokenRepository {
	return &TokenRepository{
		collection: db.Collection("tokens"),
	}
}

// Create inserts a new token
func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	token.CreatedAt = time.Now()
	token.UpdatedAt = token.CreatedAt
	res, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return err
	}
	token.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByCode finds a token by its (already normalized) code
func (r *TokenRepository) FindByCode(ctx context.Context, code string) (*models.Token, error) {
	var token models.Token
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&token)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &token, nil
}

// FindByID finds a token by ID
func (r *TokenRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	var token models.Token
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// FindByIDs finds tokens by a set of IDs
func (r *TokenRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Token, error) {
	if len(ids) == 0 {
		return []*models.Token{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []*models.Token
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = []*models.Token{}
	}
	return tokens, nil
}

// MarkUsed flips the token to used if and only if it is still unused and
// unexpired at write time. The filter makes the update a compare-and-set:
// a concurrent consumer that already won leaves ModifiedCount at zero here.
func (r *TokenRepository) MarkUsed(ctx context.Context, id primitive.ObjectID, resultID primitive.ObjectID, now time.Time) (bool, error) {
	filter := bson.M{
		"_id":       id,
		"isUsed":    false,
		"expiresAt": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"isUsed":    true,
			"usedAt":    now,
			"result":    resultID,
			"updatedAt": now,
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// statusFilter maps a derived token status to a query filter
func statusFilter(status models.TokenStatus, now time.Time) bson.M {
	switch status {
	case models.TokenStatusUsed:
		return bson.M{"isUsed": true}
	case models.TokenStatusActive:
		return bson.M{"isUsed": false, "expiresAt": bson.M{"$gt": now}}
	case models.TokenStatusExpired:
		return bson.M{"isUsed": false, "expiresAt": bson.M{"$lte": now}}
	default:
		return bson.M{}
	}
}

// FindPage returns a page of tokens matching the status filter, newest first,
// along with the total matching count
func (r *TokenRepository) FindPage(ctx context.Context, status models.TokenStatus, now time.Time, page, limit int) ([]*models.Token, int64, error) {
	filter := statusFilter(status, now)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tokens []*models.Token
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, 0, err
	}
	if tokens == nil {
		tokens = []*models.Token{}
	}
	return tokens, total, nil
}

// Stats counts tokens by derived status
func (r *TokenRepository) Stats(ctx context.Context, now time.Time) (*models.TokenStats, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	used, err := r.collection.CountDocuments(ctx, statusFilter(models.TokenStatusUsed, now))
	if err != nil {
		return nil, err
	}
	expired, err := r.collection.CountDocuments(ctx, statusFilter(models.TokenStatusExpired, now))
	if err != nil {
		return nil, err
	}
	active, err := r.collection.CountDocuments(ctx, statusFilter(models.TokenStatusActive, now))
	if err != nil {
		return nil, err
	}
	return &models.TokenStats{Total: total, Used: used, Expired: expired, Active: active}, nil
}

// DeleteExpired removes expired, never-used tokens. A storage hygiene
// operation; expiry correctness never depends on it.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, statusFilter(models.TokenStatusExpired, now))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
