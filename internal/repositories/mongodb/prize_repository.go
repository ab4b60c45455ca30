package mongodb

import (
	"context"
	"time"

	"github.com/spinquest/spinwheel-backend/internal/models"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PrizeRepository implements the repositories.PrizeRepository interface
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) repositories.PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection("prizes"),
	}
}

// FindAll returns all prize slots ordered by position
func (r *PrizeRepository) FindAll(ctx context.Context) ([]models.PrizeSlot, error) {
	opts := options.Find().SetSort(bson.M{"position": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.PrizeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.PrizeSlot{}
	}
	return slots, nil
}

// Count returns the number of configured prize slots
func (r *PrizeRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// ReplaceAll upserts the given slots keyed by position in a single ordered
// bulk write, then reads the table back in position order.
func (r *PrizeRepository) ReplaceAll(ctx context.Context, slots []models.PrizeSlot) ([]models.PrizeSlot, error) {
	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(slots))
	for _, slot := range slots {
		update := bson.M{
			"$set": bson.M{
				"name":        slot.Name,
				"probability": slot.Probability,
				"color":       slot.Color,
				"updatedAt":   now,
			},
			"$setOnInsert": bson.M{
				"position":  slot.Position,
				"createdAt": now,
			},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"position": slot.Position}).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return nil, err
	}
	return r.FindAll(ctx)
}

// InsertMany inserts the given slots; used only for first-time seeding
func (r *PrizeRepository) InsertMany(ctx context.Context, slots []models.PrizeSlot) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(slots))
	for _, slot := range slots {
		slot.CreatedAt = now
		slot.UpdatedAt = now
		docs = append(docs, slot)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
