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

// SpinResultRepository implements the repositories.SpinResultRepository interface
type SpinResultRepository struct {
	collection *mongo.Collection
}

// NewSpinResultRepository creates a new SpinResultRepository
func NewSpinResultRepository(db *mongo.Database) repositories.SpinResultRepository {
	return &SpinResultRepository{
		collection: db.Collection("spinresults"),
	}
}

// Create inserts a new spin result
func (r *SpinResultRepository) Create(ctx context.Context, result *models.SpinResult) error {
	result.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return err
	}
	result.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Delete removes a spin result by ID
func (r *SpinResultRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindPage returns a page of results, newest first, with the total count
func (r *SpinResultRepository) FindPage(ctx context.Context, page, limit int) ([]*models.SpinResult, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []*models.SpinResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	if results == nil {
		results = []*models.SpinResult{}
	}
	return results, total, nil
}

// CountByPrize groups results by winning prize
func (r *SpinResultRepository) CountByPrize(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$prizeWon",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[primitive.ObjectID]int64)
	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Count returns the total number of spin results
func (r *SpinResultRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
