package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/martianbank/banking/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProcessedEventRepository tracks applied event ids in the processed_events
// collection, using _id uniqueness to detect duplicate deliveries.
type ProcessedEventRepository struct {
	col *mongo.Collection
}

// NewProcessedEventRepository returns a repository over the processed_events collection.
func NewProcessedEventRepository(db *mongo.Database) *ProcessedEventRepository {
	return &ProcessedEventRepository{col: db.Collection("processed_events")}
}

func (r *ProcessedEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	_, err := r.col.InsertOne(ctx, bson.M{
		"_id":          eventID,
		"processed_at": time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("mark event %s processed: %w", eventID, err)
	}
	return true, nil
}

func (r *ProcessedEventRepository) Unmark(ctx context.Context, eventID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": eventID}); err != nil {
		return fmt.Errorf("unmark event %s: %w", eventID, err)
	}
	return nil
}

var _ repository.ProcessedEventRepository = (*ProcessedEventRepository)(nil)
