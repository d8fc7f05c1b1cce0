package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionRepository stores transfer records. Status transitions are
// guarded by a filter on the current status so terminal documents are never
// mutated again.
type TransactionRepository struct {
	col *mongo.Collection
}

// NewTransactionRepository returns a repository over the transactions collection.
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection("transactions")}
}

type transactionDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	domain.Transaction `bson:",inline"`
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (string, error) {
	res, err := r.col.InsertOne(ctx, transactionDoc{Transaction: *tx})
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert transaction: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *TransactionRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.transition(ctx, id, bson.M{"status": domain.TransactionCompleted})
}

func (r *TransactionRepository) MarkFailed(ctx context.Context, id string, cause string) error {
	return r.transition(ctx, id, bson.M{"status": domain.TransactionFailed, "error": cause})
}

func (r *TransactionRepository) transition(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("transaction id %q: %w", id, err)
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": domain.TransactionPending},
		bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}
	var doc transactionDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	tx := doc.Transaction
	tx.ID = doc.ID.Hex()
	return &tx, nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]*domain.Transaction, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": accountNumber},
		bson.M{"receiver": accountNumber},
	}}
	cursor, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.M{"time_stamp": -1}))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck

	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	txs := make([]*domain.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx := doc.Transaction
		tx.ID = doc.ID.Hex()
		txs = append(txs, &tx)
	}
	return txs, nil
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
