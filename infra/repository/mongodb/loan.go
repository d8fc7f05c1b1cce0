package mongodb

import (
	"context"
	"fmt"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoanRepository stores loan records with the same guarded status
// transitions as transactions.
type LoanRepository struct {
	col *mongo.Collection
}

// NewLoanRepository returns a repository over the loans collection.
func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{col: db.Collection("loans")}
}

type loanDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	domain.Loan `bson:",inline"`
}

func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) (string, error) {
	res, err := r.col.InsertOne(ctx, loanDoc{Loan: *loan})
	if err != nil {
		return "", fmt.Errorf("insert loan: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert loan: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *LoanRepository) MarkApproved(ctx context.Context, id string) error {
	return r.transition(ctx, id, bson.M{"status": domain.LoanApproved})
}

func (r *LoanRepository) MarkFailed(ctx context.Context, id string, cause string) error {
	return r.transition(ctx, id, bson.M{"status": domain.LoanFailed, "error": cause})
}

func (r *LoanRepository) transition(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("loan id %q: %w", id, err)
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": domain.LoanPending},
		bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update loan %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("loan %s not found or not pending", id)
	}
	return nil
}

func (r *LoanRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Loan, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email},
		options.Find().SetSort(bson.M{"timestamp": -1}))
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck

	var docs []loanDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode loans: %w", err)
	}
	loans := make([]*domain.Loan, 0, len(docs))
	for _, doc := range docs {
		loan := doc.Loan
		loan.ID = doc.ID.Hex()
		loans = append(loans, &loan)
	}
	return loans, nil
}

var _ repository.LoanRepository = (*LoanRepository)(nil)
