package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AccountRepository stores accounts keyed by account_number.
type AccountRepository struct {
	col *mongo.Collection
}

// NewAccountRepository returns a repository over the accounts collection.
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection("accounts")}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if _, err := r.col.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"account_number": accountNumber})
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var account domain.Account
	err := r.col.FindOne(ctx, filter).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) ListByEmail(ctx context.Context, email, accountType string) ([]*domain.Account, error) {
	filter := bson.M{"email": email}
	if accountType != "" {
		filter["account_type"] = accountType
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck

	var accounts []*domain.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) ExistsByEmailAndType(ctx context.Context, email, accountType string) (bool, error) {
	count, err := r.col.CountDocuments(ctx,
		bson.M{"email": email, "account_type": accountType})
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return count > 0, nil
}

func (r *AccountRepository) Credit(ctx context.Context, accountNumber string, amount int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"account_number": accountNumber},
		bson.M{"$inc": bson.M{"balance": amount}})
	if err != nil {
		return fmt.Errorf("credit account %s: %w", accountNumber, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// DebitIfSufficient matches only documents whose balance covers the amount,
// closing the stale-read overdraw race at the store.
func (r *AccountRepository) DebitIfSufficient(ctx context.Context, accountNumber string, amount int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"account_number": accountNumber, "balance": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"balance": -amount}})
	if err != nil {
		return fmt.Errorf("debit account %s: %w", accountNumber, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing account from a short balance.
		if _, err := r.GetByNumber(ctx, accountNumber); err != nil {
			return err
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
