package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
)

// ErrDuplicateReference is returned when a payment reference was already credited.
var ErrDuplicateReference = errors.New("payment reference already credited")

// AccountActivity aggregates the transaction records of one account.
type AccountActivity struct {
	TransactionCount int64
	// CreditsSpent is the sum of debit amounts.
	CreditsSpent int64
}

// TransactionDatabasePort defines transaction record operations.
type TransactionDatabasePort interface {
	// RecordDebit appends a debit record.
	RecordDebit(ctx context.Context, accountID uuid.UUID, amount int64, description string) error

	// RecordCredit appends a credit record.
	RecordCredit(ctx context.Context, accountID uuid.UUID, amount int64, description string) error

	// FindByDescription returns the first record with the exact description.
	// Returns (nil, nil) when absent.
	FindByDescription(ctx context.Context, description string) (*model.Transaction, error)

	// CreditWithRecord increments the balance and records the credit under
	// reference in one database transaction. Returns the new balance, or
	// ErrDuplicateReference if the reference was recorded concurrently.
	CreditWithRecord(ctx context.Context, accountID uuid.UUID, amount int64, reference string) (int64, error)

	// ListByAccount lists the newest records of an account.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Transaction, error)

	// ActivityByAccounts aggregates the records of each given account.
	// Accounts without records are absent from the map.
	ActivityByAccounts(ctx context.Context, accountIDs []uuid.UUID) (map[uuid.UUID]AccountActivity, error)
}
