package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
)

// ErrDuplicateEmail is returned when another account already uses the email.
var ErrDuplicateEmail = errors.New("email already registered")

// AccountChanges is a partial account update; nil fields are left unchanged.
type AccountChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Credits      *int64
}

// AccountFilter narrows an account listing.
type AccountFilter struct {
	Search string
	model.PaginationRequest
}

// AccountDatabasePort defines account persistence operations.
type AccountDatabasePort interface {
	// Create creates a new account. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, account *model.Account) error

	// GetByID gets an account by ID. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)

	// GetByEmail gets an account by lower-cased email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)

	// List lists accounts matching the filter, newest first, with the total count.
	List(ctx context.Context, filter *AccountFilter) ([]*model.Account, int64, error)

	// ListAll lists every account, newest first.
	ListAll(ctx context.Context) ([]*model.Account, error)

	// Update applies every set field in one write. Credits overwrites the
	// balance and is for admin use only. Returns ErrDuplicateEmail when the
	// new email is taken.
	Update(ctx context.Context, id uuid.UUID, changes *AccountChanges) error

	// Delete removes an account with its transactions and generated images.
	// Returns (false, nil) when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// LedgerPort defines the atomic credit balance operations.
type LedgerPort interface {
	// TryReserve decrements the balance by amount only if the balance covers it.
	// Returns (true, nil) when the decrement happened, (false, nil) when it did not.
	TryReserve(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error)

	// Refund unconditionally increments the balance by amount.
	Refund(ctx context.Context, accountID uuid.UUID, amount int64) error

	// Credit unconditionally increments the balance and returns the new balance.
	Credit(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error)

	// Balance returns the current balance.
	Balance(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// HistoryPort defines the bounded usage history operations.
type HistoryPort interface {
	// Prepend records a produced result at the front of the history, keeps
	// the newest model.MaxHistoryEntries and bumps the lifetime counters.
	Prepend(ctx context.Context, accountID uuid.UUID, entry model.HistoryEntry) error

	// Read returns the history, most recent first.
	Read(ctx context.Context, accountID uuid.UUID) (model.UsageHistory, error)
}
