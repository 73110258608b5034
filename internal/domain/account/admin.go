package account

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountSummary is an account row in the admin listing.
type AccountSummary struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Credits           int64     `json:"credits"`
	ImageCount        int64     `json:"imageCount"`
	GenerationCount   int64     `json:"generationCount"`
	TransactionCount  int64     `json:"transactionCount"`
	TotalCreditsSpent int64     `json:"totalCreditsSpent"`
	IsAdmin           bool      `json:"isAdmin"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ListInput filters the admin account listing.
type ListInput struct {
	Search   string
	Page     int
	PageSize int
}

// CreateInput is an account created by an admin.
type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Credits  int64  `json:"credits"`
}

// UpdateInput is a partial admin update; nil fields are left unchanged.
type UpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Credits  *int64  `json:"credits"`
}

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
)

var exportHeader = []string{
	"id", "name", "email", "credits", "imageCount", "generationCount",
	"transactionCount", "totalCreditsSpent", "createdAt", "updatedAt",
}

func (d *Domain) ListAccounts(ctx context.Context, in *ListInput) (*model.PaginatedResponse[*AccountSummary], error) {
	filter := &outbound.AccountFilter{
		Search:            strings.TrimSpace(in.Search),
		PaginationRequest: model.PaginationRequest{Page: in.Page, PageSize: in.PageSize},
	}
	filter.DefaultPagination()

	accounts, total, err := d.accounts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	items, err := d.summaries(ctx, accounts)
	if err != nil {
		return nil, err
	}
	return model.NewPaginatedResponse(items, total, filter.Page, filter.PageSize), nil
}

// CreateAccount registers an account on behalf of an admin with an
// opening balance.
func (d *Domain) CreateAccount(ctx context.Context, in *CreateInput) (*AccountSummary, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	if email == "" || in.Password == "" {
		return nil, invalid("Email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, invalid("Invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid(msgPasswordTooShort)
	}
	if name != "" && !namePattern.MatchString(name) {
		return nil, invalid(msgInvalidName)
	}
	if in.Credits < 0 {
		return nil, invalid("credits must not be negative")
	}

	existing, err := d.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), d.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Credits:      in.Credits,
	}
	if err := d.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, outbound.ErrDuplicateEmail) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	d.logger.Info("admin created account",
		zap.String("account_id", account.ID.String()),
		zap.Int64("credits", account.Credits),
	)
	return d.summary(account, outbound.AccountActivity{}), nil
}

// UpdateAccount validates every field before writing any of them.
func (d *Domain) UpdateAccount(ctx context.Context, id uuid.UUID, in *UpdateInput) (*AccountSummary, error) {
	changes, err := d.validateUpdate(in)
	if err != nil {
		return nil, err
	}

	account, err := d.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if changes.Email != nil {
		if *changes.Email == account.Email {
			changes.Email = nil
		} else {
			other, err := d.accounts.GetByEmail(ctx, *changes.Email)
			if err != nil {
				return nil, fmt.Errorf("get account by email: %w", err)
			}
			if other != nil && other.ID != id {
				return nil, ErrEmailInUse
			}
		}
	}

	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), d.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		changes.PasswordHash = &h
	}

	if err := d.accounts.Update(ctx, id, changes); err != nil {
		if errors.Is(err, outbound.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	if changes.Name != nil {
		account.Name = *changes.Name
	}
	if changes.Email != nil {
		account.Email = *changes.Email
	}
	if changes.Credits != nil {
		d.logger.Info("admin set credits",
			zap.String("account_id", id.String()),
			zap.Int64("previous", account.Credits),
			zap.Int64("credits", *changes.Credits),
		)
		account.Credits = *changes.Credits
	}

	activity, err := d.activity(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return d.summary(account, activity[id]), nil
}

func (d *Domain) validateUpdate(in *UpdateInput) (*outbound.AccountChanges, error) {
	changes := &outbound.AccountChanges{Credits: in.Credits}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !namePattern.MatchString(name) {
			return nil, invalid(msgInvalidName)
		}
		changes.Name = &name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !emailPattern.MatchString(email) {
			return nil, invalid("Invalid email format")
		}
		changes.Email = &email
	}
	if in.Password != nil && len(*in.Password) < minPasswordLength {
		return nil, invalid(msgPasswordTooShort)
	}
	if in.Credits != nil && *in.Credits < 0 {
		return nil, invalid("credits must not be negative")
	}
	return changes, nil
}

// DeleteAccount removes an account with its records.
func (d *Domain) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	deleted, err := d.accounts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if !deleted {
		return ErrAccountNotFound
	}
	d.logger.Info("admin deleted account", zap.String("account_id", id.String()))
	return nil
}

// AccountTransactions lists the newest credit movements of an account.
func (d *Domain) AccountTransactions(ctx context.Context, id uuid.UUID, limit int) ([]*model.Transaction, error) {
	account, err := d.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	limit = min(limit, maxTransactionLimit)

	txs, err := d.txs.ListByAccount(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// ExportAccounts writes every account as CSV.
func (d *Domain) ExportAccounts(ctx context.Context, w io.Writer) error {
	accounts, err := d.accounts.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	rows, err := d.summaries(ctx, accounts)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID.String(),
			r.Name,
			r.Email,
			strconv.FormatInt(r.Credits, 10),
			strconv.FormatInt(r.ImageCount, 10),
			strconv.FormatInt(r.GenerationCount, 10),
			strconv.FormatInt(r.TransactionCount, 10),
			strconv.FormatInt(r.TotalCreditsSpent, 10),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (d *Domain) summaries(ctx context.Context, accounts []*model.Account) ([]*AccountSummary, error) {
	ids := make([]uuid.UUID, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	activity, err := d.activity(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*AccountSummary, len(accounts))
	for i, a := range accounts {
		items[i] = d.summary(a, activity[a.ID])
	}
	return items, nil
}

func (d *Domain) activity(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]outbound.AccountActivity, error) {
	activity, err := d.txs.ActivityByAccounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("account activity: %w", err)
	}
	return activity, nil
}

func (d *Domain) summary(a *model.Account, activity outbound.AccountActivity) *AccountSummary {
	return &AccountSummary{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		Credits:           a.Credits,
		ImageCount:        a.ImageCount,
		GenerationCount:   a.GenerationCount,
		TransactionCount:  activity.TransactionCount,
		TotalCreditsSpent: activity.CreditsSpent,
		IsAdmin:           d.isAdminEmail(a.Email),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
