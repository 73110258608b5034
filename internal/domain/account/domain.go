package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]{3,50}$`)
)

const (
	subscriptionFree  = "free"
	minPasswordLength = 6

	msgPasswordTooShort = "Password must be at least 6 characters"
	msgInvalidName      = "Please enter a valid name (3-50 characters, letters, spaces, hyphens, and apostrophes only)"
)

// SignupInput represents registration input.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput represents login input.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the account as shown to its owner.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Credits      int64     `json:"credits"`
	IsAdmin      bool      `json:"isAdmin"`
	Subscription string    `json:"subscription"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is a signed-in account with its token.
type Session struct {
	Profile   *Profile
	Token     string
	ExpiresAt time.Time
}

// Config holds domain configuration.
type Config struct {
	BcryptCost  int
	AdminEmails []string
}

// Domain handles registration, sign-in and account administration.
type Domain struct {
	accounts    outbound.AccountDatabasePort
	history     outbound.HistoryPort
	txs         outbound.TransactionDatabasePort
	tokens      outbound.SessionTokenPort
	bcryptCost  int
	adminEmails []string
	logger      *zap.Logger
}

// NewAccountDomain creates a new account domain.
func NewAccountDomain(
	accounts outbound.AccountDatabasePort,
	history outbound.HistoryPort,
	txs outbound.TransactionDatabasePort,
	tokens outbound.SessionTokenPort,
	cfg Config,
	logger *zap.Logger,
) *Domain {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	admins := make([]string, 0, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins = append(admins, e)
		}
	}
	return &Domain{
		accounts:    accounts,
		history:     history,
		txs:         txs,
		tokens:      tokens,
		bcryptCost:  cost,
		adminEmails: admins,
		logger:      logger,
	}
}

// --- Authentication ---

func (d *Domain) Signup(ctx context.Context, in *SignupInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	if email == "" || in.Password == "" || name == "" {
		return nil, invalid("Email, password, and name are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, invalid("Invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid(msgPasswordTooShort)
	}
	if !namePattern.MatchString(name) {
		return nil, invalid(msgInvalidName)
	}

	existing, err := d.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), d.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Credits:      0,
	}
	if err := d.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, outbound.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	d.logger.Info("account created", zap.String("account_id", account.ID.String()))
	return d.newSession(account)
}

func (d *Domain) Login(ctx context.Context, in *LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, invalid("Email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, invalid("Invalid email format")
	}

	account, err := d.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return d.newSession(account)
}

// Authenticate resolves a session token to an account id.
func (d *Domain) Authenticate(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}
	id, err := d.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}

// TokenExpiry returns the lifetime of issued session tokens.
func (d *Domain) TokenExpiry() time.Duration {
	return d.tokens.Expiry()
}

func (d *Domain) Me(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	account, err := d.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return d.profile(account), nil
}

// History returns the recent results of the account, most recent first.
func (d *Domain) History(ctx context.Context, accountID uuid.UUID) (model.UsageHistory, error) {
	if _, err := d.load(ctx, accountID); err != nil {
		return nil, err
	}
	h, err := d.history.Read(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return h, nil
}

// IsAdmin reports whether the account belongs to a configured admin email.
func (d *Domain) IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error) {
	account, err := d.load(ctx, accountID)
	if err != nil {
		return false, err
	}
	return d.isAdminEmail(account.Email), nil
}

// --- Helpers ---

func (d *Domain) load(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	if accountID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	account, err := d.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnauthorized
	}
	return account, nil
}

func (d *Domain) newSession(account *model.Account) (*Session, error) {
	token, expiresAt, err := d.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Profile: d.profile(account), Token: token, ExpiresAt: expiresAt}, nil
}

func (d *Domain) profile(account *model.Account) *Profile {
	return &Profile{
		ID:           account.ID,
		Email:        account.Email,
		Name:         account.Name,
		Credits:      account.Credits,
		IsAdmin:      d.isAdminEmail(account.Email),
		Subscription: subscriptionFree,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}

func (d *Domain) isAdminEmail(email string) bool {
	return slices.Contains(d.adminEmails, strings.ToLower(email))
}
