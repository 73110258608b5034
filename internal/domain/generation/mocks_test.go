package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/stretchr/testify/mock"
)

// --- Mock implementations ---

type MockAccountDB struct {
	mock.Mock
}

func (m *MockAccountDB) Create(ctx context.Context, account *model.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountDB) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountDB) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountDB) List(ctx context.Context, filter *outbound.AccountFilter) ([]*model.Account, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountDB) ListAll(ctx context.Context) ([]*model.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *MockAccountDB) Update(ctx context.Context, id uuid.UUID, changes *outbound.AccountChanges) error {
	return m.Called(ctx, id, changes).Error(0)
}

func (m *MockAccountDB) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) TryReserve(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Refund(ctx context.Context, accountID uuid.UUID, amount int64) error {
	return m.Called(ctx, accountID, amount).Error(0)
}

func (m *MockLedger) Credit(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) Balance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Prepend(ctx context.Context, accountID uuid.UUID, entry model.HistoryEntry) error {
	return m.Called(ctx, accountID, entry).Error(0)
}

func (m *MockHistory) Read(ctx context.Context, accountID uuid.UUID) (model.UsageHistory, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(model.UsageHistory), args.Error(1)
}

type MockTransactions struct {
	mock.Mock
}

func (m *MockTransactions) RecordDebit(ctx context.Context, accountID uuid.UUID, amount int64, description string) error {
	return m.Called(ctx, accountID, amount, description).Error(0)
}

func (m *MockTransactions) RecordCredit(ctx context.Context, accountID uuid.UUID, amount int64, description string) error {
	return m.Called(ctx, accountID, amount, description).Error(0)
}

func (m *MockTransactions) FindByDescription(ctx context.Context, description string) (*model.Transaction, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactions) CreditWithRecord(ctx context.Context, accountID uuid.UUID, amount int64, reference string) (int64, error) {
	args := m.Called(ctx, accountID, amount, reference)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactions) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactions) ActivityByAccounts(ctx context.Context, accountIDs []uuid.UUID) (map[uuid.UUID]outbound.AccountActivity, error) {
	args := m.Called(ctx, accountIDs)
	return args.Get(0).(map[uuid.UUID]outbound.AccountActivity), args.Error(1)
}

type MockStyles struct {
	mock.Mock
}

func (m *MockStyles) Create(ctx context.Context, style *model.Style) error {
	return m.Called(ctx, style).Error(0)
}

func (m *MockStyles) GetByID(ctx context.Context, id uuid.UUID) (*model.Style, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Style), args.Error(1)
}

func (m *MockStyles) List(ctx context.Context) ([]*model.Style, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Style), args.Error(1)
}

func (m *MockStyles) Update(ctx context.Context, style *model.Style) error {
	return m.Called(ctx, style).Error(0)
}

func (m *MockStyles) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockGeneratedImages struct {
	mock.Mock
}

func (m *MockGeneratedImages) Create(ctx context.Context, image *model.GeneratedImage) error {
	return m.Called(ctx, image).Error(0)
}

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Enhance(ctx context.Context, in *outbound.EnhanceInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Generate(ctx context.Context, in *outbound.GenerateInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Upscale(ctx context.Context, in *outbound.UpscaleInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type MockModelRun struct {
	mock.Mock
}

func (m *MockModelRun) Run(ctx context.Context, in *outbound.ModelRunInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type MockAssets struct {
	mock.Mock
}

func (m *MockAssets) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}
