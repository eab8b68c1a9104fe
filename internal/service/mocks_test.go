package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) CreateItem(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemStore) SaveItem(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) UpdateItemStatus(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemStore) ListItems(ctx context.Context) ([]model.ItemWithFDA, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ItemWithFDA), args.Error(1)
}

func (m *MockItemStore) ListItemsByFDA(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemStore) LatestByCounterparty(ctx context.Context, counterparty string) (*model.Item, error) {
	args := m.Called(ctx, counterparty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemStore) DistinctCounterparties(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockItemStore) DistinctVessels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockFDAStore struct {
	mock.Mock
}

func (m *MockFDAStore) CreateFDA(ctx context.Context, fda *model.FDA) error {
	args := m.Called(ctx, fda)
	return args.Error(0)
}

func (m *MockFDAStore) CountFDAs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFDAStore) GetFDA(ctx context.Context, id uuid.UUID) (*model.FDA, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FDA), args.Error(1)
}

func (m *MockFDAStore) ListFDAs(ctx context.Context) ([]model.FDA, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.FDA), args.Error(1)
}

func (m *MockFDAStore) UpdateFDANumber(ctx context.Context, id uuid.UUID, number string) error {
	args := m.Called(ctx, id, number)
	return args.Error(0)
}

func (m *MockFDAStore) SetFDAOpen(ctx context.Context, id uuid.UUID, open bool) error {
	args := m.Called(ctx, id, open)
	return args.Error(0)
}

type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditStore) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) CreateFile(ctx context.Context, file *model.StoredFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileStore) GetFile(ctx context.Context, id uuid.UUID) (*model.StoredFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockFileStore) FileMetas(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.FileMeta, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]model.FileMeta), args.Error(1)
}

// recordedAudit collects audit calls made through AuditRecorder.
type recordedAudit struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (r *recordedAudit) Record(_ context.Context, user, action, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, model.AuditEntry{User: user, Action: action, Details: details})
}

func (r *recordedAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type recordedChanges struct {
	mu      sync.Mutex
	changes []events.Change
}

func (r *recordedChanges) Publish(_ context.Context, change events.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

func (r *recordedChanges) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func actorWith(email string, caps ...permission.Capability) Actor {
	return Actor{Principal: model.Principal{Email: email}, Caps: permission.NewSet(caps...)}
}
