package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

const masterEmail = "master@lma.com"

type memoryPermissions struct {
	mu      sync.Mutex
	records map[string]model.PermissionRecord
}

func (m *memoryPermissions) GetPermission(_ context.Context, email string) (*model.PermissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &record, nil
}

func (m *memoryPermissions) SavePermission(_ context.Context, record model.PermissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Email] = record
	return nil
}

func (m *memoryPermissions) ListPermissions(context.Context) ([]model.PermissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PermissionRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func newPermissionFixture() (*PermissionService, *memoryPermissions, *recordedAudit) {
	store := &memoryPermissions{records: map[string]model.PermissionRecord{}}
	audit := &recordedAudit{}
	resolver := permission.NewResolver(store, permission.Policy{MasterIdentity: masterEmail})
	return NewPermissionService(resolver, audit, nil, zerolog.Nop()), store, audit
}

func TestResolveBuildsActor(t *testing.T) {
	svc, store, _ := newPermissionFixture()

	master, err := svc.Resolve(context.Background(), model.Principal{Email: masterEmail})
	require.NoError(t, err)
	require.True(t, master.Master)
	require.True(t, master.Caps.Has(permission.FinancePaid))

	user, err := svc.Resolve(context.Background(), model.Principal{Email: "novo@lma.com"})
	require.NoError(t, err)
	require.False(t, user.Master)
	require.Equal(t, []string{"entry"}, user.Caps.Strings())
	require.Contains(t, store.records, "novo@lma.com")

	_, err = svc.Resolve(context.Background(), model.Principal{})
	require.ErrorIs(t, err, ErrNoAccess)
}

func TestUpdateCapabilitiesMergesAndAudits(t *testing.T) {
	svc, store, audit := newPermissionFixture()
	store.records["ana@lma.com"] = model.PermissionRecord{Email: "ana@lma.com", Modules: []string{"entry", "logs"}}
	master, err := svc.Resolve(context.Background(), model.Principal{Email: masterEmail})
	require.NoError(t, err)

	caps, err := svc.UpdateCapabilities(context.Background(), master, "ana@lma.com", []string{"Finance", "finance_pending"}, []string{"logs"})
	require.NoError(t, err)
	require.True(t, caps.Has(permission.Finance))
	require.True(t, caps.Has(permission.FinancePending))
	require.False(t, caps.Has(permission.Logs))
	require.True(t, caps.Has(permission.Entry))
	require.Equal(t, []string{model.AuditChangePermission}, audit.actions())
}

func TestUpdateCapabilitiesMatchesAddedUser(t *testing.T) {
	svc, store, audit := newPermissionFixture()
	master, err := svc.Resolve(context.Background(), model.Principal{Email: masterEmail})
	require.NoError(t, err)

	_, err = svc.AddUser(context.Background(), master, "user@x.com")
	require.NoError(t, err)
	caps, err := svc.UpdateCapabilities(context.Background(), master, "User@X.com", []string{"logs"}, nil)
	require.NoError(t, err)
	require.True(t, caps.Has(permission.Logs))

	require.Len(t, store.records, 1)
	require.Equal(t, []string{"entry", "logs"}, []string(store.records["user@x.com"].Modules))
	require.Equal(t, []string{model.AuditCreateUser, model.AuditChangePermission}, audit.actions())
}

func TestUpdateCapabilitiesRejects(t *testing.T) {
	svc, store, _ := newPermissionFixture()
	master, err := svc.Resolve(context.Background(), model.Principal{Email: masterEmail})
	require.NoError(t, err)

	_, err = svc.UpdateCapabilities(context.Background(), master, "ana@lma.com", []string{"finance", "superuser"}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.NotContains(t, store.records, "ana@lma.com")

	_, err = svc.UpdateCapabilities(context.Background(), master, "ana@lma.com", []string{"all_tabs"}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateCapabilities(context.Background(), master, "ana@lma.com", nil, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	user := actorWith("ana@lma.com", permission.Entry, permission.Users)
	_, err = svc.UpdateCapabilities(context.Background(), user, "ana@lma.com", []string{"finance"}, nil)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAddUserNormalizesEmail(t *testing.T) {
	svc, store, audit := newPermissionFixture()
	master, err := svc.Resolve(context.Background(), model.Principal{Email: masterEmail})
	require.NoError(t, err)

	record, err := svc.AddUser(context.Background(), master, "  Novo.Usuario@LMA.com ")
	require.NoError(t, err)
	require.Equal(t, "novo.usuario@lma.com", record.Email)
	require.Equal(t, []string{"entry"}, []string(store.records["novo.usuario@lma.com"].Modules))
	require.Equal(t, []string{model.AuditCreateUser}, audit.actions())

	_, err = svc.AddUser(context.Background(), actorWith("ana@lma.com", permission.Entry), "x@lma.com")
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ListUsers(context.Background(), actorWith("ana@lma.com", permission.Entry))
	require.ErrorIs(t, err, ErrPermissionDenied)
}
