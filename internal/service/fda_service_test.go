package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

func newFDAFixture() (*FDAService, *MockFDAStore, *MockItemStore, *recordedAudit) {
	fdas := new(MockFDAStore)
	items := new(MockItemStore)
	audit := &recordedAudit{}
	svc := NewFDAService(fdas, items, audit, &recordedChanges{}, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, fdas, items, audit
}

func TestCreateFDANumbersAfterCount(t *testing.T) {
	svc, fdas, _, audit := newFDAFixture()
	fdas.On("CountFDAs", mock.Anything).Return(int64(4), nil)
	fdas.On("CreateFDA", mock.Anything, mock.MatchedBy(func(f *model.FDA) bool {
		return f.Number == "FDA-2026-005" && f.IsOpen
	})).Return(nil)

	fda, err := svc.Create(context.Background(), actorWith("ana@lma.com", permission.Entry))
	require.NoError(t, err)
	require.Equal(t, "FDA-2026-005", fda.Number)
	require.Equal(t, []string{model.AuditCreateFDA}, audit.actions())
	fdas.AssertExpectations(t)
}

func TestRenameFDAUppercases(t *testing.T) {
	svc, fdas, _, _ := newFDAFixture()
	id := uuid.New()
	fdas.On("UpdateFDANumber", mock.Anything, id, "FDA-ESPECIAL-01").Return(nil)
	fdas.On("GetFDA", mock.Anything, id).Return(&model.FDA{ID: id, Number: "FDA-ESPECIAL-01"}, nil)

	fda, err := svc.Rename(context.Background(), actorWith("ana@lma.com", permission.Entry), id, "  fda-especial-01 ")
	require.NoError(t, err)
	require.Equal(t, "FDA-ESPECIAL-01", fda.Number)

	_, err = svc.Rename(context.Background(), actorWith("ana@lma.com", permission.Entry), id, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
	fdas.AssertExpectations(t)
}

func TestRenameUnknownFDA(t *testing.T) {
	svc, fdas, _, _ := newFDAFixture()
	fdas.On("UpdateFDANumber", mock.Anything, mock.Anything, mock.Anything).Return(gorm.ErrRecordNotFound)

	_, err := svc.Rename(context.Background(), actorWith("ana@lma.com", permission.Entry), uuid.New(), "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleFDA(t *testing.T) {
	svc, fdas, _, _ := newFDAFixture()
	id := uuid.New()
	fdas.On("GetFDA", mock.Anything, id).Return(&model.FDA{ID: id, IsOpen: true}, nil)
	fdas.On("SetFDAOpen", mock.Anything, id, false).Return(nil)

	fda, err := svc.Toggle(context.Background(), actorWith("ana@lma.com", permission.Entry), id)
	require.NoError(t, err)
	require.False(t, fda.IsOpen)
	fdas.AssertExpectations(t)
}

func TestListFDAsGroupsItems(t *testing.T) {
	svc, fdas, items, _ := newFDAFixture()
	first, second := uuid.New(), uuid.New()
	fdas.On("ListFDAs", mock.Anything).Return([]model.FDA{{ID: second, Number: "FDA-2026-002"}, {ID: first, Number: "FDA-2026-001"}}, nil)
	items.On("ListItemsByFDA", mock.Anything, []uuid.UUID{second, first}).Return([]model.Item{
		{ID: uuid.New(), FDAID: first},
		{ID: uuid.New(), FDAID: first},
	}, nil)

	list, err := svc.List(context.Background(), actorWith("ana@lma.com", permission.Entry))
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "FDA-2026-002", list[0].Number)
	require.Empty(t, list[0].Items)
	require.NotNil(t, list[0].Items)
	require.Len(t, list[1].Items, 2)
}
