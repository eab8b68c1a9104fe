package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

type FDAStore interface {
	CreateFDA(ctx context.Context, fda *model.FDA) error
	CountFDAs(ctx context.Context) (int64, error)
	GetFDA(ctx context.Context, id uuid.UUID) (*model.FDA, error)
	ListFDAs(ctx context.Context) ([]model.FDA, error)
	UpdateFDANumber(ctx context.Context, id uuid.UUID, number string) error
	SetFDAOpen(ctx context.Context, id uuid.UUID, open bool) error
}

type FDAItemLister interface {
	ListItemsByFDA(ctx context.Context, fdaIDs []uuid.UUID) ([]model.Item, error)
}

type FDAService struct {
	fdas     FDAStore
	items    FDAItemLister
	audit    AuditRecorder
	notifier notifier
	now      func() time.Time
}

func NewFDAService(fdas FDAStore, items FDAItemLister, audit AuditRecorder, bus events.Publisher, log zerolog.Logger) *FDAService {
	return &FDAService{
		fdas:     fdas,
		items:    items,
		audit:    audit,
		notifier: notifier{bus: bus, log: log},
		now:      time.Now,
	}
}

// Create opens a new FDA numbered FDA-<year>-<NNN> after the current count.
func (s *FDAService) Create(ctx context.Context, actor Actor) (*model.FDA, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	count, err := s.fdas.CountFDAs(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fda := &model.FDA{
		ID:        uuid.New(),
		Number:    fmt.Sprintf("FDA-%d-%03d", now.Year(), count+1),
		IsOpen:    true,
		CreatedAt: now,
	}
	if err := s.fdas.CreateFDA(ctx, fda); err != nil {
		return nil, saveFailed(err)
	}

	s.audit.Record(ctx, actor.Principal.Email, model.AuditCreateFDA, fda.Number)
	s.notifier.notify(ctx, events.CollectionFDAs, fda.ID.String(), "create")
	return fda, nil
}

func (s *FDAService) Rename(ctx context.Context, actor Actor, id uuid.UUID, number string) (*model.FDA, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, fmt.Errorf("%w: number is required", ErrInvalidInput)
	}
	if err := s.fdas.UpdateFDANumber(ctx, id, number); err != nil {
		return nil, saveFailed(err)
	}
	s.notifier.notify(ctx, events.CollectionFDAs, id.String(), "update")

	fda, err := s.fdas.GetFDA(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return fda, nil
}

// Toggle flips whether the FDA is expanded in the entry screen.
func (s *FDAService) Toggle(ctx context.Context, actor Actor, id uuid.UUID) (*model.FDA, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	fda, err := s.fdas.GetFDA(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	fda.IsOpen = !fda.IsOpen
	if err := s.fdas.SetFDAOpen(ctx, id, fda.IsOpen); err != nil {
		return nil, saveFailed(err)
	}
	s.notifier.notify(ctx, events.CollectionFDAs, id.String(), "update")
	return fda, nil
}

// List returns every FDA with its items, newest reference first.
func (s *FDAService) List(ctx context.Context, actor Actor) ([]model.FDAWithItems, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	fdas, err := s.fdas.ListFDAs(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(fdas))
	for _, fda := range fdas {
		ids = append(ids, fda.ID)
	}
	items, err := s.items.ListItemsByFDA(ctx, ids)
	if err != nil {
		return nil, err
	}

	byFDA := make(map[uuid.UUID][]model.Item, len(fdas))
	for _, item := range items {
		byFDA[item.FDAID] = append(byFDA[item.FDAID], item)
	}

	result := make([]model.FDAWithItems, 0, len(fdas))
	for _, fda := range fdas {
		grouped := byFDA[fda.ID]
		if grouped == nil {
			grouped = []model.Item{}
		}
		result = append(result, model.FDAWithItems{FDA: fda, Items: grouped})
	}
	return result, nil
}
