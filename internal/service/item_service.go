package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/metrics"
	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/tax"
	"github.com/shipstore/lma-finance/internal/view"
	"github.com/shipstore/lma-finance/internal/workflow"
)

type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error)
	SaveItem(ctx context.Context, item *model.Item) error
	UpdateItemStatus(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context) ([]model.ItemWithFDA, error)
	LatestByCounterparty(ctx context.Context, counterparty string) (*model.Item, error)
	DistinctCounterparties(ctx context.Context) ([]string, error)
	DistinctVessels(ctx context.Context) ([]string, error)
}

type FDAGetter interface {
	GetFDA(ctx context.Context, id uuid.UUID) (*model.FDA, error)
}

// ItemInput is the editable part of an item. Monetary fields other than the
// gross amount, INSS, ISS, penalty and interest are always recomputed.
// Amounts that do not parse are zero, never a rejected save.
type ItemInput struct {
	Vessel            string `json:"vessel"`
	Service           string `json:"service" validate:"required"`
	DocumentNumber    string `json:"document_number"`
	InvoiceNumber     string `json:"invoice_number"`
	CostCenter        string `json:"cost_center"`
	IssueDate         string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate           string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Counterparty      string `json:"counterparty"`
	CounterpartyTaxID string `json:"counterparty_tax_id"`
	Bank              string `json:"bank"`
	BankCode          string `json:"bank_code"`
	Branch            string `json:"branch"`
	Account           string `json:"account"`
	PixKey            string `json:"pix_key"`

	GrossAmount tax.Amount `json:"gross_amount"`
	INSS        tax.Amount `json:"inss"`
	ISS         tax.Amount `json:"iss"`
	Penalty     tax.Amount `json:"penalty"`
	Interest    tax.Amount `json:"interest"`

	InvoiceAttachments []model.Attachment `json:"invoice_attachments" validate:"dive"`
	BoletoAttachments  []model.Attachment `json:"boleto_attachments" validate:"dive"`
}

func (in *ItemInput) normalize() {
	for _, field := range []*string{
		&in.Vessel, &in.Service, &in.DocumentNumber, &in.InvoiceNumber, &in.CostCenter,
		&in.IssueDate, &in.DueDate, &in.Counterparty, &in.CounterpartyTaxID,
		&in.Bank, &in.BankCode, &in.Branch, &in.Account, &in.PixKey,
	} {
		*field = strings.TrimSpace(*field)
	}
}

func (in ItemInput) breakdown() tax.Breakdown {
	return tax.Recompute(tax.Input{
		Gross:    in.GrossAmount.Decimal,
		Penalty:  in.Penalty.Decimal,
		Interest: in.Interest.Decimal,
		INSS:     in.INSS.Decimal,
		ISS:      in.ISS.Decimal,
	})
}

// breakdownFor keeps the stored tax components when only penalty or interest
// changed; any change to gross, INSS or ISS recomputes everything.
func (in ItemInput) breakdownFor(stored model.ItemData) tax.Breakdown {
	if !in.GrossAmount.Equal(stored.GrossAmount) || !in.INSS.Equal(stored.INSS) || !in.ISS.Equal(stored.ISS) {
		return in.breakdown()
	}
	return tax.Retotal(tax.Breakdown{
		Base:     stored.BaseAmount,
		PIS:      stored.PIS,
		COFINS:   stored.COFINS,
		CSLL:     stored.CSLL,
		GuidePCC: stored.GuidePCC,
		IRRF:     stored.IRRF,
		GuideIR:  stored.GuideIR,
		INSS:     stored.INSS,
		ISS:      stored.ISS,
		Retained: stored.RetainedTax,
		Net:      stored.NetAmount,
	}, in.Penalty.Decimal, in.Interest.Decimal)
}

func (in ItemInput) itemData(b tax.Breakdown) model.ItemData {
	return model.ItemData{
		Vessel:            in.Vessel,
		Service:           in.Service,
		DocumentNumber:    in.DocumentNumber,
		InvoiceNumber:     in.InvoiceNumber,
		CostCenter:        in.CostCenter,
		IssueDate:         in.IssueDate,
		DueDate:           in.DueDate,
		Counterparty:      in.Counterparty,
		CounterpartyTaxID: in.CounterpartyTaxID,
		Bank:              in.Bank,
		BankCode:          in.BankCode,
		Branch:            in.Branch,
		Account:           in.Account,
		PixKey:            in.PixKey,
		GrossAmount:       b.Base,
		BaseAmount:        b.Base,
		PIS:               b.PIS,
		COFINS:            b.COFINS,
		CSLL:              b.CSLL,
		GuidePCC:          b.GuidePCC,
		IRRF:              b.IRRF,
		GuideIR:           b.GuideIR,
		INSS:              b.INSS,
		ISS:               b.ISS,
		RetainedTax:       b.Retained,
		NetAmount:         b.Net,
		Penalty:           b.Penalty,
		Interest:          b.Interest,
		Total:             b.Total,
	}
}

// BankDetails are the banking fields copied from the latest item of a
// counterparty.
type BankDetails struct {
	Counterparty      string `json:"counterparty"`
	CounterpartyTaxID string `json:"counterparty_tax_id"`
	Bank              string `json:"bank"`
	BankCode          string `json:"bank_code"`
	Branch            string `json:"branch"`
	Account           string `json:"account"`
	PixKey            string `json:"pix_key"`
}

type Suggestions struct {
	Counterparties []string `json:"counterparties"`
	Vessels        []string `json:"vessels"`
}

type ItemService struct {
	items    ItemStore
	fdas     FDAGetter
	audit    AuditRecorder
	metrics  *metrics.Metrics
	notifier notifier
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewItemService(items ItemStore, fdas FDAGetter, audit AuditRecorder, bus events.Publisher, m *metrics.Metrics, log zerolog.Logger) *ItemService {
	return &ItemService{
		items:    items,
		fdas:     fdas,
		audit:    audit,
		metrics:  m,
		notifier: notifier{bus: bus, log: log},
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

// Create adds an item to an FDA. New items always start in PENDENTE.
func (s *ItemService) Create(ctx context.Context, actor Actor, fdaID uuid.UUID, input ItemInput) (*model.Item, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	input.normalize()
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	fda, err := s.fdas.GetFDA(ctx, fdaID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	now := s.now().UTC()
	item := &model.Item{
		ID:                 uuid.New(),
		FDAID:              fda.ID,
		ItemData:           input.itemData(input.breakdown()),
		Status:             model.ItemStatusPending,
		InvoiceAttachments: attachmentsOrEmpty(input.InvoiceAttachments),
		BoletoAttachments:  attachmentsOrEmpty(input.BoletoAttachments),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, saveFailed(err)
	}

	s.audit.Record(ctx, actor.Principal.Email, model.AuditSaveItem, fmt.Sprintf("%s (%s)", item.Service, fda.Number))
	s.notifier.notify(ctx, events.CollectionItems, item.ID.String(), "create")
	return item, nil
}

// Update replaces the data of an item and recomputes its taxes. The status
// and stage dates only change through Transition.
func (s *ItemService) Update(ctx context.Context, actor Actor, id uuid.UUID, input ItemInput) (*model.Item, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	input.normalize()
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	item.ItemData = input.itemData(input.breakdownFor(item.ItemData))
	item.InvoiceAttachments = attachmentsOrEmpty(input.InvoiceAttachments)
	item.BoletoAttachments = attachmentsOrEmpty(input.BoletoAttachments)
	item.UpdatedAt = s.now().UTC()

	if err := s.items.SaveItem(ctx, item); err != nil {
		return nil, saveFailed(err)
	}

	s.audit.Record(ctx, actor.Principal.Email, model.AuditUpdateItem, item.Service)
	s.notifier.notify(ctx, events.CollectionItems, item.ID.String(), "update")
	return item, nil
}

// Delete removes an item permanently. It needs the launched module or the
// master identity.
func (s *ItemService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.Master && !actor.Caps.Has(permission.Launched) {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, permission.Launched)
	}
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return saveFailed(err)
	}

	s.audit.Record(ctx, actor.Principal.Email, model.AuditDeleteItem, fmt.Sprintf("%s [%s]", item.Service, item.Status))
	s.notifier.notify(ctx, events.CollectionItems, id.String(), "delete")
	return nil
}

func (s *ItemService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Item, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return item, nil
}

// Transition moves an item one step through the payment pipeline. The guard
// is evaluated against the tab of the item's current status.
func (s *ItemService) Transition(ctx context.Context, actor Actor, id uuid.UUID, direction workflow.Direction) (*model.Item, workflow.Result, error) {
	if err := actor.require(permission.Finance); err != nil {
		return nil, workflow.Result{}, err
	}
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, workflow.Result{}, notFoundOr(err)
	}

	from := item.Status
	result, err := workflow.Apply(item, actor.Caps, direction, s.now().UTC())
	if err != nil {
		s.metrics.TransitionRejected(string(from), rejectionReason(err))
		return nil, workflow.Result{}, transitionError(err)
	}

	if err := s.items.UpdateItemStatus(ctx, item); err != nil {
		return nil, workflow.Result{}, saveFailed(err)
	}
	s.metrics.TransitionApplied(string(result.From), string(result.To), string(result.Direction))
	s.log.Debug().
		Str("item_id", id.String()).
		Str("from", string(result.From)).
		Str("to", string(result.To)).
		Msg("item status changed")

	s.audit.Record(ctx, actor.Principal.Email, model.AuditChangeStatus,
		fmt.Sprintf("%s: %s -> %s", item.Service, result.From, result.To))
	s.notifier.notify(ctx, events.CollectionItems, id.String(), "status")
	return item, result, nil
}

// Snapshot is the full, current item collection every view is derived from.
func (s *ItemService) Snapshot(ctx context.Context) ([]model.ItemWithFDA, error) {
	return s.items.ListItems(ctx)
}

func (s *ItemService) FinanceBoard(ctx context.Context, actor Actor, q view.FinanceQuery) (view.FinanceBoard, error) {
	if err := actor.require(permission.Finance); err != nil {
		return view.FinanceBoard{}, err
	}
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return view.FinanceBoard{}, err
	}
	return view.BuildFinanceBoard(snapshot, actor.Caps, q), nil
}

func (s *ItemService) LaunchedList(ctx context.Context, actor Actor, q view.LaunchedQuery) (view.LaunchedList, error) {
	if err := actor.require(permission.Launched); err != nil {
		return view.LaunchedList{}, err
	}
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return view.LaunchedList{}, err
	}
	return view.BuildLaunchedList(snapshot, actor.Caps, q), nil
}

func (s *ItemService) Suggestions(ctx context.Context, actor Actor) (Suggestions, error) {
	if err := actor.require(permission.Entry); err != nil {
		return Suggestions{}, err
	}
	counterparties, err := s.items.DistinctCounterparties(ctx)
	if err != nil {
		return Suggestions{}, err
	}
	vessels, err := s.items.DistinctVessels(ctx)
	if err != nil {
		return Suggestions{}, err
	}
	return Suggestions{Counterparties: counterparties, Vessels: vessels}, nil
}

// Autofill returns the banking details of the most recent item registered
// for counterparty.
func (s *ItemService) Autofill(ctx context.Context, actor Actor, counterparty string) (*BankDetails, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	counterparty = strings.TrimSpace(counterparty)
	if counterparty == "" {
		return nil, fmt.Errorf("%w: counterparty is required", ErrInvalidInput)
	}
	item, err := s.items.LatestByCounterparty(ctx, counterparty)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &BankDetails{
		Counterparty:      item.Counterparty,
		CounterpartyTaxID: item.CounterpartyTaxID,
		Bank:              item.Bank,
		BankCode:          item.BankCode,
		Branch:            item.Branch,
		Account:           item.Account,
		PixKey:            item.PixKey,
	}, nil
}

func attachmentsOrEmpty(in []model.Attachment) []model.Attachment {
	if in == nil {
		return []model.Attachment{}
	}
	return in
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrNotAllowed):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case errors.Is(err, workflow.ErrNoTransition),
		errors.Is(err, workflow.ErrUnknownDirection),
		errors.Is(err, workflow.ErrUnknownStatus):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, workflow.ErrNotAllowed):
		return "not_allowed"
	case errors.Is(err, workflow.ErrNoTransition):
		return "no_transition"
	case errors.Is(err, workflow.ErrUnknownDirection):
		return "unknown_direction"
	default:
		return "unknown_status"
	}
}
