package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/metrics"
	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/view"
)

// AuditListLimit caps how many of the most recent entries are listed.
const AuditListLimit = 500

const auditWriteTimeout = 5 * time.Second

type AuditStore interface {
	AppendAudit(ctx context.Context, entry model.AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

type AuditService struct {
	store    AuditStore
	metrics  *metrics.Metrics
	log      zerolog.Logger
	notifier notifier
	now      func() time.Time
}

func NewAuditService(store AuditStore, bus events.Publisher, m *metrics.Metrics, log zerolog.Logger) *AuditService {
	return &AuditService{
		store:    store,
		metrics:  m,
		log:      log,
		notifier: notifier{bus: bus, log: log},
		now:      time.Now,
	}
}

// Record appends an entry with the action upper-cased. A failed write is
// logged and counted; it never reaches the caller.
func (s *AuditService) Record(ctx context.Context, user, action, details string) {
	entry := model.AuditEntry{
		ID:        uuid.New(),
		User:      user,
		Action:    strings.ToUpper(strings.TrimSpace(action)),
		Details:   details,
		Timestamp: s.now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()
	if err := s.store.AppendAudit(writeCtx, entry); err != nil {
		s.metrics.AuditFailed()
		s.log.Warn().Err(err).Str("action", entry.Action).Str("user", user).Msg("audit entry not written")
		return
	}
	s.notifier.notify(writeCtx, events.CollectionLogs, entry.ID.String(), entry.Action)
}

func (s *AuditService) List(ctx context.Context, actor Actor, q view.LogQuery) (view.LogList, error) {
	if err := actor.require(permission.Logs); err != nil {
		return view.LogList{}, err
	}
	entries, err := s.store.ListAudit(ctx, AuditListLimit)
	if err != nil {
		return view.LogList{}, err
	}
	return view.BuildLogList(entries, q), nil
}
