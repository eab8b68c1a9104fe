package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

// Actor is an authenticated caller together with its resolved capabilities.
type Actor struct {
	Principal model.Principal
	Caps      permission.Set
	Master    bool
}

func (a Actor) require(c permission.Capability) error {
	if !a.Caps.Has(c) {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, c)
	}
	return nil
}

// AuditRecorder writes audit entries on a best-effort basis.
type AuditRecorder interface {
	Record(ctx context.Context, user, action, details string)
}

const notifyTimeout = 3 * time.Second

// notifier publishes change notifications. Failures never fail the mutation
// that triggered them.
type notifier struct {
	bus events.Publisher
	log zerolog.Logger
}

func (n notifier) notify(ctx context.Context, collection, id, action string) {
	if n.bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	change := events.Change{Collection: collection, ID: id, Action: action, At: time.Now().UTC()}
	if err := n.bus.Publish(ctx, change); err != nil {
		n.log.Warn().Err(err).Str("collection", collection).Str("id", id).Msg("change notification not published")
	}
}
