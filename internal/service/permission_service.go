package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

type PermissionService struct {
	resolver *permission.Resolver
	audit    AuditRecorder
	notifier notifier
}

func NewPermissionService(resolver *permission.Resolver, audit AuditRecorder, bus events.Publisher, log zerolog.Logger) *PermissionService {
	return &PermissionService{
		resolver: resolver,
		audit:    audit,
		notifier: notifier{bus: bus, log: log},
	}
}

// Resolve turns an authenticated principal into an Actor. ErrNoAccess is
// returned unchanged so the caller can end the session.
func (s *PermissionService) Resolve(ctx context.Context, principal model.Principal) (Actor, error) {
	caps, err := s.resolver.Resolve(ctx, principal.Email)
	if err != nil {
		return Actor{}, err
	}
	return Actor{
		Principal: principal,
		Caps:      caps,
		Master:    s.resolver.Policy().IsMaster(principal.Email),
	}, nil
}

func (s *PermissionService) ListUsers(ctx context.Context, actor Actor) ([]model.PermissionRecord, error) {
	records, err := s.resolver.List(ctx, actor.Principal.Email)
	if err != nil {
		return nil, permissionError(err)
	}
	return records, nil
}

func (s *PermissionService) AddUser(ctx context.Context, actor Actor, email string) (model.PermissionRecord, error) {
	normalized, err := s.resolver.Register(ctx, actor.Principal.Email, email)
	if err != nil {
		return model.PermissionRecord{}, permissionError(err)
	}
	s.audit.Record(ctx, actor.Principal.Email, model.AuditCreateUser, normalized)
	s.notifier.notify(ctx, events.CollectionPermissions, normalized, "create")
	return model.PermissionRecord{Email: normalized, Modules: []string{string(permission.Entry)}}, nil
}

// UpdateCapabilities grants and revokes tags of one user in a single write.
// Every tag is validated before anything is written.
func (s *PermissionService) UpdateCapabilities(ctx context.Context, actor Actor, email string, grant, revoke []string) (permission.Set, error) {
	if !actor.Master {
		return permission.Set{}, fmt.Errorf("%w: %v", ErrPermissionDenied, permission.ErrForbidden)
	}
	email = permission.NormalizeEmail(email)
	if email == "" {
		return permission.Set{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	toGrant, err := parseCapabilities(grant)
	if err != nil {
		return permission.Set{}, err
	}
	toRevoke, err := parseCapabilities(revoke)
	if err != nil {
		return permission.Set{}, err
	}
	if len(toGrant) == 0 && len(toRevoke) == 0 {
		return permission.Set{}, fmt.Errorf("%w: nothing to change", ErrInvalidInput)
	}

	result, err := s.resolver.Update(ctx, actor.Principal.Email, email, toGrant, toRevoke)
	if err != nil {
		return permission.Set{}, permissionError(err)
	}

	s.audit.Record(ctx, actor.Principal.Email, model.AuditChangePermission, describeChange(email, toGrant, toRevoke))
	s.notifier.notify(ctx, events.CollectionPermissions, email, "update")
	return result, nil
}

func parseCapabilities(raw []string) ([]permission.Capability, error) {
	caps := make([]permission.Capability, 0, len(raw))
	for _, value := range raw {
		c, ok := permission.Parse(value)
		if !ok || c == permission.AllTabs {
			return nil, fmt.Errorf("%w: unknown capability %q", ErrInvalidInput, value)
		}
		caps = append(caps, c)
	}
	return caps, nil
}

func describeChange(email string, grant, revoke []permission.Capability) string {
	parts := []string{email + ":"}
	for _, c := range grant {
		parts = append(parts, "+"+string(c))
	}
	for _, c := range revoke {
		parts = append(parts, "-"+string(c))
	}
	return strings.Join(parts, " ")
}

func permissionError(err error) error {
	switch {
	case errors.Is(err, permission.ErrForbidden):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case errors.Is(err, permission.ErrUnknownCapability), errors.Is(err, permission.ErrInvalidEmail):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}
