package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
)

var (
	// ErrNoAccess is fatal to the session: the caller must sign the user out.
	ErrNoAccess          = errors.New("no access")
	ErrForbidden         = errors.New("only the master identity can manage permissions")
	ErrUnknownCapability = errors.New("unknown capability")
	ErrInvalidEmail      = errors.New("invalid email")
)

type Store interface {
	GetPermission(ctx context.Context, email string) (*model.PermissionRecord, error)
	SavePermission(ctx context.Context, record model.PermissionRecord) error
	ListPermissions(ctx context.Context) ([]model.PermissionRecord, error)
}

// Policy carries the authorization parameters injected at construction.
type Policy struct {
	MasterIdentity string
}

func (p Policy) IsMaster(identity string) bool {
	return p.MasterIdentity != "" && identity == p.MasterIdentity
}

type Resolver struct {
	store  Store
	policy Policy
}

func NewResolver(store Store, policy Policy) *Resolver {
	return &Resolver{store: store, policy: policy}
}

func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve returns the capabilities of identity, lazily creating a record with
// {entry} for a first-time user.
func (r *Resolver) Resolve(ctx context.Context, identity string) (Set, error) {
	if r.policy.IsMaster(identity) {
		return Full(), nil
	}
	if strings.TrimSpace(identity) == "" {
		return Set{}, ErrNoAccess
	}

	record, err := r.store.GetPermission(ctx, identity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := model.PermissionRecord{Email: identity, Modules: []string{string(Entry)}}
		if err := r.store.SavePermission(ctx, created); err != nil {
			return Set{}, fmt.Errorf("create permission record: %w", err)
		}
		return NewSet(Entry), nil
	}
	if err != nil {
		return Set{}, err
	}

	// entry can never be revoked from an authenticated user.
	return FromStrings(record.Modules).With(Entry), nil
}

// Grant adds caps to the record of email, keeping every other stored tag.
func (r *Resolver) Grant(ctx context.Context, actor, email string, caps ...Capability) (Set, error) {
	return r.Update(ctx, actor, email, caps, nil)
}

// Revoke removes caps from the record of email, keeping every other stored tag.
func (r *Resolver) Revoke(ctx context.Context, actor, email string, caps ...Capability) (Set, error) {
	return r.Update(ctx, actor, email, nil, caps)
}

// Update applies grant then revoke to the record of email and writes it once.
// The email is normalized the same way Register does.
func (r *Resolver) Update(ctx context.Context, actor, email string, grant, revoke []Capability) (Set, error) {
	if !r.policy.IsMaster(actor) {
		return Set{}, ErrForbidden
	}
	email = NormalizeEmail(email)
	if email == "" {
		return Set{}, fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	for _, c := range append(append([]Capability{}, grant...), revoke...) {
		if _, ok := known[c]; !ok || c == AllTabs {
			return Set{}, fmt.Errorf("%w: %s", ErrUnknownCapability, c)
		}
	}

	next := NewSet()
	record, err := r.store.GetPermission(ctx, email)
	switch {
	case err == nil:
		next = FromStrings(record.Modules)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Set{}, err
	}

	for _, c := range grant {
		next = next.With(c)
	}
	for _, c := range revoke {
		next = next.Without(c)
	}
	if err := r.store.SavePermission(ctx, model.PermissionRecord{Email: email, Modules: next.Strings()}); err != nil {
		return Set{}, err
	}
	return next, nil
}

// Register creates a record with {entry} for a new user, normalizing the email.
func (r *Resolver) Register(ctx context.Context, actor, email string) (string, error) {
	if !r.policy.IsMaster(actor) {
		return "", ErrForbidden
	}
	email = NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	record := model.PermissionRecord{Email: email, Modules: []string{string(Entry)}}
	if err := r.store.SavePermission(ctx, record); err != nil {
		return "", err
	}
	return email, nil
}

func (r *Resolver) List(ctx context.Context, actor string) ([]model.PermissionRecord, error) {
	if !r.policy.IsMaster(actor) {
		return nil, ErrForbidden
	}
	return r.store.ListPermissions(ctx)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
