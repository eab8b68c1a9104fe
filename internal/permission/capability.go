package permission

import (
	"sort"
	"strings"
)

type Capability string

const (
	Entry    Capability = "entry"
	Launched Capability = "launched"
	Finance  Capability = "finance"
	Logs     Capability = "logs"
	Users    Capability = "users"

	LaunchedOpen Capability = "launched_open"
	LaunchedPaid Capability = "launched_paid"

	FinancePending   Capability = "finance_pending"
	FinanceProvision Capability = "finance_provision"
	FinanceApproved  Capability = "finance_approved"
	FinancePaid      Capability = "finance_paid"

	// AllTabs satisfies every tab-level check. Only the master identity holds it.
	AllTabs Capability = "all_tabs"
)

var known = map[Capability]bool{
	Entry:            false,
	Launched:         false,
	Finance:          false,
	Logs:             false,
	Users:            false,
	LaunchedOpen:     true,
	LaunchedPaid:     true,
	FinancePending:   true,
	FinanceProvision: true,
	FinanceApproved:  true,
	FinancePaid:      true,
	AllTabs:          false,
}

// Grantable lists the tags a master may grant to other users.
var Grantable = []Capability{
	Entry,
	Launched,
	LaunchedOpen,
	LaunchedPaid,
	Finance,
	FinancePending,
	FinanceProvision,
	FinanceApproved,
	FinancePaid,
	Logs,
}

func Parse(raw string) (Capability, bool) {
	c := Capability(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := known[c]
	return c, ok
}

// IsTab reports whether c scopes visibility of a tab inside a module.
func (c Capability) IsTab() bool {
	return known[c]
}

// Set is an immutable set of capabilities.
type Set struct {
	caps map[Capability]struct{}
}

func NewSet(caps ...Capability) Set {
	s := Set{caps: make(map[Capability]struct{}, len(caps))}
	for _, c := range caps {
		if c == "" {
			continue
		}
		s.caps[c] = struct{}{}
	}
	return s
}

// FromStrings builds a set from stored tags. Unknown tags are kept so that a
// record written by a newer version is not silently narrowed.
func FromStrings(tags []string) Set {
	caps := make([]Capability, 0, len(tags))
	for _, tag := range tags {
		caps = append(caps, Capability(strings.TrimSpace(tag)))
	}
	return NewSet(caps...)
}

// Has is the single authorization predicate. AllTabs short-circuits tab checks.
func (s Set) Has(c Capability) bool {
	if _, ok := s.caps[c]; ok {
		return true
	}
	if c.IsTab() {
		_, ok := s.caps[AllTabs]
		return ok
	}
	return false
}

func (s Set) Len() int { return len(s.caps) }

func (s Set) Empty() bool { return len(s.caps) == 0 }

func (s Set) With(c Capability) Set {
	out := NewSet(s.List()...)
	if c != "" {
		out.caps[c] = struct{}{}
	}
	return out
}

func (s Set) Without(c Capability) Set {
	out := NewSet(s.List()...)
	delete(out.caps, c)
	return out
}

// List returns the capabilities sorted by name.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s.caps))
	for c := range s.caps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) Strings() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = string(c)
	}
	return out
}

// Full is the fixed set held by the master identity.
func Full() Set {
	return NewSet(
		Entry, Launched, Finance, Users, Logs,
		LaunchedOpen, LaunchedPaid,
		FinancePending, FinanceProvision, FinanceApproved, FinancePaid,
		AllTabs,
	)
}
