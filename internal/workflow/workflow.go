// Package workflow implements the payment pipeline of an item:
// PENDENTE -> PROVISIONADO -> APROVADO -> PAGO, with single-step corrections back.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

var (
	ErrNotAllowed       = errors.New("transition not allowed")
	ErrNoTransition     = errors.New("no transition in that direction")
	ErrUnknownStatus    = errors.New("unknown status")
	ErrUnknownDirection = errors.New("unknown direction")
)

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "forward", "next":
		return Forward, nil
	case "backward", "back", "prev":
		return Backward, nil
	default:
		return "", ErrUnknownDirection
	}
}

// Stage describes one status of the pipeline and the tab that shows it.
type Stage struct {
	Status     model.ItemStatus
	TabLabel   string
	Next       model.ItemStatus
	Prev       model.ItemStatus
	Action     string
	Capability permission.Capability
}

var stages = []Stage{
	{
		Status:     model.ItemStatusPending,
		TabLabel:   "A Pagar",
		Next:       model.ItemStatusProvisioned,
		Action:     "Provisionar",
		Capability: permission.FinancePending,
	},
	{
		Status:     model.ItemStatusProvisioned,
		TabLabel:   "Provisionado",
		Next:       model.ItemStatusApproved,
		Prev:       model.ItemStatusPending,
		Action:     "Aprovar",
		Capability: permission.FinanceProvision,
	},
	{
		Status:     model.ItemStatusApproved,
		TabLabel:   "Aprovado",
		Next:       model.ItemStatusPaid,
		Prev:       model.ItemStatusProvisioned,
		Action:     "Liquidar",
		Capability: permission.FinanceApproved,
	},
	{
		Status:     model.ItemStatusPaid,
		TabLabel:   "Liquidados",
		Prev:       model.ItemStatusApproved,
		Capability: permission.FinancePaid,
	},
}

// Stages returns the pipeline in order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

func StageOf(status model.ItemStatus) (Stage, bool) {
	for _, s := range stages {
		if s.Status == status {
			return s, true
		}
	}
	return Stage{}, false
}

func ParseStatus(raw string) (model.ItemStatus, error) {
	status := model.ItemStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := StageOf(status); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

// CanAct is the guard shared by button visibility and Apply. It is evaluated
// against the tab of the item's current status.
func CanAct(status model.ItemStatus, caps permission.Set) bool {
	stage, ok := StageOf(status)
	if !ok {
		return false
	}
	return caps.Has(stage.Capability)
}

// Action is a transition button offered on a status tab.
type Action struct {
	Direction Direction        `json:"direction"`
	Target    model.ItemStatus `json:"target"`
	Label     string           `json:"label"`
}

// Actions lists the transitions caps may perform on an item in status.
func Actions(status model.ItemStatus, caps permission.Set) []Action {
	stage, ok := StageOf(status)
	if !ok || !CanAct(status, caps) {
		return nil
	}
	var actions []Action
	if stage.Prev != "" {
		actions = append(actions, Action{Direction: Backward, Target: stage.Prev, Label: "Retornar Status"})
	}
	if stage.Next != "" {
		actions = append(actions, Action{Direction: Forward, Target: stage.Next, Label: stage.Action})
	}
	return actions
}

// Result reports what Apply changed.
type Result struct {
	From      model.ItemStatus
	To        model.ItemStatus
	Direction Direction
	StampedOn string
}

// Apply moves item one step in direction. On any error the item is left
// untouched. A forward move stamps the date of the target stage, overwriting
// an earlier stamp; a backward move only changes the status.
func Apply(item *model.Item, caps permission.Set, direction Direction, now time.Time) (Result, error) {
	stage, ok := StageOf(item.Status)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStatus, item.Status)
	}
	if !caps.Has(stage.Capability) {
		return Result{}, fmt.Errorf("%w: %s requires %s", ErrNotAllowed, stage.Status, stage.Capability)
	}

	var target model.ItemStatus
	switch direction {
	case Forward:
		target = stage.Next
	case Backward:
		target = stage.Prev
	default:
		return Result{}, ErrUnknownDirection
	}
	if target == "" {
		return Result{}, fmt.Errorf("%w: %s from %s", ErrNoTransition, direction, stage.Status)
	}

	result := Result{From: item.Status, To: target, Direction: direction}
	if direction == Forward {
		date := now.Format(model.DateLayout)
		stamp(item, target, date)
		result.StampedOn = date
	}
	item.Status = target
	return result, nil
}

func stamp(item *model.Item, status model.ItemStatus, date string) {
	switch status {
	case model.ItemStatusProvisioned:
		item.ProvisionedOn = date
	case model.ItemStatusApproved:
		item.ApprovedOn = date
	case model.ItemStatusPaid:
		item.PaidOn = date
	}
}
