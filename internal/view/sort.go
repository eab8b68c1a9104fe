// Package view derives read models from the latest full snapshot of the store.
// Every projection is recomputed from scratch; nothing is patched incrementally.
package view

import (
	"sort"
	"strings"

	"github.com/shipstore/lma-finance/internal/model"
)

type SortKey string

const (
	SortDueAsc      SortKey = "vencimento-asc"
	SortDueDesc     SortKey = "vencimento-desc"
	SortValueAsc    SortKey = "valor-asc"
	SortValueDesc   SortKey = "valor-desc"
	SortServiceAsc  SortKey = "servico-asc"
	SortServiceDesc SortKey = "servico-desc"
)

func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortDueAsc, SortDueDesc, SortValueAsc, SortValueDesc, SortServiceAsc, SortServiceDesc:
		return key
	default:
		return SortDueAsc
	}
}

// sortItems orders items in place. Items without a due date go last for both
// due-date orders.
func sortItems(items []model.ItemWithFDA, key SortKey) {
	var less func(a, b model.ItemWithFDA) bool
	switch key {
	case SortDueDesc:
		less = func(a, b model.ItemWithFDA) bool {
			if a.DueDate == "" || b.DueDate == "" {
				return dueLess(a.DueDate, b.DueDate)
			}
			return a.DueDate > b.DueDate
		}
	case SortValueAsc:
		less = func(a, b model.ItemWithFDA) bool { return a.Total.LessThan(b.Total) }
	case SortValueDesc:
		less = func(a, b model.ItemWithFDA) bool { return b.Total.LessThan(a.Total) }
	case SortServiceAsc:
		less = func(a, b model.ItemWithFDA) bool { return a.Service < b.Service }
	case SortServiceDesc:
		less = func(a, b model.ItemWithFDA) bool { return b.Service < a.Service }
	default:
		less = func(a, b model.ItemWithFDA) bool { return dueLess(a.DueDate, b.DueDate) }
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// dueLess compares YYYY-MM-DD dates; an empty date sorts after every date.
func dueLess(a, b string) bool {
	switch {
	case a == b:
		return false
	case a == "":
		return false
	case b == "":
		return true
	default:
		return a < b
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
