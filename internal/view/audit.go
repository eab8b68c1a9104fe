package view

import (
	"sort"
	"strings"

	"github.com/shipstore/lma-finance/internal/model"
)

type LogSortKey string

const (
	LogSortDateAsc    LogSortKey = "data-asc"
	LogSortDateDesc   LogSortKey = "data-desc"
	LogSortUserAsc    LogSortKey = "usuario-asc"
	LogSortUserDesc   LogSortKey = "usuario-desc"
	LogSortActionAsc  LogSortKey = "acao-asc"
	LogSortActionDesc LogSortKey = "acao-desc"
)

type LogQuery struct {
	Search string
	Action string
	Sort   LogSortKey
}

type LogList struct {
	Entries []model.AuditEntry `json:"entries"`
	Actions []string           `json:"actions"`
	Total   int                `json:"total"`
}

// BuildLogList filters and orders audit entries. Actions lists every distinct
// action of the unfiltered input so a filter can always be cleared.
func BuildLogList(entries []model.AuditEntry, q LogQuery) LogList {
	list := LogList{Entries: []model.AuditEntry{}, Total: len(entries)}

	seen := make(map[string]struct{})
	for _, e := range entries {
		if _, ok := seen[e.Action]; !ok {
			seen[e.Action] = struct{}{}
			list.Actions = append(list.Actions, e.Action)
		}
	}
	sort.Strings(list.Actions)

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, e := range entries {
		if needle != "" && !containsFold(e.User, needle) &&
			!containsFold(e.Action, needle) &&
			!containsFold(e.Details, needle) {
			continue
		}
		if q.Action != "" && q.Action != "all" && e.Action != q.Action {
			continue
		}
		list.Entries = append(list.Entries, e)
	}

	var less func(a, b model.AuditEntry) bool
	switch q.Sort {
	case LogSortDateAsc:
		less = func(a, b model.AuditEntry) bool { return a.Timestamp.Before(b.Timestamp) }
	case LogSortUserAsc:
		less = func(a, b model.AuditEntry) bool { return a.User < b.User }
	case LogSortUserDesc:
		less = func(a, b model.AuditEntry) bool { return b.User < a.User }
	case LogSortActionAsc:
		less = func(a, b model.AuditEntry) bool { return a.Action < b.Action }
	case LogSortActionDesc:
		less = func(a, b model.AuditEntry) bool { return b.Action < a.Action }
	default:
		less = func(a, b model.AuditEntry) bool { return b.Timestamp.Before(a.Timestamp) }
	}
	sort.SliceStable(list.Entries, func(i, j int) bool { return less(list.Entries[i], list.Entries[j]) })
	return list
}
