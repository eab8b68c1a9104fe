package view

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/workflow"
)

// NoDateLabel names the bucket of items without a due date.
const NoDateLabel = "Sem Data"

type FinanceTab struct {
	Status model.ItemStatus `json:"status"`
	Label  string           `json:"label"`
	Count  int              `json:"count"`
}

type FinanceRow struct {
	model.ItemWithFDA
	Actions []workflow.Action `json:"actions"`
}

type DueGroup struct {
	DueDate string          `json:"due_date"`
	Label   string          `json:"label"`
	NoDate  bool            `json:"no_date"`
	Items   []FinanceRow    `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

type FinanceBoard struct {
	ActiveTab model.ItemStatus `json:"active_tab"`
	Tabs      []FinanceTab     `json:"tabs"`
	Groups    []DueGroup       `json:"groups"`
	Total     decimal.Decimal  `json:"total"`
	Count     int              `json:"count"`
}

type FinanceQuery struct {
	Tab    model.ItemStatus
	Search string
	Sort   SortKey
}

// VisibleFinanceTabs returns the pipeline stages caps can see, in order.
func VisibleFinanceTabs(caps permission.Set) []workflow.Stage {
	var out []workflow.Stage
	for _, stage := range workflow.Stages() {
		if caps.Has(stage.Capability) {
			out = append(out, stage)
		}
	}
	return out
}

// BuildFinanceBoard groups the items of the active status tab by due date.
// When the requested tab is not visible the first visible tab is used.
func BuildFinanceBoard(snapshot []model.ItemWithFDA, caps permission.Set, q FinanceQuery) FinanceBoard {
	board := FinanceBoard{Total: decimal.Zero}

	stages := VisibleFinanceTabs(caps)
	if len(stages) == 0 {
		return board
	}

	counts := make(map[model.ItemStatus]int, len(stages))
	for _, item := range snapshot {
		counts[item.Status]++
	}

	board.ActiveTab = stages[0].Status
	for _, stage := range stages {
		board.Tabs = append(board.Tabs, FinanceTab{Status: stage.Status, Label: stage.TabLabel, Count: counts[stage.Status]})
		if stage.Status == q.Tab {
			board.ActiveTab = q.Tab
		}
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := make([]model.ItemWithFDA, 0)
	for _, item := range snapshot {
		if item.Status != board.ActiveTab {
			continue
		}
		if needle != "" && !containsFold(item.Service, needle) &&
			!containsFold(item.Counterparty, needle) &&
			!containsFold(item.Vessel, needle) {
			continue
		}
		filtered = append(filtered, item)
	}
	sortItems(filtered, q.Sort)

	actions := workflow.Actions(board.ActiveTab, caps)
	index := make(map[string]int)
	for _, item := range filtered {
		key := item.DueDate
		pos, ok := index[key]
		if !ok {
			label := key
			if key == "" {
				label = NoDateLabel
			}
			board.Groups = append(board.Groups, DueGroup{DueDate: key, Label: label, NoDate: key == "", Total: decimal.Zero})
			pos = len(board.Groups) - 1
			index[key] = pos
		}
		group := &board.Groups[pos]
		group.Items = append(group.Items, FinanceRow{ItemWithFDA: item, Actions: actions})
		group.Total = group.Total.Add(item.Total)
		group.Count++
	}

	sort.SliceStable(board.Groups, func(i, j int) bool {
		return dueLess(board.Groups[i].DueDate, board.Groups[j].DueDate)
	})

	for _, group := range board.Groups {
		board.Total = board.Total.Add(group.Total)
		board.Count += group.Count
	}
	return board
}
