package view

import (
	"strings"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

type LaunchedTab string

const (
	LaunchedOpen LaunchedTab = "abertos"
	LaunchedPaid LaunchedTab = "liquidados"
)

type LaunchedQuery struct {
	Tab    LaunchedTab
	Search string
	// Status narrows the open tab to one status; empty means all.
	Status model.ItemStatus
	Sort   SortKey
}

type LaunchedList struct {
	ActiveTab LaunchedTab         `json:"active_tab"`
	Tabs      []LaunchedTab       `json:"tabs"`
	Items     []model.ItemWithFDA `json:"items"`
	// TabCount is the number of items in the tab before search and filters.
	TabCount int `json:"tab_count"`
}

func VisibleLaunchedTabs(caps permission.Set) []LaunchedTab {
	var tabs []LaunchedTab
	if caps.Has(permission.LaunchedOpen) {
		tabs = append(tabs, LaunchedOpen)
	}
	if caps.Has(permission.LaunchedPaid) {
		tabs = append(tabs, LaunchedPaid)
	}
	return tabs
}

func inTab(tab LaunchedTab, status model.ItemStatus) bool {
	if tab == LaunchedPaid {
		return status == model.ItemStatusPaid
	}
	return status != model.ItemStatusPaid
}

// BuildLaunchedList lists every item of the open or paid tab. Without access
// to the open tab the paid tab is the default.
func BuildLaunchedList(snapshot []model.ItemWithFDA, caps permission.Set, q LaunchedQuery) LaunchedList {
	list := LaunchedList{Tabs: VisibleLaunchedTabs(caps), Items: []model.ItemWithFDA{}}
	if len(list.Tabs) == 0 {
		return list
	}
	list.ActiveTab = list.Tabs[0]
	for _, tab := range list.Tabs {
		if tab == q.Tab {
			list.ActiveTab = tab
		}
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, item := range snapshot {
		if !inTab(list.ActiveTab, item.Status) {
			continue
		}
		list.TabCount++
		if needle != "" && !containsFold(item.Service, needle) &&
			!containsFold(item.FDANumber, needle) &&
			!containsFold(item.Counterparty, needle) {
			continue
		}
		if list.ActiveTab == LaunchedOpen && q.Status != "" && item.Status != q.Status {
			continue
		}
		list.Items = append(list.Items, item)
	}
	sortItems(list.Items, q.Sort)
	return list
}
