package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/workflow"
)

func item(status model.ItemStatus, due, service, total string) model.ItemWithFDA {
	it := model.ItemWithFDA{FDANumber: "FDA-2026-001"}
	it.ID = uuid.New()
	it.Status = status
	it.DueDate = due
	it.Service = service
	it.Counterparty = "AGENCIA " + service
	it.Total = decimal.RequireFromString(total)
	return it
}

func snapshot() []model.ItemWithFDA {
	return []model.ItemWithFDA{
		item(model.ItemStatusPending, "2026-05-10", "PRATICAGEM", "100"),
		item(model.ItemStatusPending, "", "REBOQUE", "40"),
		item(model.ItemStatusPending, "2026-05-01", "AMARRACAO", "10"),
		item(model.ItemStatusPending, "2026-05-10", "LANCHA", "20.50"),
		item(model.ItemStatusProvisioned, "2026-04-01", "PRATICAGEM", "999"),
		item(model.ItemStatusPaid, "2026-01-01", "DESPACHO", "5"),
	}
}

func TestFinanceBoardGroupsByDueDate(t *testing.T) {
	board := BuildFinanceBoard(snapshot(), permission.Full(), FinanceQuery{Tab: model.ItemStatusPending})

	require.Equal(t, model.ItemStatusPending, board.ActiveTab)
	require.Len(t, board.Tabs, 4)
	require.Equal(t, 4, board.Tabs[0].Count)
	require.Equal(t, "A Pagar", board.Tabs[0].Label)

	require.Len(t, board.Groups, 3)
	require.Equal(t, "2026-05-01", board.Groups[0].DueDate)
	require.Equal(t, "2026-05-10", board.Groups[1].DueDate)
	require.Equal(t, 2, board.Groups[1].Count)
	require.True(t, decimal.RequireFromString("120.50").Equal(board.Groups[1].Total))
	require.True(t, board.Groups[2].NoDate)
	require.Equal(t, NoDateLabel, board.Groups[2].Label)

	require.Equal(t, 4, board.Count)
	require.True(t, decimal.RequireFromString("170.50").Equal(board.Total))

	actions := board.Groups[0].Items[0].Actions
	require.Len(t, actions, 1)
	require.Equal(t, workflow.Forward, actions[0].Direction)
}

func TestFinanceBoardHidesTabsWithoutCapability(t *testing.T) {
	caps := permission.NewSet(permission.Finance, permission.FinanceApproved, permission.FinancePaid)
	board := BuildFinanceBoard(snapshot(), caps, FinanceQuery{Tab: model.ItemStatusPending})

	require.Equal(t, model.ItemStatusApproved, board.ActiveTab)
	require.Len(t, board.Tabs, 2)
	require.Empty(t, board.Groups)
	require.Equal(t, 0, board.Count)

	empty := BuildFinanceBoard(snapshot(), permission.NewSet(permission.Finance), FinanceQuery{})
	require.Empty(t, empty.Tabs)
	require.Empty(t, empty.Groups)
}

func TestFinanceBoardSearch(t *testing.T) {
	board := BuildFinanceBoard(snapshot(), permission.Full(), FinanceQuery{Tab: model.ItemStatusPending, Search: "lancha"})
	require.Len(t, board.Groups, 1)
	require.Equal(t, "LANCHA", board.Groups[0].Items[0].Service)
}

func TestFinanceBoardSortWithinGroup(t *testing.T) {
	board := BuildFinanceBoard(snapshot(), permission.Full(), FinanceQuery{Tab: model.ItemStatusPending, Sort: SortValueAsc})
	group := board.Groups[1]
	require.Equal(t, "LANCHA", group.Items[0].Service)
	require.Equal(t, "PRATICAGEM", group.Items[1].Service)
	require.Equal(t, "2026-05-01", board.Groups[0].DueDate)
}

func TestLaunchedList(t *testing.T) {
	caps := permission.NewSet(permission.Launched, permission.LaunchedOpen, permission.LaunchedPaid)

	open := BuildLaunchedList(snapshot(), caps, LaunchedQuery{Tab: LaunchedOpen})
	require.Equal(t, LaunchedOpen, open.ActiveTab)
	require.Equal(t, 5, open.TabCount)
	require.Len(t, open.Items, 5)
	require.Equal(t, "2026-04-01", open.Items[0].DueDate)
	require.Equal(t, "", open.Items[4].DueDate)

	filtered := BuildLaunchedList(snapshot(), caps, LaunchedQuery{Tab: LaunchedOpen, Status: model.ItemStatusProvisioned})
	require.Len(t, filtered.Items, 1)

	paid := BuildLaunchedList(snapshot(), caps, LaunchedQuery{Tab: LaunchedPaid})
	require.Len(t, paid.Items, 1)
	require.Equal(t, "DESPACHO", paid.Items[0].Service)
}

func TestLaunchedListFallsBackToPaid(t *testing.T) {
	caps := permission.NewSet(permission.Launched, permission.LaunchedPaid)
	list := BuildLaunchedList(snapshot(), caps, LaunchedQuery{Tab: LaunchedOpen})
	require.Equal(t, LaunchedPaid, list.ActiveTab)
	require.Equal(t, []LaunchedTab{LaunchedPaid}, list.Tabs)

	none := BuildLaunchedList(snapshot(), permission.NewSet(permission.Launched), LaunchedQuery{})
	require.Empty(t, none.Items)
	require.Empty(t, none.Tabs)
}

func TestLaunchedSearchMatchesFDANumber(t *testing.T) {
	list := BuildLaunchedList(snapshot(), permission.Full(), LaunchedQuery{Tab: LaunchedOpen, Search: "fda-2026"})
	require.Len(t, list.Items, 5)
}

func TestSortDueDescKeepsEmptyLast(t *testing.T) {
	items := snapshot()
	sortItems(items, SortDueDesc)
	require.Equal(t, "2026-05-10", items[0].DueDate)
	require.Equal(t, "", items[len(items)-1].DueDate)
}

func TestBuildLogList(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []model.AuditEntry{
		{User: "b@x.com", Action: model.AuditSaveItem, Details: "Navio: ATLAS", Timestamp: base},
		{User: "a@x.com", Action: model.AuditChangeStatus, Details: "PENDENTE -> PROVISIONADO", Timestamp: base.Add(time.Hour)},
		{User: "c@x.com", Action: model.AuditSaveItem, Details: "Navio: ORION", Timestamp: base.Add(2 * time.Hour)},
	}

	all := BuildLogList(entries, LogQuery{})
	require.Equal(t, 3, all.Total)
	require.Equal(t, "c@x.com", all.Entries[0].User)
	require.Equal(t, []string{model.AuditChangeStatus, model.AuditSaveItem}, all.Actions)

	byAction := BuildLogList(entries, LogQuery{Action: model.AuditSaveItem, Sort: LogSortUserAsc})
	require.Len(t, byAction.Entries, 2)
	require.Equal(t, "b@x.com", byAction.Entries[0].User)

	search := BuildLogList(entries, LogQuery{Search: "orion"})
	require.Len(t, search.Entries, 1)
	require.Equal(t, "c@x.com", search.Entries[0].User)
}
