package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shipstore/lma-finance/internal/service"
	"github.com/shipstore/lma-finance/internal/view"
	"github.com/shipstore/lma-finance/internal/workflow"
)

const streamKeepAlive = 25 * time.Second

func financeQuery(c *gin.Context) view.FinanceQuery {
	q := view.FinanceQuery{
		Search: c.Query("search"),
		Sort:   view.ParseSortKey(c.Query("sort")),
	}
	if status, err := workflow.ParseStatus(c.Query("tab")); err == nil {
		q.Tab = status
	}
	return q
}

func launchedQuery(c *gin.Context) view.LaunchedQuery {
	q := view.LaunchedQuery{
		Tab:    view.LaunchedTab(strings.ToLower(strings.TrimSpace(c.Query("tab")))),
		Search: c.Query("search"),
		Sort:   view.ParseSortKey(c.Query("sort")),
	}
	if status, err := workflow.ParseStatus(c.Query("status")); err == nil {
		q.Status = status
	}
	return q
}

func (h *Handler) financeBoard(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	board, err := h.items.FinanceBoard(c.Request.Context(), actor, financeQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) launchedList(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	list, err := h.items.LaunchedList(c.Request.Context(), actor, launchedQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// streamFinance pushes a freshly projected board after every change. The
// caller's capabilities are resolved again each time so a revocation takes
// effect on the open stream.
func (h *Handler) streamFinance(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	q := financeQuery(c)
	changes := h.bus.Subscribe(ctx)
	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	push := func() bool {
		current, err := h.permissions.Resolve(ctx, actor.Principal)
		if errors.Is(err, service.ErrNoAccess) {
			c.SSEvent("sign_out", gin.H{"error": err.Error()})
			return false
		}
		if err != nil {
			h.log.Warn().Err(err).Msg("finance stream: resolve permissions failed")
			c.SSEvent("error", gin.H{"error": "internal error"})
			return false
		}
		board, err := h.items.FinanceBoard(ctx, current, q)
		if err != nil {
			c.SSEvent("error", gin.H{"error": err.Error()})
			return false
		}
		c.SSEvent("board", board)
		return true
	}

	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			return push()
		}
		select {
		case <-ctx.Done():
			return false
		case _, open := <-changes:
			if !open {
				return false
			}
			return push()
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

func (h *Handler) exportLaunched(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	result, err := h.export.LaunchedSpreadsheet(c.Request.Context(), actor, launchedQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) exportFinance(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	result, err := h.export.FinanceStatement(c.Request.Context(), actor, financeQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
