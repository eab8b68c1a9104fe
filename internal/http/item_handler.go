package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shipstore/lma-finance/internal/service"
	"github.com/shipstore/lma-finance/internal/workflow"
)

func (h *Handler) listFDAs(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	fdas, err := h.fdas.List(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fdas})
}

func (h *Handler) createFDA(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	fda, err := h.fdas.Create(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fda)
}

type renameFDARequest struct {
	Number string `json:"number" binding:"required"`
}

func (h *Handler) renameFDA(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req renameFDARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fda, err := h.fdas.Rename(c.Request.Context(), actor, id, req.Number)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fda)
}

func (h *Handler) toggleFDA(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	fda, err := h.fdas.Toggle(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fda)
}

func (h *Handler) createItem(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	fdaID, ok := parseID(c)
	if !ok {
		return
	}
	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.items.Create(c.Request.Context(), actor, fdaID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) getItem(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.items.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) updateItem(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.items.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteItem(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type transitionRequest struct {
	Direction string `json:"direction" binding:"required"`
}

func (h *Handler) transitionItem(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	direction, err := workflow.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction"})
		return
	}

	item, result, err := h.items.Transition(c.Request.Context(), actor, id, direction)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":       item,
		"from":       result.From,
		"to":         result.To,
		"stamped_on": result.StampedOn,
	})
}

func (h *Handler) suggestions(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	suggestions, err := h.items.Suggestions(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) autofill(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	details, err := h.items.Autofill(c.Request.Context(), actor, c.Query("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
