package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shipstore/lma-finance/internal/view"
)

func (h *Handler) listLogs(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	list, err := h.audit.List(c.Request.Context(), actor, view.LogQuery{
		Search: c.Query("search"),
		Action: c.Query("action"),
		Sort:   view.LogSortKey(c.Query("sort")),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) listUsers(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	records, err := h.permissions.ListUsers(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

type addUserRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) addUser(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.permissions.AddUser(c.Request.Context(), actor, req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

type updateCapabilitiesRequest struct {
	Grant  []string `json:"grant"`
	Revoke []string `json:"revoke"`
}

func (h *Handler) updateCapabilities(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req updateCapabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caps, err := h.permissions.UpdateCapabilities(c.Request.Context(), actor, c.Param("email"), req.Grant, req.Revoke)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": c.Param("email"), "capabilities": caps.Strings()})
}

func (h *Handler) uploadFile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}

	attachment, err := h.attachments.Upload(c.Request.Context(), actor, header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func (h *Handler) downloadFile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	file, err := h.attachments.Download(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+file.Name+"\"")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *Handler) itemAttachments(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	resolved, err := h.attachments.Resolve(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resolved})
}
