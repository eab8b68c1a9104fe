package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shipstore/lma-finance/internal/events"
	"github.com/shipstore/lma-finance/internal/http/middleware"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/service"
	"github.com/shipstore/lma-finance/internal/tax"
	"github.com/shipstore/lma-finance/internal/view"
)

type Services struct {
	Items       *service.ItemService
	FDAs        *service.FDAService
	Permissions *service.PermissionService
	Audit       *service.AuditService
	Attachments *service.AttachmentService
	Export      *service.ExportService
}

type Handler struct {
	items       *service.ItemService
	fdas        *service.FDAService
	permissions *service.PermissionService
	audit       *service.AuditService
	attachments *service.AttachmentService
	export      *service.ExportService
	bus         events.Bus
	log         zerolog.Logger
}

func NewHandler(services Services, bus events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		items:       services.Items,
		fdas:        services.FDAs,
		permissions: services.Permissions,
		audit:       services.Audit,
		attachments: services.Attachments,
		export:      services.Export,
		bus:         bus,
		log:         log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/me/permissions", h.myPermissions)

	entry := protected.Group("/")
	entry.Use(middleware.Require(permission.Entry))
	entry.POST("/tax/preview", h.previewTaxes)
	entry.GET("/fdas", h.listFDAs)
	entry.POST("/fdas", h.createFDA)
	entry.PATCH("/fdas/:id", h.renameFDA)
	entry.POST("/fdas/:id/toggle", h.toggleFDA)
	entry.POST("/fdas/:id/items", h.createItem)
	entry.GET("/items/:id", h.getItem)
	entry.PUT("/items/:id", h.updateItem)
	entry.GET("/items/:id/attachments", h.itemAttachments)
	entry.GET("/counterparties", h.suggestions)
	entry.GET("/counterparties/autofill", h.autofill)
	entry.POST("/files", h.uploadFile)
	entry.GET("/files/:id", h.downloadFile)

	// delete is checked in the service: launched module or master
	protected.DELETE("/items/:id", h.deleteItem)

	launched := protected.Group("/launched")
	launched.Use(middleware.Require(permission.Launched))
	launched.GET("", h.launchedList)
	launched.GET("/export", h.exportLaunched)

	finance := protected.Group("/")
	finance.Use(middleware.Require(permission.Finance))
	finance.GET("/finance", h.financeBoard)
	finance.GET("/finance/stream", h.streamFinance)
	finance.GET("/finance/export/pdf", h.exportFinance)
	finance.POST("/items/:id/transition", h.transitionItem)

	protected.GET("/logs", middleware.Require(permission.Logs), h.listLogs)

	users := protected.Group("/users")
	users.Use(middleware.RequireMaster())
	users.GET("", h.listUsers)
	users.POST("", h.addUser)
	users.PUT("/:email/capabilities", h.updateCapabilities)
}

type permissionsResponse struct {
	Email        string             `json:"email"`
	Master       bool               `json:"master"`
	Capabilities []string           `json:"capabilities"`
	FinanceTabs  []view.FinanceTab  `json:"finance_tabs"`
	LaunchedTabs []view.LaunchedTab `json:"launched_tabs"`
}

func (h *Handler) myPermissions(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	resp := permissionsResponse{
		Email:        actor.Principal.Email,
		Master:       actor.Master,
		Capabilities: actor.Caps.Strings(),
		FinanceTabs:  []view.FinanceTab{},
		LaunchedTabs: view.VisibleLaunchedTabs(actor.Caps),
	}
	for _, stage := range view.VisibleFinanceTabs(actor.Caps) {
		resp.FinanceTabs = append(resp.FinanceTabs, view.FinanceTab{Status: stage.Status, Label: stage.TabLabel})
	}
	if resp.LaunchedTabs == nil {
		resp.LaunchedTabs = []view.LaunchedTab{}
	}
	c.JSON(http.StatusOK, resp)
}

type taxPreviewRequest struct {
	Gross    tax.Amount `json:"gross_amount"`
	Penalty  tax.Amount `json:"penalty"`
	Interest tax.Amount `json:"interest"`
	INSS     tax.Amount `json:"inss"`
	ISS      tax.Amount `json:"iss"`
}

// previewTaxes accepts amounts as typed by the user, including "1.234,56".
func (h *Handler) previewTaxes(c *gin.Context) {
	var req taxPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tax.Recompute(tax.Input{
		Gross:    req.Gross.Decimal,
		Penalty:  req.Penalty.Decimal,
		Interest: req.Interest.Decimal,
		INSS:     req.INSS.Decimal,
		ISS:      req.ISS.Decimal,
	}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoAccess):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "sign_out": true})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSaveFailed):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func mustActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return service.Actor{}, false
	}
	return actor, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
