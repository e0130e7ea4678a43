package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// ExpensesHandler is the CRUD surface for fixed monthly expenses. Every
// mutation lands on the change feed so the recompute listener can react.
type ExpensesHandler struct {
	Repo repository.Repository
	Hub  *watch.Hub
}

func (h *ExpensesHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/expenses")
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

type expenseRequest struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

func (h *ExpensesHandler) list(c *gin.Context) {
	tenantID := auth.TenantID(c)
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	items, err := h.Repo.ListFixedExpenses(c.Request.Context(), repository.ListRecordsParams{
		TenantID: tenantID,
		Active:   boolQueryPtr(c, "active"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, listMeta(limit, offset, len(items)))
}

func (h *ExpensesHandler) get(c *gin.Context) {
	item, err := h.Repo.GetFixedExpense(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "expense not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *ExpensesHandler) create(c *gin.Context) {
	tenantID := auth.TenantID(c)
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	item := &models.FixedExpense{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     name,
		Value:    req.Value,
		Active:   true,
	}
	if err := h.Repo.CreateFixedExpense(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, item.ID)
	Ok(c, item, nil)
}

func (h *ExpensesHandler) update(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	existing, err := h.Repo.GetFixedExpense(c.Request.Context(), tenantID, id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "expense not found", nil)
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	existing.Value = req.Value
	if err := h.Repo.UpdateFixedExpense(c.Request.Context(), existing); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, id)
	Ok(c, existing, nil)
}

func (h *ExpensesHandler) remove(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	if err := h.Repo.SetFixedExpenseActive(c.Request.Context(), tenantID, id, false); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, id)
	Ok(c, gin.H{"id": id, "active": false}, nil)
}

func (h *ExpensesHandler) publish(tenantID, id string) {
	if h.Hub != nil {
		h.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindFixedExpense, RecordID: id})
	}
}
