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

type PayrollHandler struct {
	Repo repository.Repository
	Hub  *watch.Hub
}

func (h *PayrollHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/payroll")
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

type payrollRequest struct {
	Name         string          `json:"name"`
	CostPerHour  decimal.Decimal `json:"costPerHour"`
	MonthlyHours decimal.Decimal `json:"monthlyHours"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
}

func (h *PayrollHandler) list(c *gin.Context) {
	tenantID := auth.TenantID(c)
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	items, err := h.Repo.ListPayrollEntries(c.Request.Context(), repository.ListRecordsParams{
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

func (h *PayrollHandler) get(c *gin.Context) {
	item, err := h.Repo.GetPayrollEntry(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "payroll entry not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *PayrollHandler) create(c *gin.Context) {
	tenantID := auth.TenantID(c)
	var req payrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	item := &models.PayrollEntry{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Name:         name,
		CostPerHour:  req.CostPerHour,
		MonthlyHours: req.MonthlyHours,
		BaseSalary:   req.BaseSalary,
		Active:       true,
	}
	if err := h.Repo.CreatePayrollEntry(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, item.ID)
	Ok(c, item, nil)
}

func (h *PayrollHandler) update(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	existing, err := h.Repo.GetPayrollEntry(c.Request.Context(), tenantID, id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "payroll entry not found", nil)
		return
	}
	var req payrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	existing.CostPerHour = req.CostPerHour
	existing.MonthlyHours = req.MonthlyHours
	existing.BaseSalary = req.BaseSalary
	if err := h.Repo.UpdatePayrollEntry(c.Request.Context(), existing); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, id)
	Ok(c, existing, nil)
}

func (h *PayrollHandler) remove(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	if err := h.Repo.SetPayrollEntryActive(c.Request.Context(), tenantID, id, false); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, id)
	Ok(c, gin.H{"id": id, "active": false}, nil)
}

func (h *PayrollHandler) publish(tenantID, id string) {
	if h.Hub != nil {
		h.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindPayrollEntry, RecordID: id})
	}
}
