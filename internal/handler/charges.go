package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/engine"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// ChargesHandler manages per-sale charges. Responses carry the category the
// aggregation engine derives from the charge name, so clients can group
// taxes, payment fees and commissions without duplicating the mapping.
type ChargesHandler struct {
	Repo repository.Repository
	Hub  *watch.Hub
}

func (h *ChargesHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/charges")
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

type chargeRequest struct {
	Name            string          `json:"name"`
	ValuePercentual float64         `json:"valuePercentual"`
	ValueFixed      decimal.Decimal `json:"valueFixed"`
}

type chargeResponse struct {
	models.SalesCharge
	Category string `json:"category"`
}

func withCategory(item models.SalesCharge) chargeResponse {
	return chargeResponse{SalesCharge: item, Category: engine.Classify(item.Name).String()}
}

func (h *ChargesHandler) list(c *gin.Context) {
	tenantID := auth.TenantID(c)
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	items, err := h.Repo.ListSalesCharges(c.Request.Context(), repository.ListRecordsParams{
		TenantID: tenantID,
		Active:   boolQueryPtr(c, "active"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]chargeResponse, 0, len(items))
	for _, item := range items {
		out = append(out, withCategory(item))
	}
	Ok(c, out, listMeta(limit, offset, len(out)))
}

func (h *ChargesHandler) get(c *gin.Context) {
	item, err := h.Repo.GetSalesCharge(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "charge not found", nil)
		return
	}
	Ok(c, withCategory(*item), nil)
}

func (h *ChargesHandler) create(c *gin.Context) {
	tenantID := auth.TenantID(c)
	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	item := &models.SalesCharge{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		Name:            name,
		ValuePercentual: req.ValuePercentual,
		ValueFixed:      req.ValueFixed,
		Active:          true,
	}
	if err := h.Repo.CreateSalesCharge(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, item.ID)
	Ok(c, withCategory(*item), nil)
}

func (h *ChargesHandler) update(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	existing, err := h.Repo.GetSalesCharge(c.Request.Context(), tenantID, id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "charge not found", nil)
		return
	}
	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	existing.ValuePercentual = req.ValuePercentual
	existing.ValueFixed = req.ValueFixed
	if err := h.Repo.UpdateSalesCharge(c.Request.Context(), existing); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, id)
	Ok(c, withCategory(*existing), nil)
}

func (h *ChargesHandler) remove(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	if err := h.Repo.SetSalesChargeActive(c.Request.Context(), tenantID, id, false); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(tenantID, id)
	Ok(c, gin.H{"id": id, "active": false}, nil)
}

func (h *ChargesHandler) publish(tenantID, id string) {
	if h.Hub != nil {
		h.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindSalesCharge, RecordID: id})
	}
}
