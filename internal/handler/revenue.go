package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/engine"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

type RevenueHandler struct {
	Revenue *service.RevenueService
	Hub     *watch.Hub
}

func (h *RevenueHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/revenue")
	r.GET("", h.list)
	r.POST("", h.add)
	r.GET("/average", h.average)
	r.GET("/period", h.getPeriod)
	r.PUT("/period", h.putPeriod)
}

type addRevenueRequest struct {
	// Month accepts any day inside the month; it is truncated on save.
	Month  time.Time       `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *RevenueHandler) list(c *gin.Context) {
	tenantID := auth.TenantID(c)
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	items, err := h.Revenue.List(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, listMeta(limit, offset, len(items)))
}

func (h *RevenueHandler) add(c *gin.Context) {
	tenantID := auth.TenantID(c)
	var req addRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if req.Month.IsZero() {
		Error(c, http.StatusBadRequest, "month is required", nil)
		return
	}
	item, err := h.Revenue.Add(c.Request.Context(), tenantID, req.Month, req.Amount)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		h.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindRevenue})
	}
	Ok(c, item, nil)
}

func (h *RevenueHandler) average(c *gin.Context) {
	tenantID := auth.TenantID(c)
	avg, err := h.Revenue.TrailingAverage(c.Request.Context(), tenantID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	period, err := h.Revenue.GetPeriod(c.Request.Context(), tenantID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"average": avg, "period": period}, nil)
}

func (h *RevenueHandler) getPeriod(c *gin.Context) {
	period, err := h.Revenue.GetPeriod(c.Request.Context(), auth.TenantID(c))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, period, nil)
}

func (h *RevenueHandler) putPeriod(c *gin.Context) {
	tenantID := auth.TenantID(c)
	var period engine.Period
	if err := c.ShouldBindJSON(&period); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	switch period.Kind {
	case engine.PeriodLastNMonths, engine.PeriodAll, engine.PeriodCustomRange:
	default:
		Error(c, http.StatusBadRequest, "unknown period kind", nil)
		return
	}
	if err := h.Revenue.SetPeriod(c.Request.Context(), tenantID, period); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		h.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindRevenue})
	}
	Ok(c, period, nil)
}
