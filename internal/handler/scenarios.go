package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/engine"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// ScenariosHandler exposes the markup scenario registry, selection maps and
// the pricing simulator.
type ScenariosHandler struct {
	Scenarios *service.ScenarioService
	Selection *service.SelectionService
	Hub       *watch.Hub
}

func (h *ScenariosHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/scenarios")
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
	r.POST("/:id/recompute", h.recompute)
	r.GET("/:id/selection", h.getSelection)
	r.PUT("/:id/selection", h.putSelection)
	r.POST("/:id/simulate", h.simulate)
}

func scenarioError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScenarioNotFound):
		Error(c, http.StatusNotFound, "scenario not found", nil)
	case errors.Is(err, service.ErrScenarioReadOnly):
		Error(c, http.StatusConflict, "scenario is read-only", nil)
	default:
		Error(c, http.StatusBadGateway, err.Error(), nil)
	}
}

func (h *ScenariosHandler) list(c *gin.Context) {
	items, err := h.Scenarios.List(c.Request.Context(), auth.TenantID(c))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *ScenariosHandler) get(c *gin.Context) {
	item, err := h.Scenarios.Get(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		scenarioError(c, err)
		return
	}
	Ok(c, item, nil)
}

type createScenarioRequest struct {
	Name             string  `json:"name"`
	DesiredProfitPct float64 `json:"desiredProfitPct"`
}

func (h *ScenariosHandler) create(c *gin.Context) {
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Scenarios.Create(c.Request.Context(), auth.TenantID(c), req.Name, req.DesiredProfitPct)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

type updateScenarioRequest struct {
	Name             *string  `json:"name"`
	DesiredProfitPct *float64 `json:"desiredProfitPct"`
}

func (h *ScenariosHandler) update(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	var req updateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if req.Name != nil {
		if _, err := h.Scenarios.Rename(c.Request.Context(), tenantID, id, *req.Name); err != nil {
			scenarioError(c, err)
			return
		}
	}
	if req.DesiredProfitPct != nil {
		if _, err := h.Scenarios.SetDesiredProfit(c.Request.Context(), tenantID, id, *req.DesiredProfitPct); err != nil {
			scenarioError(c, err)
			return
		}
	}
	item, err := h.Scenarios.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		scenarioError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *ScenariosHandler) remove(c *gin.Context) {
	if err := h.Scenarios.Delete(c.Request.Context(), auth.TenantID(c), pathID(c, "id")); err != nil {
		scenarioError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

func (h *ScenariosHandler) recompute(c *gin.Context) {
	item, err := h.Scenarios.Recompute(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		scenarioError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *ScenariosHandler) getSelection(c *gin.Context) {
	state, err := h.Selection.Load(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, state, nil)
}

type putSelectionRequest struct {
	// State maps record ids to included/excluded. Universe lists every id
	// the client had loaded; saved entries outside it are carried forward.
	State    map[string]bool `json:"state"`
	Universe []string        `json:"universe"`
}

func (h *ScenariosHandler) putSelection(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	var req putSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Selection.Save(c.Request.Context(), tenantID, id, req.State, req.Universe); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		h.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindSelection, RecordID: id})
	}
	item, err := h.Scenarios.Recompute(c.Request.Context(), tenantID, id)
	if err != nil {
		scenarioError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *ScenariosHandler) simulate(c *gin.Context) {
	var cost engine.CostBreakdown
	if err := c.ShouldBindJSON(&cost); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	quote, err := h.Scenarios.Simulate(c.Request.Context(), auth.TenantID(c), pathID(c, "id"), cost)
	if err != nil {
		scenarioError(c, err)
		return
	}
	Ok(c, quote, nil)
}
