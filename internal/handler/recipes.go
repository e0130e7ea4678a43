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
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
)

type RecipesHandler struct {
	Repo      repository.Repository
	Scenarios *service.ScenarioService
}

func (h *RecipesHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/recipes")
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
	r.GET("/:id/quote", h.quote)
}

type recipeRequest struct {
	Name            string          `json:"name"`
	IngredientsCost decimal.Decimal `json:"ingredientsCost"`
	PackagingCost   decimal.Decimal `json:"packagingCost"`
	LaborCost       decimal.Decimal `json:"laborCost"`
	SubRecipesCost  decimal.Decimal `json:"subRecipesCost"`
	YieldQuantity   float64         `json:"yieldQuantity"`
	ScenarioID      string          `json:"scenarioId"`
}

func (h *RecipesHandler) list(c *gin.Context) {
	tenantID := auth.TenantID(c)
	limit := intQuery(c, "limit", 200)
	offset := intQuery(c, "offset", 0)
	items, err := h.Repo.ListRecipes(c.Request.Context(), repository.ListRecordsParams{
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

func (h *RecipesHandler) get(c *gin.Context) {
	item, err := h.Repo.GetRecipe(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "recipe not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *RecipesHandler) create(c *gin.Context) {
	tenantID := auth.TenantID(c)
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		Error(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	item := &models.Recipe{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		Name:            name,
		IngredientsCost: req.IngredientsCost,
		PackagingCost:   req.PackagingCost,
		LaborCost:       req.LaborCost,
		SubRecipesCost:  req.SubRecipesCost,
		YieldQuantity:   req.YieldQuantity,
		ScenarioID:      strings.TrimSpace(req.ScenarioID),
		Active:          true,
	}
	if err := h.Repo.CreateRecipe(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *RecipesHandler) update(c *gin.Context) {
	tenantID := auth.TenantID(c)
	id := pathID(c, "id")
	existing, err := h.Repo.GetRecipe(c.Request.Context(), tenantID, id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "recipe not found", nil)
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	existing.IngredientsCost = req.IngredientsCost
	existing.PackagingCost = req.PackagingCost
	existing.LaborCost = req.LaborCost
	existing.SubRecipesCost = req.SubRecipesCost
	existing.YieldQuantity = req.YieldQuantity
	existing.ScenarioID = strings.TrimSpace(req.ScenarioID)
	if err := h.Repo.UpdateRecipe(c.Request.Context(), existing); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, existing, nil)
}

func (h *RecipesHandler) remove(c *gin.Context) {
	id := pathID(c, "id")
	if err := h.Repo.SetRecipeActive(c.Request.Context(), auth.TenantID(c), id, false); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"id": id, "active": false}, nil)
}

// quote prices the recipe under its own scenario.
func (h *RecipesHandler) quote(c *gin.Context) {
	recipe, quote, err := h.Scenarios.SimulateRecipe(c.Request.Context(), auth.TenantID(c), pathID(c, "id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"recipe": recipe, "quote": quote}, nil)
}
