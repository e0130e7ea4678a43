package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
)

// SettingsHandler is the admin surface for the background-job feature
// switches. It sits behind the same auth middleware as the tenant API.
type SettingsHandler struct {
	Repo     repository.Repository
	Settings *service.SystemSettingsService
}

func (h *SettingsHandler) Register(g *gin.RouterGroup) {
	r := g.Group("/settings")
	r.GET("/switches", h.listSwitches)
	r.GET("/switches/:name", h.getSwitch)
	r.PUT("/switches/:name", h.putSwitch)
}

func (h *SettingsHandler) listSwitches(c *gin.Context) {
	prefix := service.FeatureSwitchPrefix
	items, err := h.Repo.ListSystemSettings(c.Request.Context(), repository.ListSystemSettingsParams{
		Prefix:  &prefix,
		OrderBy: "key",
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := map[string]bool{}
	for _, item := range items {
		out[strings.TrimPrefix(item.Key, service.FeatureSwitchPrefix)] = string(item.Value) == "true"
	}
	Ok(c, out, nil)
}

func (h *SettingsHandler) getSwitch(c *gin.Context) {
	name := pathID(c, "name")
	enabled := h.Settings.IsEnabled(c.Request.Context(), service.FeatureSwitchPrefix+name, true)
	Ok(c, gin.H{"name": name, "enabled": enabled}, nil)
}

func (h *SettingsHandler) putSwitch(c *gin.Context) {
	name := pathID(c, "name")
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		// Also accept ?enabled=true for curl convenience.
		if v, perr := strconv.ParseBool(c.Query("enabled")); perr == nil {
			body.Enabled = &v
		} else {
			Error(c, http.StatusBadRequest, "enabled flag required", nil)
			return
		}
	}
	if err := h.Settings.SetEnabled(c.Request.Context(), service.FeatureSwitchPrefix+name, *body.Enabled); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"name": name, "enabled": *body.Enabled}, nil)
}
