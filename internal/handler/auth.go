package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
)

// AuthHandler exchanges an API key for a short-lived bearer token.
type AuthHandler struct {
	Repo repository.Repository
	JWT  auth.JWT
}

func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/auth/login", h.login)
}

type loginRequest struct {
	APIKey string `json:"apiKey"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	TenantID  string `json:"tenantId"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		Error(c, http.StatusBadRequest, "apiKey is required", nil)
		return
	}
	record, err := h.Repo.GetAPIKey(c.Request.Context(), key)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if record == nil || !record.Active {
		Error(c, http.StatusUnauthorized, "invalid api key", nil)
		return
	}
	token, expiresAt, err := h.JWT.Sign(auth.Claims{TenantID: record.TenantID, Role: record.Role})
	if err != nil {
		Error(c, http.StatusInternalServerError, "token issue failed", nil)
		return
	}
	Ok(c, loginResponse{Token: token, ExpiresAt: expiresAt.Unix(), TenantID: record.TenantID}, nil)
}
