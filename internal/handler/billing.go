package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
)

// BillingHandler exposes the tenant's subscription state plus the unauthenticated
// provider webhook. The webhook is verified with an HMAC signature header
// instead of a bearer token.
type BillingHandler struct {
	Billing       *service.BillingService
	WebhookSecret string
}

func (h *BillingHandler) Register(r *gin.Engine, g *gin.RouterGroup) {
	r.POST("/webhooks/billing", h.webhook)
	b := g.Group("/billing")
	b.GET("/status", h.status)
	b.GET("/checkout", h.checkout)
}

func (h *BillingHandler) status(c *gin.Context) {
	status, err := h.Billing.Status(c.Request.Context(), auth.TenantID(c))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, status, nil)
}

func (h *BillingHandler) checkout(c *gin.Context) {
	link := h.Billing.CheckoutLink(auth.TenantID(c))
	if link == "" {
		Error(c, http.StatusServiceUnavailable, "checkout not configured", nil)
		return
	}
	Ok(c, gin.H{"url": link}, nil)
}

func (h *BillingHandler) webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		Error(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}
	if h.WebhookSecret != "" && !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
		Error(c, http.StatusUnauthorized, "bad signature", nil)
		return
	}
	var payload service.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Billing.HandleWebhook(c.Request.Context(), payload); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"received": true}, nil)
}

func (h *BillingHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.WebhookSecret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return signature != "" && hmac.Equal([]byte(want), []byte(signature))
}
