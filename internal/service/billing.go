package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/configstore"
)

// BillingStatus is the per-tenant subscription state mirrored from the
// payment provider's webhooks.
type BillingStatus struct {
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WebhookPayload is the slice of the provider's event we act on.
type WebhookPayload struct {
	Event    string `json:"event"`
	TenantID string `json:"tenantId"`
	Plan     string `json:"plan"`
	Status   string `json:"status"`
}

type BillingService struct {
	Store  *configstore.Store
	Logger *zap.Logger

	CheckoutURL    string
	CheckoutPlanID string
}

func (s *BillingService) Status(ctx context.Context, tenantID string) (*BillingStatus, error) {
	var status BillingStatus
	found, err := s.Store.GetJSON(ctx, tenantID, ConfigTypeBillingStatus, &status)
	if err != nil {
		return nil, err
	}
	if !found {
		return &BillingStatus{Status: "free"}, nil
	}
	return &status, nil
}

// HandleWebhook mirrors a provider event into the tenant's billing blob.
// Unknown event names are accepted and ignored so provider-side additions
// never turn into retry storms.
func (s *BillingService) HandleWebhook(ctx context.Context, payload WebhookPayload) error {
	if payload.TenantID == "" {
		return fmt.Errorf("webhook event %q has no tenant", payload.Event)
	}
	switch payload.Event {
	case "subscription.created", "subscription.updated", "subscription.renewed":
		return s.Store.PutJSON(ctx, payload.TenantID, ConfigTypeBillingStatus, BillingStatus{
			Plan:      payload.Plan,
			Status:    nonEmpty(payload.Status, "active"),
			UpdatedAt: time.Now().UTC(),
		})
	case "subscription.canceled", "subscription.expired":
		return s.Store.PutJSON(ctx, payload.TenantID, ConfigTypeBillingStatus, BillingStatus{
			Plan:      payload.Plan,
			Status:    "canceled",
			UpdatedAt: time.Now().UTC(),
		})
	default:
		if s.Logger != nil {
			s.Logger.Info("ignoring billing event", zap.String("event", payload.Event))
		}
		return nil
	}
}

// CheckoutLink builds the provider's checkout URL with the tenant carried as
// an external reference, so the webhook can map the purchase back.
func (s *BillingService) CheckoutLink(tenantID string) string {
	if s.CheckoutURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(s.CheckoutURL, "?") {
		sep = "&"
	}
	link := s.CheckoutURL + sep + "ref=" + url.QueryEscape(tenantID)
	if s.CheckoutPlanID != "" {
		link += "&plan=" + url.QueryEscape(s.CheckoutPlanID)
	}
	return link
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
