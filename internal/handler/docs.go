package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Pricing Service

Multi-tenant markup and pricing backend for small food businesses.

## Auth

POST /api/v1/auth/login with {"apiKey": "..."} returns a Bearer token.
All /api/v1/* routes (except login) require it. Health endpoints are public.

## Routes

- GET  /healthz
- GET  /readyz
- POST /api/v1/auth/login
- GET  /api/v1/expenses
- POST /api/v1/expenses
- PUT  /api/v1/expenses/:id
- DELETE /api/v1/expenses/:id
- GET  /api/v1/payroll
- GET  /api/v1/charges
- GET  /api/v1/revenue
- POST /api/v1/revenue
- GET  /api/v1/revenue/average
- PUT  /api/v1/revenue/period
- GET  /api/v1/scenarios
- POST /api/v1/scenarios
- POST /api/v1/scenarios/:id/recompute
- PUT  /api/v1/scenarios/:id/selection
- POST /api/v1/scenarios/:id/simulate
- GET  /api/v1/recipes
- GET  /api/v1/recipes/:id/quote
- GET  /api/v1/billing/status
- GET  /api/v1/billing/checkout
- POST /webhooks/billing
- GET  /api/v1/settings/switches
- GET  /api/v1/stream (websocket, token via ?token=)

## Change feed

Mutations to expenses, payroll, charges, revenue and selections publish
events on /api/v1/stream and trigger a debounced scenario recompute.
`)
	})
}
