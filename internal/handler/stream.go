package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// StreamHandler pushes a tenant's change events over a websocket. Clients use
// it to refresh edit views when another session or a background job touches
// the data. The token rides a query param because browsers cannot set headers
// on websocket upgrades.
type StreamHandler struct {
	Hub    *watch.Hub
	JWT    auth.JWT
	Logger *zap.Logger

	// Buffer is the per-subscriber channel size; events beyond it drop.
	Buffer int
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/stream", h.stream)
}

func (h *StreamHandler) stream(c *gin.Context) {
	token := c.Query("token")
	claims, err := h.JWT.Verify(token)
	if err != nil {
		Error(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	buf := h.Buffer
	if buf <= 0 {
		buf = 16
	}
	events, cancel := h.Hub.Subscribe(claims.TenantID, buf)
	defer cancel()

	ctx := c.Request.Context()

	// Reads are discarded; the read loop only notices disconnects.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				cancel()
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutdown")
			return
		case <-ping.C:
			pingCtx, done := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pingCtx)
			done()
			if err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "subscription closed")
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			writeCtx, done := context.WithTimeout(ctx, 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, payload)
			done()
			if err != nil {
				return
			}
		}
	}
}
