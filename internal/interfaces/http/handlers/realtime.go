// internal/interfaces/http/handlers/realtime.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
)

// RealtimeHandler streams change events to clients over SSE
type RealtimeHandler struct {
	feed *events.Feed
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(feed *events.Feed) *RealtimeHandler {
	return &RealtimeHandler{feed: feed}
}

// Stream delivers the user's change events as server-sent events. Each
// event only identifies the changed row; clients refetch the table.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	changes := h.feed.Subscribe(ctx, userID,
		events.TableCartItems, events.TableOrders, events.TableFavorites)

	fmt.Fprint(c.Writer, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-changes:
			if !ok {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}

			fmt.Fprintf(c.Writer, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
