package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	"github.com/payswift/payswift_backend/internal/platform/events"
)

// streamableKeys are the storage keys views may watch for changes.
var streamableKeys = map[string]bool{
	portsrepo.KeyTransactions: true,
	portsrepo.KeyCreditScore:  true,
	portsrepo.KeyUserBalance:  true,
	portsrepo.KeyUser:         true,
}

// eventsHandler streams ledger change notifications to open views.
type eventsHandler struct {
	broker *events.Broker
}

func newEventsHandler(broker *events.Broker) *eventsHandler {
	return &eventsHandler{broker: broker}
}

// registerEventsRoutes registers the change-notification stream.
func registerEventsRoutes(rg *gin.RouterGroup, broker *events.Broker) {
	h := newEventsHandler(broker)
	rg.GET("/events", h.stream)
}

// stream sends server-sent events for every change to the watched key until
// the client disconnects.
func (h *eventsHandler) stream(c *gin.Context) {
	key := c.DefaultQuery("key", portsrepo.KeyTransactions)
	if !streamableKeys[key] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown key: " + key})
		return
	}

	ch, cancel := h.broker.Subscribe(key, 8)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", gin.H{"key": change.Key, "value": json.RawMessage(change.Value)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
