package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"budget-server/entities"
	"budget-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HouseholdResolver returns the caller's household.
type HouseholdResolver interface {
	Current(ctx context.Context) (*entities.Household, error)
}

// WSHandler serves the revalidation channel. Clients receive
// {"type":"revalidate","path":"/"} whenever their household's data changes.
type WSHandler struct {
	mgr        *ws.Manager
	households HouseholdResolver
	upgrader   websocket.Upgrader
}

func NewWSHandler(mgr *ws.Manager, households HouseholdResolver, allowedOrigins []string) *WSHandler {
	h := &WSHandler{mgr: mgr, households: households}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// HandleRevalidation upgrades to websocket and holds the connection until the
// client leaves.
// GET /ws?token=<access token>
func (h *WSHandler) HandleRevalidation(c *gin.Context) {
	household, err := h.households.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	userID := c.GetString("user_id")
	client := h.mgr.Register(household.ID, userID, conn)
	slog.Info("revalidation client connected", "household_id", household.ID, "user_id", userID)

	defer func() {
		h.mgr.Unregister(household.ID, client)
		slog.Info("revalidation client disconnected", "household_id", household.ID, "user_id", userID)
	}()

	// Clients only listen; reading keeps control frames flowing and detects
	// the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "household_id", household.ID, "error", err)
			}
			return
		}
	}
}
