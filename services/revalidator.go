package services

import (
	"encoding/json"
	"log/slog"

	"budget-server/cache"
	"budget-server/metrics"
	"budget-server/ws"
)

// Revalidator drops a household's cached views after a write and tells its
// open browser sessions to refetch.
type Revalidator struct {
	views   *cache.ViewCache
	hub     *ws.Manager
	metrics *metrics.Metrics
}

func NewRevalidator(views *cache.ViewCache, hub *ws.Manager, m *metrics.Metrics) *Revalidator {
	return &Revalidator{views: views, hub: hub, metrics: m}
}

type revalidateMessage struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Revalidate invalidates path for householdID.
func (r *Revalidator) Revalidate(householdID, path string) {
	dropped := 0
	if r.views != nil {
		dropped = r.views.Invalidate(householdID)
	}
	r.metrics.Revalidated(path)

	sent := 0
	if r.hub != nil {
		b, _ := json.Marshal(revalidateMessage{Type: "revalidate", Path: path})
		sent = r.hub.Broadcast(householdID, b)
	}
	slog.Debug("revalidated", "household_id", householdID, "path", path, "views_dropped", dropped, "clients", sent)
}
