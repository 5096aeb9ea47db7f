package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"budget-server/cache"
	"budget-server/metrics"
	"budget-server/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct{ payloads [][]byte }

func (r *recordingConn) WriteMessage(_ int, data []byte) error {
	r.payloads = append(r.payloads, data)
	return nil
}
func (r *recordingConn) SetWriteDeadline(time.Time) error { return nil }
func (r *recordingConn) Close() error                     { return nil }

func TestRevalidateDropsViewsAndNotifies(t *testing.T) {
	views := cache.NewViewCache(0)
	views.Set("h1", "envelopes", []string{"x"})
	views.Set("h2", "envelopes", []string{"y"})
	hub := ws.NewManager()
	conn := &recordingConn{}
	hub.Register("h1", "u1", conn)

	NewRevalidator(views, hub, metrics.New()).Revalidate("h1", "/")

	_, ok := views.Get("h1", "envelopes")
	assert.False(t, ok)
	_, ok = views.Get("h2", "envelopes")
	assert.True(t, ok)

	require.Len(t, conn.payloads, 1)
	var msg map[string]string
	require.NoError(t, json.Unmarshal(conn.payloads[0], &msg))
	assert.Equal(t, map[string]string{"type": "revalidate", "path": "/"}, msg)
}

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestRunOnce(t *testing.T) {
	s := &countingSweeper{}
	assert.Equal(t, int64(3), NewSubscriptionSweeper(s, time.Minute).RunOnce(context.Background()))

	s.err = errors.New("db down")
	assert.Equal(t, int64(0), NewSubscriptionSweeper(s, time.Minute).RunOnce(context.Background()))
}

func TestStartStopsWithContext(t *testing.T) {
	s := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	NewSubscriptionSweeper(s, 5*time.Millisecond).Start(ctx)

	assert.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
