package ws

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	failing bool
	closed  bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestBroadcastReachesOnlyHousehold(t *testing.T) {
	m := NewManager()
	a, b, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	m.Register("h1", "u1", a)
	m.Register("h1", "u2", b)
	m.Register("h2", "u3", other)

	assert.Equal(t, 2, m.Broadcast("h1", []byte("ping")))
	assert.Len(t, a.written, 1)
	assert.Len(t, b.written, 1)
	assert.Empty(t, other.written)
}

func TestBroadcastDropsBrokenClients(t *testing.T) {
	m := NewManager()
	good, bad := &fakeConn{}, &fakeConn{failing: true}
	m.Register("h1", "u1", good)
	m.Register("h1", "u2", bad)

	assert.Equal(t, 1, m.Broadcast("h1", []byte("x")))
	assert.True(t, bad.closed)
	assert.Equal(t, 1, m.Count("h1"))
}

func TestUnregister(t *testing.T) {
	m := NewManager()
	conn := &fakeConn{}
	c := m.Register("h1", "u1", conn)
	m.Unregister("h1", c)

	assert.True(t, conn.closed)
	assert.Equal(t, 0, m.Count("h1"))
	assert.Equal(t, 0, m.Broadcast("h1", []byte("x")))
}
