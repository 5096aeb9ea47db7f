package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is the part of *websocket.Conn the manager writes through.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is one subscribed browser tab. Writes are serialized per client.
type Client struct {
	UserID string
	conn   Conn
	mu     sync.Mutex
}

func (c *Client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager keeps track of websocket subscribers per household.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // householdID -> clients
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]map[*Client]struct{})}
}

// Register adds a connection to a household's subscribers.
func (m *Manager) Register(householdID, userID string, conn Conn) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	client := &Client{UserID: userID, conn: conn}
	if _, ok := m.clients[householdID]; !ok {
		m.clients[householdID] = make(map[*Client]struct{})
	}
	m.clients[householdID][client] = struct{}{}
	return client
}

// Unregister removes a connection and closes it.
func (m *Manager) Unregister(householdID string, client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.clients[householdID]
	if !ok {
		return
	}
	if _, ok := set[client]; ok {
		_ = client.conn.Close()
		delete(set, client)
	}
	if len(set) == 0 {
		delete(m.clients, householdID)
	}
}

// Broadcast sends payload to every subscriber of a household and returns how
// many writes succeeded. Clients whose write fails are dropped.
func (m *Manager) Broadcast(householdID string, payload []byte) int {
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.clients[householdID]))
	for c := range m.clients[householdID] {
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if err := c.send(payload); err != nil {
			m.Unregister(householdID, c)
			continue
		}
		sent++
	}
	return sent
}

// Count returns the number of subscribers of a household.
func (m *Manager) Count(householdID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[householdID])
}
