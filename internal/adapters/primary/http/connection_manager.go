package http

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan ports.UpdateEvent
}

// ConnectionManager fans session views and effects out to every browser
// connection. It is subscribed to the session as a single display surface.
type ConnectionManager struct {
	connections map[string]*Connection
	broadcast   chan ports.UpdateEvent
	unregister  chan string
	logger      logrus.FieldLogger
	mu          sync.RWMutex
	done        chan struct{}
	doneOnce    sync.Once
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger logrus.FieldLogger) *ConnectionManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ConnectionManager{
		connections: make(map[string]*Connection),
		broadcast:   make(chan ports.UpdateEvent, 256),
		unregister:  make(chan string),
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Run starts the connection manager main loop
func (cm *ConnectionManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			cm.doneOnce.Do(func() { close(cm.done) })
			cm.CloseAll()
			return

		case id := <-cm.unregister:
			cm.remove(id)

		case event := <-cm.broadcast:
			cm.mu.Lock()
			for id, conn := range cm.connections {
				select {
				case conn.Send <- event:
				default:
					// too slow
					close(conn.Send)
					delete(cm.connections, id)
					cm.logger.WithField("client", id).Warn("Dropped slow client")
				}
			}
			cm.mu.Unlock()
		}
	}
}

// RegisterConnection adds a new connection. It returns false once the
// manager has stopped, in which case conn.Send is closed.
func (cm *ConnectionManager) RegisterConnection(conn *Connection) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	select {
	case <-cm.done:
		close(conn.Send)
		return false
	default:
	}

	cm.connections[conn.ID] = conn
	cm.logger.WithField("client", conn.ID).Debug("Client connected")
	return true
}

// SendTo queues an event for one connection without blocking
func (cm *ConnectionManager) SendTo(id string, event ports.UpdateEvent) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	conn, ok := cm.connections[id]
	if !ok {
		return false
	}
	select {
	case conn.Send <- event:
		return true
	default:
		return false
	}
}

// Unregister removes a connection
func (cm *ConnectionManager) Unregister(connID string) {
	select {
	case cm.unregister <- connID:
	case <-cm.done:
	}
}

// Broadcast sends an event to all connections
func (cm *ConnectionManager) Broadcast(event ports.UpdateEvent) {
	select {
	case cm.broadcast <- event:
	case <-cm.done:
	}
}

// Count returns the number of open connections
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll closes all connections
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for id, conn := range cm.connections {
		close(conn.Send)
		delete(cm.connections, id)
	}
}

// Show implements ports.DisplaySurface
func (cm *ConnectionManager) Show(view entities.View) {
	cm.Broadcast(newEvent(ports.EventTypeView, view))
}

// Perform implements ports.EffectSurface
func (cm *ConnectionManager) Perform(action entities.Action) {
	switch action {
	case entities.ActionToggleFullscreen:
		cm.Broadcast(newEvent(ports.EventTypeFullscreen, nil))
	case entities.ActionPrint:
		cm.Broadcast(newEvent(ports.EventTypePrint, map[string]string{"url": "/print"}))
	}
}

func (cm *ConnectionManager) remove(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if conn, ok := cm.connections[id]; ok {
		delete(cm.connections, id)
		close(conn.Send)
		cm.logger.WithField("client", id).Debug("Client disconnected")
	}
}

func newEvent(eventType string, data interface{}) ports.UpdateEvent {
	return ports.UpdateEvent{Type: eventType, Timestamp: time.Now(), Data: data}
}

var (
	_ ports.DisplaySurface = (*ConnectionManager)(nil)
	_ ports.EffectSurface  = (*ConnectionManager)(nil)
)
