package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Client message types
const (
	MessageTypeKey     = "key"
	MessageTypeSwipe   = "swipe"
	MessageTypeCommand = "command"
)

// createUpgrader creates a WebSocket upgrader with origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.isValidOrigin(r)
		},
	}
}

// WebSocketClient is one browser tab showing the deck
type WebSocketClient struct {
	id      string
	conn    *websocket.Conn
	send    chan ports.UpdateEvent
	manager *ConnectionManager
	input   ports.InputHandler
	logger  logrus.FieldLogger
	onClose func()
}

// ClientMessage is a stimulus forwarded by the browser
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type keyMessage struct {
	Key string `json:"key"`
}

type swipeMessage struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type commandMessage struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}

// handleWebSocket upgrades the request and attaches the browser to the session
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("WebSocket upgrade failed")
		return
	}

	client := &WebSocketClient{
		id:      uuid.New().String(),
		conn:    conn,
		send:    make(chan ports.UpdateEvent, 256),
		manager: s.connMgr,
		input:   s.inputHandler(),
	}
	client.logger = s.logger.WithField("client", client.id)

	if !s.connMgr.RegisterConnection(&Connection{ID: client.id, Send: client.send}) {
		closeQuietly(conn)
		return
	}
	if monitor := s.activityMonitor(); monitor != nil {
		monitor.SocketOpened()
		client.onClose = monitor.SocketClosed
	}

	go client.writePump()
	go client.readPump()

	s.connMgr.SendTo(client.id, newEvent(ports.EventTypeConnected, map[string]string{
		"client":  client.id,
		"version": s.versionString(),
	}))
	s.connMgr.SendTo(client.id, newEvent(ports.EventTypeView, s.session.View()))
}

// readPump pumps messages from the WebSocket connection
func (c *WebSocketClient) readPump() {
	defer func() {
		c.manager.Unregister(c.id)
		closeQuietly(c.conn)
		if c.onClose != nil {
			c.onClose()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Error("WebSocket connection error")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.WithError(err).Warn("Failed to parse client message")
			continue
		}

		if err := c.dispatch(msg); err != nil {
			c.manager.SendTo(c.id, newEvent(ports.EventTypeError, errorBody(err)))
		}
	}
}

// dispatch forwards a client message to the session. The resulting view
// reaches every client through the connection manager.
func (c *WebSocketClient) dispatch(msg ClientMessage) error {
	switch msg.Type {
	case MessageTypeKey:
		var m keyMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			return err
		}
		c.input.HandleKey(m.Key)

	case MessageTypeSwipe:
		var m swipeMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			return err
		}
		c.input.HandleSwipe(m.DX, m.DY)

	case MessageTypeCommand:
		var m commandMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			return err
		}
		action, ok := entities.ParseAction(m.Action)
		if !ok {
			return &unknownActionError{name: m.Action}
		}
		if _, err := c.input.HandleCommand(entities.Command{Action: action, Index: m.Index}); err != nil {
			return err
		}

	default:
		c.logger.WithField("type", msg.Type).Debug("Ignoring client message")
	}
	return nil
}

// writePump pumps messages to the WebSocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		closeQuietly(c.conn)
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isValidOrigin validates WebSocket connection origins based on environment
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// same-origin
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.WithField("origin", origin).WithError(err).Warn("WebSocket connection rejected: invalid origin URL")
		return false
	}

	if s.config.Server.IsDevelopment() {
		return isDevelopmentOrigin(originURL)
	}

	return s.isProductionOrigin(originURL)
}

// isDevelopmentOrigin allows loopback and private network hosts
func isDevelopmentOrigin(originURL *url.URL) bool {
	hostname := originURL.Hostname()

	switch hostname {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}

	return strings.HasPrefix(hostname, "192.168.") ||
		strings.HasPrefix(hostname, "10.") ||
		isPrivateClassB(hostname)
}

// isProductionOrigin checks the origin against the configured CORS origins
func (s *Server) isProductionOrigin(originURL *url.URL) bool {
	allowed := s.config.Server.GetCORSOrigins()
	for _, allowedOrigin := range allowed {
		if allowedOrigin == "*" || originURL.String() == allowedOrigin {
			return true
		}

		// *.example.com
		if strings.HasPrefix(allowedOrigin, "*.") {
			domain := strings.TrimPrefix(allowedOrigin, "*")
			if strings.HasSuffix(originURL.Hostname(), domain) {
				return true
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"origin":          originURL.String(),
		"allowed_origins": allowed,
	}).Warn("WebSocket connection rejected: origin not in whitelist")
	return false
}

// isPrivateClassB checks for 172.16.0.0 to 172.31.255.255 range
func isPrivateClassB(hostname string) bool {
	if !strings.HasPrefix(hostname, "172.") {
		return false
	}

	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return false
	}

	switch parts[1] {
	case "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "31":
		return true
	default:
		return false
	}
}
