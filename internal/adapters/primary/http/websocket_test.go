package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// wsEvent mirrors ports.UpdateEvent with a decodable payload
type wsEvent struct {
	Type string        `json:"type"`
	Data entities.View `json:"data"`
}

func startTestServer(t *testing.T) (*Server, func()) {
	t.Helper()
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))

	return srv, func() {
		_ = srv.Stop(context.Background())
		cancel()
	}
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL(), "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// readUntil reads events until match returns true or the deadline passes
func readUntil(t *testing.T, ws *websocket.Conn, match func(wsEvent) bool) wsEvent {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var event wsEvent
		require.NoError(t, ws.ReadJSON(&event))
		if match(event) {
			return event
		}
	}
}

func viewWith(indicator string) func(wsEvent) bool {
	return func(e wsEvent) bool {
		return e.Type == ports.EventTypeView && e.Data.Indicator == indicator
	}
}

func upload(t *testing.T, srv *Server, name, content string) {
	t.Helper()
	req := uploadRequest(t, name, content)
	req.RequestURI = ""
	u, err := url.Parse(srv.URL() + "/api/deck")
	require.NoError(t, err)
	req.URL = u

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestWebSocket_InitialEvents(t *testing.T) {
	srv, stop := startTestServer(t)
	defer stop()

	ws := dial(t, srv)

	var connected ports.UpdateEvent
	require.NoError(t, ws.ReadJSON(&connected))
	assert.Equal(t, ports.EventTypeConnected, connected.Type)

	view := readUntil(t, ws, func(e wsEvent) bool { return e.Type == ports.EventTypeView })
	assert.Equal(t, entities.ViewStateFileSelect, view.Data.State)

	assert.Eventually(t, func() bool { return srv.connMgr.Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWebSocket_Navigation(t *testing.T) {
	srv, stop := startTestServer(t)
	defer stop()

	ws := dial(t, srv)
	other := dial(t, srv)
	readUntil(t, ws, func(e wsEvent) bool { return e.Type == ports.EventTypeView })
	readUntil(t, other, func(e wsEvent) bool { return e.Type == ports.EventTypeView })

	upload(t, srv, "talk.md", twoSlideDeck)
	readUntil(t, ws, viewWith("1/2"))

	t.Run("key", func(t *testing.T) {
		require.NoError(t, ws.WriteJSON(map[string]interface{}{"type": "key", "data": map[string]string{"key": "ArrowRight"}}))
		event := readUntil(t, ws, viewWith("2/2"))
		assert.Equal(t, "B", event.Data.SlideTitle)

		// every browser follows the deck
		readUntil(t, other, viewWith("2/2"))
	})

	t.Run("swipe", func(t *testing.T) {
		require.NoError(t, ws.WriteJSON(map[string]interface{}{"type": "swipe", "data": map[string]float64{"dx": 60, "dy": 5}}))
		readUntil(t, ws, viewWith("1/2"))
	})

	t.Run("command", func(t *testing.T) {
		require.NoError(t, ws.WriteJSON(map[string]interface{}{"type": "command", "data": map[string]interface{}{"action": "last"}}))
		readUntil(t, ws, viewWith("2/2"))
	})

	t.Run("out of range goto reports an error", func(t *testing.T) {
		require.NoError(t, ws.WriteJSON(map[string]interface{}{"type": "command", "data": map[string]interface{}{"action": "goto", "index": 9}}))
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
		for {
			var event ports.UpdateEvent
			require.NoError(t, ws.ReadJSON(&event))
			if event.Type == ports.EventTypeError {
				data := event.Data.(map[string]interface{})
				assert.Equal(t, string(entities.ErrorKindOutOfRange), data["error"])
				break
			}
		}
	})

	t.Run("fullscreen effect", func(t *testing.T) {
		require.NoError(t, ws.WriteJSON(map[string]interface{}{"type": "key", "data": map[string]string{"key": "f"}}))
		readUntil(t, other, func(e wsEvent) bool { return e.Type == ports.EventTypeFullscreen })
	})
}

func TestIsValidOrigin(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name        string
		environment string
		origins     []string
		origin      string
		valid       bool
	}{
		{"same origin", "development", nil, "", true},
		{"localhost", "development", nil, "http://localhost:3000", true},
		{"lan", "development", nil, "http://192.168.1.20:8080", true},
		{"private class b", "development", nil, "http://172.20.0.5", true},
		{"public class b", "development", nil, "http://172.40.0.5", false},
		{"remote", "development", nil, "https://example.com", false},
		{"malformed", "development", nil, "://bad", false},
		{"production whitelist", "production", []string{"https://slides.example.com"}, "https://slides.example.com", true},
		{"production wildcard", "production", []string{"*.example.com"}, "https://talks.example.com", true},
		{"production rejects", "production", []string{"https://slides.example.com"}, "http://localhost:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.config.Server.Environment = tt.environment
			srv.config.Server.CORSOrigins = tt.origins

			req, _ := http.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.valid, srv.isValidOrigin(req))
		})
	}
}
