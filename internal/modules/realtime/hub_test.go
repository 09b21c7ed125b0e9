package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyflow/internal/domain"
	"realtyflow/internal/pkg/jwt"
)

func newServer(t *testing.T) (*Hub, *jwt.Service, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	tokens := jwt.New("realtime-test", time.Hour)

	r := gin.New()
	NewHandler(hub, tokens, nil).RegisterRoutes(r.Group("/api"))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, tokens, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/inventory"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestInventoryFeed_BroadcastsUnitEvents(t *testing.T) {
	hub, tokens, url := newServer(t)
	token, err := tokens.GenerateToken("exec-1", "sales_executive")
	require.NoError(t, err)

	all := dial(t, url+"?token="+token)
	scoped := dial(t, url+"?token="+token+"&project_id=p2")
	waitFor(t, hub, 2)

	at := time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)
	hub.Publish(domain.UnitEvent{Type: domain.EventUnitBlocked, UnitID: "u1", ProjectID: "p1", From: domain.UnitAvailable, To: domain.UnitBlocked, At: at})
	hub.Publish(domain.UnitEvent{Type: domain.EventUnitBooked, UnitID: "u9", ProjectID: "p2", From: domain.UnitBlocked, To: domain.UnitBooked, At: at})

	require.NoError(t, all.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got domain.UnitEvent
	require.NoError(t, all.ReadJSON(&got))
	assert.Equal(t, domain.EventUnitBlocked, got.Type)
	assert.Equal(t, "u1", got.UnitID)
	assert.Equal(t, domain.UnitBlocked, got.To)
	assert.True(t, got.At.Equal(at))
	require.NoError(t, all.ReadJSON(&got))
	assert.Equal(t, domain.EventUnitBooked, got.Type)

	require.NoError(t, scoped.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, scoped.ReadJSON(&got))
	assert.Equal(t, "u9", got.UnitID, "project-scoped subscribers skip other projects")
}

func TestInventoryFeed_RejectsBadTokens(t *testing.T) {
	_, _, url := newServer(t)

	for _, q := range []string{"", "?token=garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(url+q, nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestInventoryFeed_DropsClosedConnections(t *testing.T) {
	hub, tokens, url := newServer(t)
	token, err := tokens.GenerateToken("admin-1", "sales_admin")
	require.NoError(t, err)

	conn := dial(t, url+"?token="+token)
	waitFor(t, hub, 1)

	require.NoError(t, conn.Close())
	waitFor(t, hub, 0)

	hub.Publish(domain.UnitEvent{Type: domain.EventUnitSold, UnitID: "u1", ProjectID: "p1"})
	assert.Equal(t, 0, hub.Count())
}

func TestPublish_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	c := &client{userID: "slow", send: make(chan []byte, 1)}
	hub.register(c)

	hub.Publish(domain.UnitEvent{Type: domain.EventUnitUpdated, UnitID: "u1"})
	assert.Equal(t, 1, hub.Count())

	hub.Publish(domain.UnitEvent{Type: domain.EventUnitUpdated, UnitID: "u2"})
	assert.Equal(t, 0, hub.Count())

	msg, ok := <-c.send
	require.True(t, ok)
	assert.Contains(t, string(msg), `"unit_id":"u1"`)
	_, ok = <-c.send
	assert.False(t, ok, "send channel is closed on drop")
}
