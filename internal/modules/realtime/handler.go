package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"realtyflow/internal/domain"
	"realtyflow/internal/pkg/jwt"
	"realtyflow/internal/pkg/response"
)

type tokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type Handler struct {
	hub      *Hub
	tokens   tokenValidator
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the listed origins. An empty list or a
// "*" entry allows any origin.
func NewHandler(hub *Hub, tokens tokenValidator, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// RegisterRoutes mounts the feed. It sits outside the bearer-token group and
// reads the token from the query string.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/inventory", h.Inventory)
}

// Inventory upgrades to the live unit feed.
//
// GET /api/ws/inventory?token=JWT[&project_id=...]
func (h *Handler) Inventory(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "TOKEN_REQUIRED", "Token is required")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil || !domain.UserRole(claims.Role).Valid() {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.loggerf("level=warn msg=\"websocket upgrade failed\" err=%v", err)
		return
	}
	h.hub.ServeWS(conn, claims.UserID, c.Query("project_id"))
}
