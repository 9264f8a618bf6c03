package websocket

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"notifyhub/internal/microservices/http-api/service"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins for development purpose; can restrict later
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler authenticates the connection-scoped credentials and upgrades to
// WebSocket. Authentication failure closes the request before the upgrade;
// browsers cannot set headers on websocket requests, so the token is also
// accepted as a query parameter.
func WSHandler(hub *Hub, authService service.AuthService, store NotificationStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade to WebSocket"})
			return
		}

		client := NewClient(
			uuid.New().String(), // unique connection ID
			claims.UserID,
			claims.IsOwner,
			conn,
			hub,
			store,
			logger,
		)

		hub.Register(client)

		// connection-established acknowledgement with the user id and timestamp
		if data, err := NewConnectionEstablished(claims.UserID).ToJSON(); err == nil {
			client.Enqueue(data)
		}

		// start goroutines for read and write pumps
		go client.ReadPump()
		go client.WritePump()
	}
}
