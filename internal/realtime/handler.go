package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
)

const authCookieName = "swiftdrop_token"

// TokenParser validates the credential presented at handshake.
type TokenParser interface {
	ParseToken(token string) (*pkgAuth.TokenClaims, error)
}

// EventFrame is the wire format observers receive. Every connected
// observer gets every event; filtering is the subscriber's concern.
type EventFrame struct {
	ID    string     `json:"id"`
	Kind  string     `json:"kind"`
	Order OrderFrame `json:"order"`
	At    time.Time  `json:"at"`
}

// OrderFrame mirrors the order record inside an event.
type OrderFrame struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CourierID    *int64    `json:"courier_id,omitempty"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name,omitempty"`
	CourierName  string    `json:"courier_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newEventFrame(event model.OrderEvent) EventFrame {
	o := event.Order
	return EventFrame{
		ID:   event.ID,
		Kind: string(event.Kind),
		At:   event.At,
		Order: OrderFrame{
			ID:           o.ID,
			CustomerID:   o.CustomerID,
			CourierID:    o.CourierID,
			Product:      o.Product,
			Quantity:     o.Quantity,
			Location:     o.Location,
			Status:       string(o.Status),
			CustomerName: o.CustomerName,
			CourierName:  o.CourierName,
			CreatedAt:    o.CreatedAt,
			UpdatedAt:    o.UpdatedAt,
		},
	}
}

// Handler serves the observer websocket endpoint. The credential is
// checked on the HTTP request before the handshake completes, so
// unauthenticated connection attempts are rejected with 401 instead of a
// broken upgrade.
func Handler(hub *Hub, parser TokenParser, logger *slog.Logger) http.Handler {
	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		serveObserver(conn, hub)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		if _, err := parser.ParseToken(token); err != nil {
			logger.Warn("websocket handshake rejected", slog.String("remote", r.RemoteAddr))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		wsHandler.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	if cookie, err := r.Cookie(authCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func serveObserver(conn *websocket.Conn, hub *Hub) {
	defer func() {
		_ = conn.Close()
	}()

	sub := hub.Subscribe()
	defer sub.Close()

	// Drain incoming frames only to learn when the client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(io.Discard, conn)
	}()

	encoder := json.NewEncoder(conn)
	for {
		select {
		case <-done:
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := encoder.Encode(newEventFrame(event)); err != nil {
				return
			}
		}
	}
}
