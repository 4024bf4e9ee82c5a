package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
	testhelpers "github.com/swiftdrop/swiftdrop/internal/test"
)

func newHandlerServer(t *testing.T, parser TokenParser) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(8, 8, testLogger())
	hub.Start(context.Background())
	server := httptest.NewServer(Handler(hub, parser, testLogger()))
	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})
	return hub, server
}

func TestHandlerRejectsMissingToken(t *testing.T) {
	_, server := newHandlerServer(t, testhelpers.TokenParserStub{})

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestHandlerRejectsInvalidToken(t *testing.T) {
	_, server := newHandlerServer(t, testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken})

	resp, err := http.Get(server.URL + "?token=bad")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.StatusCode)
	}
}

func TestHandlerStreamsEvents(t *testing.T) {
	hub, server := newHandlerServer(t, testhelpers.TokenParserStub{})

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=good"
	conn, err := websocket.Dial(wsURL, "", server.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait until the observer is attached before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ObserverCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("observer never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	courierID := int64(2)
	hub.Publish(context.Background(), model.EventOrderUpdated, model.Order{
		ID:         7,
		CustomerID: 1,
		CourierID:  &courierID,
		Product:    "ramen",
		Quantity:   2,
		Location:   "12 Main St",
		Status:     model.OrderStatusAccepted,
	})

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var frame EventFrame
	if err := json.NewDecoder(conn).Decode(&frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Kind != string(model.EventOrderUpdated) {
		t.Fatalf("unexpected kind %q", frame.Kind)
	}
	if frame.Order.ID != 7 || frame.Order.Status != string(model.OrderStatusAccepted) {
		t.Fatalf("unexpected order frame %+v", frame.Order)
	}
	if frame.Order.CourierID == nil || *frame.Order.CourierID != 2 {
		t.Fatalf("expected courier assignment in frame, got %+v", frame.Order)
	}
	if frame.ID == "" {
		t.Fatal("expected event envelope id")
	}
}

func TestHandlerDisconnectDetachesObserver(t *testing.T) {
	hub, server := newHandlerServer(t, testhelpers.TokenParserStub{})

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=good"
	conn, err := websocket.Dial(wsURL, "", server.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ObserverCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("observer never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ObserverCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("observer not detached after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := tokenFromRequest(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	if got := tokenFromRequest(req); got != "abc" {
		t.Fatalf("expected header token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?token=xyz", nil)
	if got := tokenFromRequest(req); got != "xyz" {
		t.Fatalf("expected query token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie-token"})
	if got := tokenFromRequest(req); got != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", got)
	}
}
