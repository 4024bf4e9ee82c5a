package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/realtime"
	"github.com/swiftdrop/swiftdrop/internal/server/http/handlers"
	testhelpers "github.com/swiftdrop/swiftdrop/internal/test"
)

func newTestEngine(t *testing.T, facade handlers.DeliveryFacade) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	hub := realtime.NewHub(16, 16, logger)
	return Setup(facade, hub, logger)
}

func TestSetupRoutes(t *testing.T) {
	facade := testhelpers.DeliveryFacadeStub{
		PendingOrdersFn: func(context.Context, model.Actor) ([]model.Order, error) {
			return []model.Order{{ID: 1, Product: "sushi", Quantity: 1, Location: "12 Main St", Status: model.OrderStatusPending}}, nil
		},
	}
	engine := newTestEngine(t, facade)

	body, _ := json.Marshal(map[string]string{"name": "Alice", "login": "alice", "password": "secret", "role": "customer"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/pending", nil)
	req.Header.Set("Authorization", "Bearer token:7:courier")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for pending orders, got %d", resp.Code)
	}
}

func TestSetupProtectsOrderRoutes(t *testing.T) {
	engine := newTestEngine(t, testhelpers.DeliveryFacadeStub{})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders/customer/1"},
		{http.MethodGet, "/api/orders/courier/1"},
		{http.MethodGet, "/api/orders/pending"},
		{http.MethodGet, "/api/orders/history/1"},
		{http.MethodPut, "/api/orders/1/status"},
	}

	for _, p := range paths {
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, httptest.NewRequest(p.method, p.path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", p.method, p.path, resp.Code)
		}
	}
}

func TestSetupEventStreamRequiresToken(t *testing.T) {
	engine := newTestEngine(t, testhelpers.DeliveryFacadeStub{})

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for event stream without token, got %d", resp.Code)
	}
}

var _ handlers.DeliveryFacade = (*testhelpers.DeliveryFacadeStub)(nil)
