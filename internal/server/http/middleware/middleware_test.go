package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	pkgAuth "github.com/swiftdrop/swiftdrop/internal/pkg/auth"
	testhelpers "github.com/swiftdrop/swiftdrop/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{}))
	router.GET("/", func(c *gin.Context) {})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestAuthRequiredRejectsInvalidToken(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}
}

func TestAuthRequiredParserFailure(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestAuthRequiredStoresActor(t *testing.T) {
	var stored model.Actor
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Claims: &pkgAuth.TokenClaims{UserID: 42, Role: model.RoleCourier}}))
	router.GET("/", func(c *gin.Context) {
		if v, ok := c.Get(ActorContextKey); ok {
			stored = v.(model.Actor)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored.ID != 42 || stored.Role != model.RoleCourier {
		t.Fatalf("unexpected actor stored: %+v", stored)
	}
}

func TestAuthRequiredAcceptsCookie(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Claims: &pkgAuth.TokenClaims{UserID: 7, Role: model.RoleCustomer}}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie token, got %d", resp.Code)
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")

	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if got := recorder.Header().Get("Set-Cookie"); got == "" {
		t.Fatal("expected auth cookie to be set")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"path":"/ping"`)) {
		t.Fatalf("expected request log line, got %s", buf.String())
	}
}

func TestDecompressRequest(t *testing.T) {
	var received string
	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		received = string(body)
		c.Status(http.StatusOK)
	})

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write([]byte("payload")); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if received != "payload" {
		t.Fatalf("expected decompressed body, got %q", received)
	}
}

func TestDecompressRequestBadPayload(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for corrupt gzip, got %d", resp.Code)
	}
}
