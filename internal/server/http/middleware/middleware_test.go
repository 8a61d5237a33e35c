package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/domain/model"
	testhelpers "github.com/telemart/storefront/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newAuthEngine(verifier IdentityVerifier, requireUser bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(TelegramAuth(verifier, testLogger()))
	group := engine.Group("")
	if requireUser {
		group.Use(RequireTelegramUser())
	}
	group.GET("/probe", func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			c.JSON(http.StatusOK, gin.H{"userId": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": identity.UserID})
	})
	return engine
}

func TestTelegramAuthValidHeader(t *testing.T) {
	verifier := testhelpers.VerifierStub{
		Identities: map[string]*model.TelegramIdentity{
			"signed-payload": {UserID: 42, Username: "alice"},
		},
	}
	engine := newAuthEngine(verifier, false)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(InitDataHeader, "signed-payload")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(`"userId":42`)) {
		t.Fatalf("identity not propagated: %s", resp.Body.String())
	}
}

func TestTelegramAuthInvalidHeaderAborts(t *testing.T) {
	engine := newAuthEngine(testhelpers.VerifierStub{}, false)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(InitDataHeader, "tampered")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid init data, got %d", resp.Code)
	}
}

func TestTelegramAuthMissingHeaderStaysAnonymous(t *testing.T) {
	engine := newAuthEngine(testhelpers.VerifierStub{}, false)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous request, got %d", resp.Code)
	}
}

func TestRequireTelegramUser(t *testing.T) {
	verifier := testhelpers.VerifierStub{
		Identities: map[string]*model.TelegramIdentity{
			"signed-payload": {UserID: 42},
			"no-user":        {},
		},
	}
	engine := newAuthEngine(verifier, true)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without init data, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(InitDataHeader, "no-user")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for identity without user, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(InitDataHeader, "signed-payload")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for verified user, got %d", resp.Code)
	}
}

func newAdminEngine(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(AdminAuth(secret))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestAdminAuth(t *testing.T) {
	engine := newAdminEngine("s3cret")

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without secret, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AdminSecretHeader, "wrong")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong secret, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AdminSecretHeader, "s3cret")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for correct secret, got %d", resp.Code)
	}
}

func TestAdminAuthLocksWhenUnconfigured(t *testing.T) {
	engine := newAdminEngine("")

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AdminSecretHeader, "")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("empty configured secret must lock admin surface, got %d", resp.Code)
	}
}

func TestDecompressRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(DecompressRequest())
	engine.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("payload")); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/echo", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != "payload" {
		t.Fatalf("unexpected response: %d %q", resp.Code, resp.Body.String())
	}
}
