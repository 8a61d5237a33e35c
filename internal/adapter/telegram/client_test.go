package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/telemart/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "token", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "token", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestHTTPClientSend(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "secret-token", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	err = client.Send(context.Background(), model.Notification{ChatID: 42, Text: "Order ORD-1 status update"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "botsecret-token/sendMessage") {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody.ChatID != 42 || gotBody.Text != "Order ORD-1 status update" || gotBody.ParseMode != "HTML" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestHTTPClientSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "token", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	err = client.Send(context.Background(), model.Notification{ChatID: 1, Text: "hi"})
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestHTTPClientSendWithoutToken(t *testing.T) {
	client, err := NewHTTPClient("https://api.telegram.org", "", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Send(context.Background(), model.Notification{ChatID: 1, Text: "hi"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestHTTPClientSendMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "token", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Send(context.Background(), model.Notification{ChatID: 1, Text: "hi"}); err == nil {
		t.Fatal("expected decode error")
	}
}
