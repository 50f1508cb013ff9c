package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("123:ABC", "42", discardLogger())
	n.apiBase = srv.URL
	n.httpClient = srv.Client()
	return n
}

func TestNotifyPostsSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := newTestNotifier(srv).Notify(context.Background(), "benchmark finished")

	require.NoError(t, err)
	assert.Equal(t, "/bot123:ABC/sendMessage", gotPath)
	assert.Equal(t, "42", gotPayload["chat_id"])
	assert.Equal(t, "benchmark finished", gotPayload["text"])
}

func TestNotifyReportsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).Notify(context.Background(), "msg")

	assert.ErrorContains(t, err, "HTTP 403")
}

func TestNotifyReportsTransportError(t *testing.T) {
	n := NewTelegramNotifier("t", "c", discardLogger())
	n.apiBase = "http://127.0.0.1:1"

	err := n.Notify(context.Background(), "msg")

	assert.Error(t, err)
}
