package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePostsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botsecret-token/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		assert.Equal(t, "Markdown", r.PostForm.Get("parse_mode"))
		assert.Contains(t, r.PostForm.Get("text"), "Financial Insights")

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	telegram := NewTelegram(server.URL, "secret-token", "42")
	err := telegram.SendMessage(context.Background(), "*Financial Insights*\nAAPL")
	require.NoError(t, err)
}

func TestSendMessageAPILevelRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer server.Close()

	telegram := NewTelegram(server.URL, "secret-token", "42")
	err := telegram.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok": false, "description": "unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	telegram := NewTelegram(server.URL, "bad-token", "42")
	err := telegram.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram error 401")
}
