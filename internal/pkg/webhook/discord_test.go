package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordNotifier_PostsContent(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL)
	n.Notify(context.Background(), "🕒 Usuario marcó ENTRADA")

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "🕒 Usuario marcó ENTRADA", gotBody["content"])
}

func TestDiscordNotifier_SwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL)
	// Must not panic or propagate anything.
	n.Notify(context.Background(), "message")
}

func TestDiscordNotifier_NoURLIsNoop(t *testing.T) {
	n := NewDiscordNotifier("")
	n.Notify(context.Background(), "message")
}

func TestDiscordNotifier_UnreachableHost(t *testing.T) {
	n := NewDiscordNotifier("http://127.0.0.1:1")
	n.Notify(context.Background(), "message")
}
