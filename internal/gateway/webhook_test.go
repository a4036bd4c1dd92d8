package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcabel/safework/internal/model"
)

func TestWebhookGateway_PullUsesQueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ws1", r.URL.Query().Get("id"))
		assert.Equal(t, "pull", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`{"records":[{"id":"a1","timestamp":3}],"lastUpdated":3}`))
	}))
	defer srv.Close()

	snap, err := NewWebhookGateway(srv.URL, testLogger()).Pull(context.Background(), "ws1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Assessments, 1)
}

func TestWebhookGateway_PullEmptyObjectMeansAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	snap, err := NewWebhookGateway(srv.URL, testLogger()).Pull(context.Background(), "ws1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestWebhookGateway_PushIgnoresResponseStatus(t *testing.T) {
	var gotAction string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		gotBody, _ = io.ReadAll(r.Body)
		// Opaque responses surface as errors or junk statuses; the push
		// outcome must stay "sent".
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookGateway(srv.URL, testLogger()).Push(context.Background(), "ws1", &model.Snapshot{LastUpdated: 9})
	require.NoError(t, err)
	assert.Equal(t, "push", gotAction)
	assert.Contains(t, string(gotBody), `"lastUpdated":9`)
}

func TestWebhookGateway_PushTransportErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewWebhookGateway(srv.URL, testLogger()).Push(context.Background(), "ws1", &model.Snapshot{})
	require.Error(t, err)
}

func TestWebhookGateway_CreateAllocatesClientSideKey(t *testing.T) {
	pushed := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed[r.URL.Query().Get("id")] = true
	}))
	defer srv.Close()

	id, err := NewWebhookGateway(srv.URL, testLogger()).Create(context.Background(), model.SeedSnapshot())
	require.NoError(t, err)
	assert.Len(t, id, 24) // 12 random bytes, hex encoded
	assert.True(t, pushed[id])
}
