package queue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logingest/internal/config"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.QueueConfig{
		URL:          srv.URL + "/000000000000/login-queue",
		FetchTimeout: timeout,
	}
	return NewClientWithHTTP(cfg, srv.Client(), logger.NopLogger())
}

func TestClient_Receive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/000000000000/login-queue", r.URL.Path)
		assert.Equal(t, "ReceiveMessage", r.URL.Query().Get("Action"))
		assert.Equal(t, "1", r.URL.Query().Get("MaxNumberOfMessages"))
		w.Write([]byte("<ReceiveMessageResponse/>"))
	}, time.Second)

	body, err := client.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<ReceiveMessageResponse/>", string(body))
}

func TestClient_Receive_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, time.Second)

	_, err := client.Receive(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFetch(err))
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Receive_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	_, err := client.Receive(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFetch(err))
	assert.True(t, apperrors.IsTimeout(err))
}

func TestClient_Delete(t *testing.T) {
	var handle string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DeleteMessage", r.URL.Query().Get("Action"))
		handle = r.URL.Query().Get("ReceiptHandle")
	}, time.Second)

	require.NoError(t, client.Delete(context.Background(), "rh+/=1"))
	assert.Equal(t, "rh+/=1", handle)

	err := client.Delete(context.Background(), "")
	assert.True(t, apperrors.IsFetch(err))
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GetQueueAttributes", r.URL.Query().Get("Action"))
	}, time.Second)

	assert.NoError(t, client.Ping(context.Background()))
}
