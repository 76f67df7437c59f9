package worker_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/familyhub/internal/worker"
)

func TestGatewaySender_Send(t *testing.T) {
	var received worker.Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sender := worker.NewGatewaySender(server.Client(), server.URL, logger)

	err := sender.Send(context.Background(), &worker.Notification{
		ID:       "n1",
		FamilyID: "42",
		Event:    "post_created",
		Message:  "mom shared a new post",
	})
	require.NoError(t, err)

	assert.Equal(t, "n1", received.ID)
	assert.Equal(t, "42", received.FamilyID)
	assert.Equal(t, "post_created", received.Event)
}

func TestGatewaySender_SendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sender := worker.NewGatewaySender(server.Client(), server.URL, logger)

	err := sender.Send(context.Background(), &worker.Notification{ID: "n1", FamilyID: "42", Event: "e"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
