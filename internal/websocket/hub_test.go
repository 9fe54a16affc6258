package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"physio-notes-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversOnlyToTargetUser(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	alice, bob := uuid.New(), uuid.New()
	a := &client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	b := &client{hub: hub, userID: bob, send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b
	require.Eventually(t, func() bool { return hub.ConnectedClients(alice) == 1 && hub.ConnectedClients(bob) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(alice, "session_state", map[string]string{"state": "recording"})

	select {
	case raw := <-a.send:
		var msg struct {
			Type string            `json:"type"`
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "session_state", msg.Type)
		assert.Equal(t, "recording", msg.Data["state"])
	case <-time.After(time.Second):
		t.Fatal("alice received nothing")
	}
	assert.Len(t, b.send, 0)
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	userID := uuid.New()
	c := &client{hub: hub, userID: userID, send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	require.Eventually(t, func() bool { return hub.ConnectedClients(userID) == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHubDropsClientWithFullBuffer(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	userID := uuid.New()
	slow := &client{hub: hub, userID: userID, send: make(chan []byte, 1)}
	hub.register <- slow
	require.Eventually(t, func() bool { return hub.ConnectedClients(userID) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(userID, "session_state", "first")
	hub.Send(userID, "session_state", "second")

	require.Eventually(t, func() bool { return hub.ConnectedClients(userID) == 0 }, time.Second, 5*time.Millisecond)
}

func TestEncodeFrame(t *testing.T) {
	raw, err := Encode("pong", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong","data":null}`, string(raw))
}
