// internal/server/stream_test.go
package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ntc-dashboard/internal/configsync"
	"github.com/tamzrod/ntc-dashboard/internal/logger"
	"github.com/tamzrod/ntc-dashboard/internal/status"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

func TestHub_PublishIsNonBlocking(t *testing.T) {
	h := NewHub(logger.NewTestLogger(), nil)
	_, msgs, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(StreamMessage{Type: MessageTick})
	}
	assert.Len(t, msgs, subscriberBuffer)
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	h := NewHub(logger.NewTestLogger(), nil)

	_, a, cancelA := h.Subscribe()
	_, b, _ := h.Subscribe()
	assert.Equal(t, 2, h.Len())

	cancelA()
	cancelA() // idempotent
	_, ok := <-a
	assert.False(t, ok)
	assert.Equal(t, 1, h.Len())

	h.Close()
	_, ok = <-b
	assert.False(t, ok)

	// refused after close
	_, c, _ := h.Subscribe()
	_, ok = <-c
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
}

func TestNewTickData(t *testing.T) {
	d := NewTickData(telemetry.Tick{"ch0": 1}, 61)
	assert.Equal(t, 60, d.Step)
	assert.Equal(t, "1 m 0 s", d.Label)

	assert.Equal(t, 0, NewTickData(nil, 0).Step)
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStream_InitialStateThenUpdates(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.ctrl.LoadConfig(configsync.Record{SensorMask: 10}))

	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/telemetry/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, MessageConfig, msg["type"])

	msg = readMessage(t, conn)
	assert.Equal(t, MessageStatus, msg["type"])

	require.Eventually(t, func() bool { return f.srv.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	f.srv.PublishTick(telemetry.Tick{"ch0": 21.5}, 4)
	msg = readMessage(t, conn)
	assert.Equal(t, MessageTick, msg["type"])
	data, ok := msg["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3 s", data["label"])

	// a committed toggle is pushed as a config message
	require.NoError(t, f.ctrl.OnChannelToggle(0, true))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageConfig, msg["type"])
	data, ok = msg["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0b001011", data["sensor_mask_binary"])

	f.srv.PublishStatus(status.Encode(status.Snapshot{Health: status.HealthOK}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageStatus, msg["type"])
}
