package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketReceivesResolutionEvents(t *testing.T) {
	s := newTestServer(t)
	go s.hub.Run()

	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)

	if _, body := getJSON(t, ts, resolvePath(testVersionURN+":1.1")); !body.Success {
		t.Fatalf("resolve failed: %+v", body.Error)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage error: %v", err)
	}

	var msg EventMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if msg.Type != "resolved" {
		t.Errorf("Type = %q, want resolved", msg.Type)
	}
	if msg.URN != testVersionURN+":1.1" {
		t.Errorf("URN = %q", msg.URN)
	}
	if msg.Data["kind"] != "textpart" {
		t.Errorf("Data[kind] = %v", msg.Data["kind"])
	}
	if msg.Timestamp == "" {
		t.Error("Timestamp missing")
	}
}

func TestBroadcastDropsWhenChannelFull(t *testing.T) {
	h := NewHub()
	// No Run loop draining; fill the channel past capacity.
	for i := 0; i < 300; i++ {
		h.BroadcastResolution("urn:cts:greekLit:tlg0012.tlg001:1.1", "resolved", nil)
	}
	if len(h.broadcast) != cap(h.broadcast) {
		t.Errorf("broadcast length = %d, want full channel %d", len(h.broadcast), cap(h.broadcast))
	}
}
