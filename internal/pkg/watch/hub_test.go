package watch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/watch"
)

func dialHub(t *testing.T, hub *watch.Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeWS(w, r); err != nil {
			t.Errorf("ServeWS: %v", err)
		}
	}))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHubDeliversBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := watch.NewHub()
	go hub.Run(ctx)

	conn, done := dialHub(t, hub)
	defer done()

	// Give the register message time to land before broadcasting.
	time.Sleep(100 * time.Millisecond)
	hub.Broadcast(models.Event{
		Type:    models.EventAnimeAdded,
		AnimeID: "66b1f0a2c9e77a0001234567",
		Title:   "Cowboy Bebop",
		Time:    time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Type != models.EventAnimeAdded {
		t.Errorf("Type = %q", got.Type)
	}
	if got.Title != "Cowboy Bebop" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestHubDeliversToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := watch.NewHub()
	go hub.Run(ctx)

	c1, done1 := dialHub(t, hub)
	defer done1()
	c2, done2 := dialHub(t, hub)
	defer done2()

	time.Sleep(100 * time.Millisecond)
	hub.Broadcast(models.Event{Type: models.EventLinkDown, Title: "Akira"})

	for i, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got models.Event
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("client %d ReadJSON: %v", i, err)
		}
		if got.Type != models.EventLinkDown {
			t.Errorf("client %d Type = %q", i, got.Type)
		}
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := watch.NewHub()
	go hub.Run(ctx)

	conn, done := dialHub(t, hub)
	defer done()

	time.Sleep(100 * time.Millisecond)
	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the connection to close after shutdown")
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	// No Run loop draining the queue; a full queue must not wedge the caller.
	hub := watch.NewHub()
	donech := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Broadcast(models.Event{Type: models.EventAnimeUpdated})
		}
		close(donech)
	}()
	select {
	case <-donech:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked")
	}
}
