// Package live subscribes to the backend's change feed and turns each event
// into a cache invalidation, so mounted queries refetch without polling.
package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"backoffice/internal/cache"
)

const (
	readDeadline = 60 * time.Second
	writeWait    = 10 * time.Second
	pingPeriod   = 50 * time.Second
)

// Event is one change notification from the backend.
type Event struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

type Feed struct {
	url   string
	token func() string
	store *cache.Store
}

func NewFeed(url string, token func() string, store *cache.Store) *Feed {
	return &Feed{url: url, token: token, store: store}
}

// Run dials the feed and pumps events until the connection drops or ctx is
// cancelled. The caller owns reconnect policy.
func (f *Feed) Run(ctx context.Context) error {
	header := http.Header{}
	if f.token != nil {
		if token := f.token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, header)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	go f.writePump(ctx, conn, done)
	err = f.readPump(conn)
	close(done)
	_ = conn.Close()
	return err
}

func (f *Feed) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("live: dropping malformed event: %v", err)
			continue
		}
		f.apply(event)
	}
}

func (f *Feed) writePump(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
			return
		case <-done:
			return
		}
	}
}

// apply maps one backend entity change to the cache keys it dirties.
func (f *Feed) apply(event Event) {
	switch event.Entity {
	case "account":
		f.store.Invalidate(cache.K("accounts", "all"))
	case "user":
		f.store.Invalidate(cache.K("customers"))
	case "staff":
		f.store.Invalidate(cache.K("staff"))
	case "transaction":
		if event.ID != "" {
			f.store.Invalidate(cache.K("transaction", event.ID))
		}
		f.store.Invalidate(cache.K("transactions", "all"))
	case "application":
		f.store.Invalidate(cache.K("admin", "pendingApplications"))
	default:
		log.Printf("live: unknown entity %q", event.Entity)
	}
}
