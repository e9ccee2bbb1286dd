package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikrantan5/PenSilc/internal/autosave"
	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/metrics"
	"github.com/vikrantan5/PenSilc/internal/note"
)

type stubAuth struct{}

func (stubAuth) Authenticate(r *http.Request) (string, error) {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return "user-" + tok, nil
	}
	return "", errors.New("no token")
}

func newHubServer(t *testing.T, store *note.MemoryStore, opts ...Option) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(store, opts...)
	go hub.Run()

	r := mux.NewRouter()
	r.HandleFunc("/ws/notes/{noteId}", hub.ServeWS(stubAuth{}, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func readType(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for {
		var m Message
		require.NoError(t, wsjson.Read(ctx, conn, &m))
		if m.Type == typ {
			return m
		}
	}
}

func TestServeWS_RejectsBeforeUpgrade(t *testing.T) {
	store := note.NewMemoryStore()
	require.NoError(t, store.Seed("user-a", "n1", document.NewEmptyScene()))
	hub, srv := newHubServer(t, store)
	defer hub.Stop()

	tests := []struct {
		path string
		want int
	}{
		{"/ws/notes/n1", http.StatusUnauthorized},
		{"/ws/notes/missing?token=a", http.StatusNotFound},
		{"/ws/notes/n1?token=b", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestServeWS_EditAndFlushOnStop(t *testing.T) {
	store := note.NewMemoryStore()
	require.NoError(t, store.Seed("user-a", "n1", document.NewEmptyScene()))
	collector := metrics.NewCollector()
	hub, srv := newHubServer(t, store,
		WithMetrics(collector),
		WithSaverOptions(autosave.WithDelay(time.Hour)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notes/n1?token=a"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	welcome := readType(t, ctx, conn, TypeWelcome)
	assert.Contains(t, string(welcome.Payload), `"userId":"user-a"`)
	readType(t, ctx, conn, TypeSceneRender)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(collector.Sessions) == 1
	}, time.Second, 10*time.Millisecond)

	steps := []*Message{
		msg(TypeToolSet, 1, `{"tool":"pen"}`),
		msg(TypePointerDown, 2, `{"x":10,"y":10,"time":1000}`),
		msg(TypePointerMove, 3, `{"x":40,"y":30,"time":2000}`),
		msg(TypePointerUp, 4, `{"x":40,"y":30,"time":3000}`),
	}
	for _, m := range steps {
		require.NoError(t, wsjson.Write(ctx, conn, m))
	}
	for {
		m := readType(t, ctx, conn, TypeSceneRender)
		if m.Seq == 4 {
			break
		}
	}

	saved, err := store.LoadScene(ctx, "user-a", "n1")
	require.NoError(t, err)
	assert.Empty(t, saved.Objects, "autosave is still counting down")

	hub.Stop()

	saved, err = store.LoadScene(ctx, "user-a", "n1")
	require.NoError(t, err)
	require.Len(t, saved.Objects, 1)
	_, ok := saved.Objects[0].(document.Path)
	assert.True(t, ok)
}

func TestServeWS_DisconnectUnregisters(t *testing.T) {
	store := note.NewMemoryStore()
	require.NoError(t, store.Seed("user-b", "n1", document.NewEmptyScene()))
	collector := metrics.NewCollector()
	hub, srv := newHubServer(t, store, WithMetrics(collector))
	defer hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notes/n1?token=b"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	readType(t, ctx, conn, TypeSceneRender)

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close(websocket.StatusNormalClosure, "bye")

	assert.Eventually(t, func() bool {
		return hub.Len() == 0 && testutil.ToFloat64(collector.Sessions) == 0
	}, time.Second, 10*time.Millisecond)
}
