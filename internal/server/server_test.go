package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/wgaamuseum/museum/internal/config"
	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/protocol"
)

// dataServer serves the CG collections of region en. Every other
// collection answers 404.
func dataServer(t *testing.T, failRequired bool) *httptest.Server {
	t.Helper()
	files := map[string]string{
		"/en/bytes/share/archive/CGGroup.json":  `[{"Id":1,"Name":"Events","Order":1}]`,
		"/en/bytes/share/archive/CGDetail.json": `[{"Id":11,"GroupId":1,"Name":"Opening","Order":1,"Bg":"Assets/Cg/Opening.png"}]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failRequired && strings.HasSuffix(r.URL.Path, "/CGGroup.json") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newServer(t *testing.T, data *httptest.Server) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Data.BaseURL = data.URL
	cfg.Data.Retries = 0
	cfg.Versions.URL = ""
	s, err := New(cfg, WithVersion("test"))
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_Routes(t *testing.T) {
	s := newServer(t, dataServer(t, false))
	h := s.Handler()

	require.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz").Code)
	require.NoError(t, s.Preload(context.Background()))
	require.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)
	require.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	w := get(t, h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	require.Equal(t, "/live", doc.Find("#app").AttrOr("data-live", ""))
	require.Equal(t, "/static/museum.js", doc.Find("script[defer]").AttrOr("src", ""))

	w = get(t, h, "/static/museum.js")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "WebSocket")

	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `museum_http_requests_total{method="GET",route="/",status="200"} 1`)
	require.Contains(t, w.Body.String(), "museum_collection_fetch_duration_seconds")
}

func TestServer_PreloadFailsOnRequiredCollection(t *testing.T) {
	s := newServer(t, dataServer(t, true))

	err := s.Preload(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, catalog.ErrRegionLoad), "expected ErrRegionLoad, got %v", err)
}

func TestServer_LiveSession(t *testing.T) {
	s := newServer(t, dataServer(t, false))
	require.NoError(t, s.Preload(context.Background()))

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live?path=/cg/Events&region=en"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// The initial render follows any address messages sent while mounting.
	var render *protocol.Message
	for render == nil {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		msg, err := protocol.JSONCodec{}.Decode(data)
		require.NoError(t, err)
		if msg.Event == protocol.EventRender {
			render = msg
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(render.String("html")))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("figure.cell").Length())
	require.Equal(t, "11", doc.Find("figure.cell").AttrOr("data-id", ""))
}
