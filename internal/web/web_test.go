package web_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/events"
	"eventboard/internal/metrics"
	"eventboard/internal/model"
	"eventboard/internal/web"
)

type fixture struct {
	dir    string
	server *httptest.Server
	opts   web.Options
}

func newFixture(t *testing.T, evs []model.Event) *fixture {
	t.Helper()
	dir := t.TempDir()
	opts := web.Options{
		EventsPath: filepath.Join(dir, "events.json"),
		ICSPath:    filepath.Join(dir, "events.ics"),
		ImagesDir:  filepath.Join(dir, "images"),
		Location:   time.FixedZone("CET", 3600),
		Metrics:    metrics.New().Handler(),
	}
	if evs != nil {
		pub := &events.Publisher{EventsPath: opts.EventsPath, ICSPath: opts.ICSPath, Location: opts.Location}
		require.NoError(t, pub.Publish(evs))
	}
	require.NoError(t, os.MkdirAll(opts.ImagesDir, 0o755))

	srv := httptest.NewServer(web.NewServer(opts).Handler())
	t.Cleanup(srv.Close)
	return &fixture{dir: dir, server: srv, opts: opts}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func event(id, title, start string) model.Event {
	return model.Event{ID: id, Title: title, DateStart: start, Place: "Studio", TypeTags: []string{}}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	resp, body := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
}

func TestBoardRendersCards(t *testing.T) {
	ev := event("abc", "Linoldruck <für Kinder>", "2026-03-05T18:00:00+01:00")
	ev.Language = "Deutsch"
	ev.Price = "12.5"
	f := newFixture(t, []model.Event{ev, event("", "", "2026-03-06")})

	resp, body := f.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Equal(t, 2, strings.Count(body, `class="event-card"`))
	assert.Contains(t, body, `data-event-id="abc"`)
	assert.Contains(t, body, `data-event-id="event-2"`)
	assert.Contains(t, body, "Linoldruck &lt;für Kinder&gt;")
	assert.Contains(t, body, "Veranstaltung</h2>")
	assert.Contains(t, body, "MÄRZ")
	assert.Contains(t, body, "🇩🇪")
	assert.Contains(t, body, "18:00 Uhr")
	assert.Contains(t, body, "12,50 €")
	assert.Contains(t, body, "Sprache folgt")
	assert.Contains(t, body, "Zeit folgt")
	assert.Contains(t, body, "Kostenlos")
	assert.NotContains(t, body, "events__empty")
}

func TestBoardRetruncates(t *testing.T) {
	var evs []model.Event
	for i := 1; i <= 8; i++ {
		evs = append(evs, event(fmt.Sprintf("e%d", i), "x", fmt.Sprintf("2026-11-%02d", i)))
	}
	f := newFixture(t, nil)
	require.NoError(t, events.WriteFile(f.opts.EventsPath, evs))

	_, body := f.get(t, "/")
	assert.Equal(t, events.DefaultMaxEvents, strings.Count(body, `class="event-card"`))
	assert.NotContains(t, body, `data-event-id="e7"`)
}

func TestBoardEmptyStates(t *testing.T) {
	f := newFixture(t, nil)

	_, body := f.get(t, "/")
	assert.Contains(t, body, "Die nächsten Termine werden hier auftauchen …")

	require.NoError(t, os.WriteFile(f.opts.EventsPath, []byte(`{"not": "an array"}`), 0o644))
	_, body = f.get(t, "/")
	assert.Contains(t, body, "Die nächsten Termine werden hier auftauchen …")
	assert.NotContains(t, body, `class="event-card"`)
}

func TestEventsJSONNoStore(t *testing.T) {
	f := newFixture(t, []model.Event{event("a", "A", "2026-11-01")})

	resp, body := f.get(t, "/events.json?t=123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, `"id": "a"`)
}

func TestEventsICS(t *testing.T) {
	f := newFixture(t, []model.Event{event("a", "A", "2026-11-01")})

	resp, body := f.get(t, "/events.ics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:A")
}

func TestImagesAndMetrics(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(f.opts.ImagesDir, "manifest.json"), []byte(`{"images": []}`), 0o644))

	resp, body := f.get(t, "/images/manifest.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"images": []}`, body)

	resp, body = f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "eventboard_fetch_pages_total")

	resp, _ = f.get(t, "/static/board.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.get(t, "/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBoardQRCode(t *testing.T) {
	f := newFixture(t, nil)
	_, body := f.get(t, "/")
	assert.NotContains(t, body, "hero__qr")

	qr := filepath.Join(f.dir, "qr.png")
	require.NoError(t, os.WriteFile(qr, []byte("\x89PNG"), 0o644))
	opts := f.opts
	opts.QRImage = qr
	srv := httptest.NewServer(web.NewServer(opts).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(page), `<div class="hero__qr">`)
	assert.Contains(t, string(page), `src="/static/qr.png"`)

	resp, err = http.Get(srv.URL + "/static/qr.png")
	require.NoError(t, err)
	img, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "\x89PNG", string(img))
}
