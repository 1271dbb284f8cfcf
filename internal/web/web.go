package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"time"

	"eventboard/internal/events"
	appLog "eventboard/internal/log"
	"eventboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var embeddedStatic embed.FS

var boardTemplate = template.Must(template.ParseFS(templateFS, "templates/board.html"))

// Options configures the display server.
type Options struct {
	Listen     string
	EventsPath string
	// ICSPath enables /events.ics when set.
	ICSPath   string
	ImagesDir string
	// QRImage is a PNG shown in the board header when set.
	QRImage   string
	MaxEvents int
	Location  *time.Location
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Server renders the events board and serves the feed artifacts.
type Server struct {
	opts Options
	mux  *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(opts Options) *Server {
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = events.DefaultMaxEvents
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	s := &Server{
		opts: opts,
		mux:  http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.opts.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		appLog.Info("shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /events.json", s.handleEventsJSON)
	s.mux.HandleFunc("GET /events.ics", s.handleEventsICS)
	s.mux.Handle("GET /static/", s.staticFileServer())
	if s.opts.QRImage != "" {
		s.mux.HandleFunc("GET "+qrPath, s.handleQR)
	}
	if s.opts.ImagesDir != "" {
		s.mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(s.opts.ImagesDir))))
	}
	if s.opts.Metrics != nil {
		s.mux.Handle("GET /metrics", s.opts.Metrics)
	}
	s.mux.HandleFunc("GET /{$}", s.handleBoard)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleEventsJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeFile(w, r, s.opts.EventsPath)
}

func (s *Server) handleEventsICS(w http.ResponseWriter, r *http.Request) {
	if s.opts.ICSPath == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	http.ServeFile(w, r, s.opts.ICSPath)
}

const qrPath = "/static/qr.png"

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.opts.QRImage)
}

func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// card is the display form of one event.
type card struct {
	ID       string
	Title    string
	Day      string
	Month    string
	Flag     string
	Language string
	Time     string
	Price    string
}

type boardData struct {
	Cards  []card
	Notice string
	QR     string
}

func (s *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	evs := s.loadEvents()

	data := boardData{Cards: make([]card, 0, len(evs))}
	if s.opts.QRImage != "" {
		data.QR = qrPath
	}
	for i, ev := range evs {
		data.Cards = append(data.Cards, s.cardFor(i, ev))
	}
	if len(data.Cards) == 0 {
		data.Notice = emptyBoardNotice
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := boardTemplate.Execute(w, data); err != nil {
		appLog.Error("failed to render board", err)
	}
}

// loadEvents reads the published feed and caps it at MaxEvents again. A
// missing or unreadable feed shows an empty board.
func (s *Server) loadEvents() []model.Event {
	evs, err := events.ReadFile(s.opts.EventsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			appLog.Error("unable to load events", err, "path", s.opts.EventsPath)
		}
		return nil
	}
	if len(evs) > s.opts.MaxEvents {
		evs = evs[:s.opts.MaxEvents]
	}
	return evs
}

func (s *Server) cardFor(i int, ev model.Event) card {
	c := card{
		ID:       ev.ID,
		Title:    ev.Title,
		Flag:     languageFlag(ev.Language),
		Language: ev.Language,
		Time:     timeWindow(ev, s.opts.Location),
		Price:    formatPrice(ev.Price),
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("event-%d", i+1)
	}
	if c.Title == "" {
		c.Title = untitledCard
	}
	if c.Language == "" {
		c.Language = languagePending
	}
	if c.Time == "" {
		c.Time = timePending
	}
	c.Day, c.Month = dateParts(ev.DateStart, s.opts.Location)
	return c
}
