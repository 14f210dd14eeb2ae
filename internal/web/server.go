package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"ReportDog/internal/cache"
	"ReportDog/internal/collector"
	"ReportDog/internal/model"
	"ReportDog/internal/recorder"
)

//go:embed templates/*.html
var templateFS embed.FS

// RecordWindow is how long an unchanged credit outcome is not recorded again.
const RecordWindow = time.Hour

// DossierSource assembles the full dossier for one stock.
type DossierSource interface {
	Collect(ctx context.Context, code string) (*model.Dossier, error)
}

// Server serves the dashboard pages and the JSON API.
type Server struct {
	Dossiers DossierSource
	Analyst  collector.Analyst
	Recorder recorder.Recorder

	pages  *template.Template
	md     goldmark.Markdown
	server *http.Server

	recordMu sync.Mutex
	recorded *cache.TTL[string, string] // code -> outcome key of the last recorded run
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, dossiers DossierSource, analyst collector.Analyst, rec recorder.Recorder) *Server {
	s := &Server{
		Dossiers: dossiers,
		Analyst:  analyst,
		Recorder: rec,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		recorded: cache.NewTTL[string, string](RecordWindow),
	}
	s.pages = template.Must(template.New("").Funcs(s.funcs()).ParseFS(templateFS, "templates/*.html"))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /stock/{code}", s.handleStockPage)

	// API
	mux.HandleFunc("GET /api/stock/{code}", s.handleDossier)
	mux.HandleFunc("GET /api/stock/{code}/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /api/stock/{code}/history", s.handleHistory)

	// Downloads
	mux.HandleFunc("GET /export/{code}", s.handleExport)

	return withLogging(mux)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[INFO] dashboard listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[INFO] dashboard stopped")
	return nil
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

// record stores a web-triggered analysis; failures only log. An outcome identical
// to the one recorded for the code within RecordWindow is skipped.
func (s *Server) record(report *model.Report) {
	if report == nil || s.Recorder == nil {
		return
	}
	key := outcomeKey(report)

	s.recordMu.Lock()
	defer s.recordMu.Unlock()
	if last, ok := s.recorded.Get(report.Code); ok && last == key {
		return
	}
	if _, err := s.Recorder.RecordAnalysis(report, recorder.TriggerWeb); err != nil {
		log.Printf("[ERROR] record analysis %s: %v", report.Code, err)
		return
	}
	s.recorded.Set(report.Code, key)
}

func outcomeKey(r *model.Report) string {
	cr := r.Credit
	return fmt.Sprintf("%s|%d|%s|%.2f", r.Latest().Period, cr.TotalScore, cr.Grade.Letter, cr.ZScore)
}
