package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/middleware/security"
	"finanzas/internal/middleware/trace"
	"finanzas/internal/services"
	"finanzas/internal/table"
	appweb "finanzas/web"
)

// Ledger is the data the page reads and the mutations it performs.
type Ledger interface {
	Today() time.Time
	Movements(ctx context.Context) (table.Table, error)
	Budgets(ctx context.Context) (table.Table, error)
	EntryCategories(ctx context.Context) ([]string, error)
	AddMovement(ctx context.Context, m core.Movement) error
	UpsertBudget(ctx context.Context, b core.Budget) (bool, error)
	DeleteLast(ctx context.Context) (bool, error)
	Summary(ctx context.Context, ref time.Time) (core.MonthSummary, error)
	History(ctx context.Context) ([]services.HistoryEntry, error)
	Ready(ctx context.Context) error
}

// Backup restores and exports whole tables.
type Backup interface {
	RestoreMovements(ctx context.Context, r io.Reader) (int, error)
	RestoreBudgets(ctx context.Context, r io.Reader) (int, error)
	ExportMovements(ctx context.Context) (services.Export, error)
	ExportBudgets(ctx context.Context) (services.Export, error)
}

// Options tunes the server. Zero values pick the defaults.
type Options struct {
	Logger         *applog.Logger
	MaxUploadBytes int64
	Headers        *security.HeadersConfig
}

const defaultMaxUpload = 10 << 20

type Server struct {
	http.Server
	templates *template.Template
	ledger    Ledger
	backup    Backup
	logger    *applog.Logger
	trace     *trace.Middleware
	maxUpload int64
	started   time.Time
}

// NewServer parses the embedded templates and wires every route.
func NewServer(addr string, ledger Ledger, backup Backup, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		templates: tmpl,
		ledger:    ledger,
		backup:    backup,
		logger:    logger,
		trace:     trace.NewMiddleware(logger, clientIP),
		maxUpload: opts.MaxUploadBytes,
		started:   time.Now(),
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	headers := security.DefaultHeadersConfig()
	if opts.Headers != nil {
		headers = *opts.Headers
	}

	mux := http.NewServeMux()
	page := func(h http.HandlerFunc) http.Handler { return security.NoStore(h) }

	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServerFS(static))))

	mux.Handle("GET /{$}", page(s.handleIndex))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// UI partials
	mux.Handle("GET /ui/entry-form", page(s.handleEntryForm))
	mux.Handle("GET /ui/budget-form", page(s.handleBudgetForm))
	mux.Handle("GET /ui/dashboard", page(s.handleDashboard))
	mux.Handle("GET /ui/history", page(s.handleHistory))
	mux.Handle("GET /ui/budgets", page(s.handleBudgets))
	mux.Handle("GET /ui/backup", page(s.handleBackupPanel))

	// Mutations
	mux.HandleFunc("POST /movements", s.handleCreateMovement)
	mux.HandleFunc("POST /movements/delete-last", s.handleDeleteLast)
	mux.HandleFunc("POST /budgets", s.handleUpsertBudget)
	mux.HandleFunc("POST /backup/movements", s.handleRestoreMovements)
	mux.HandleFunc("POST /backup/budgets", s.handleRestoreBudgets)
	mux.Handle("GET /backup/movements.csv", page(s.handleExportMovements))
	mux.Handle("GET /backup/budgets.csv", page(s.handleExportBudgets))

	var handler http.Handler = mux
	handler = security.Headers(headers)(handler)
	handler = s.trace.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// render executes a template into a buffer so a failure yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.NewFields().Operation(applog.OpRender).Add("template", name).Err(err, applog.ErrorTypeInternal)...)
		InternalServerError("No se pudo mostrar la página").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// storeFailure logs a store error and answers with a 500 fragment.
func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Store operation failed",
		applog.NewFields().Operation(op).Err(err, applog.ErrorTypeStorage)...)
	InternalServerError("Error: no se pudo acceder a los datos").Write(w)
}

// Metrics returns the request counters of the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.trace.GetMetrics()
}
