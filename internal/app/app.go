package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/Notifuse/blockeditor/config"
	"github.com/Notifuse/blockeditor/internal/database"
	"github.com/Notifuse/blockeditor/internal/domain"
	httpHandler "github.com/Notifuse/blockeditor/internal/http"
	"github.com/Notifuse/blockeditor/internal/http/middleware"
	"github.com/Notifuse/blockeditor/internal/repository"
	"github.com/Notifuse/blockeditor/internal/service"
	"github.com/Notifuse/blockeditor/pkg/blocks"
	"github.com/Notifuse/blockeditor/pkg/cache"
	"github.com/Notifuse/blockeditor/pkg/logger"
	"github.com/Notifuse/blockeditor/pkg/tracing"
)

const (
	cacheSweepInterval = time.Minute
	dbStatsInterval    = 5 * time.Second
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetDocumentRepository() domain.DocumentRepository

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitTracing() error
	InitDB() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
}

// App encapsulates the application dependencies and configuration
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	stopTracing tracing.ShutdownFunc
	stopDBStats func()

	// Repositories
	documentCache  *cache.TTLCache[*domain.EmailDocument]
	selectionCache *cache.TTLCache[string]
	documentRepo   domain.DocumentRepository
	selectionStore domain.SelectionStore

	// Services
	editorService *service.EditorService

	// HTTP
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: shutdownTimeout,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing and metrics exporters
func (a *App) InitTracing() error {
	stop, err := tracing.InitTracing(&a.config.Tracing, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.stopTracing = stop

	if a.config.Tracing.Enabled {
		a.logger.WithField("trace_exporter", a.config.Tracing.TraceExporter).
			WithField("metrics_exporter", a.config.Tracing.MetricsExporter).
			WithField("sampling_rate", a.config.Tracing.SamplingProbability).
			Info("Tracing initialized successfully")
	}
	return nil
}

// InitDB connects to PostgreSQL and creates the schema. A database injected
// with WithMockDB is used as is.
func (a *App) InitDB() error {
	if a.db != nil {
		a.recordDBStats()
		return nil
	}

	cfg := &a.config.Database
	a.logger.WithFields(map[string]interface{}{
		"host":    cfg.Host,
		"port":    cfg.Port,
		"user":    cfg.User,
		"dbname":  cfg.DBName,
		"sslmode": cfg.SSLMode,
	}).Info("Connecting to database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureSystemDatabaseExists(ctx, cfg); err != nil {
		return fmt.Errorf("failed to ensure system database exists: %w", err)
	}

	driverName := database.DriverName
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	db, err := database.Connect(ctx, driverName, cfg)
	if err != nil {
		return err
	}

	if err := database.InitializeDatabase(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	a.db = db
	a.recordDBStats()
	return nil
}

// recordDBStats exports connection pool stats while tracing is enabled
func (a *App) recordDBStats() {
	if !a.config.Tracing.Enabled || a.stopDBStats != nil {
		return
	}
	a.stopDBStats = ocsql.RecordStats(a.db, dbStatsInterval)
}

// InitRepositories wires the postgres store behind the read cache
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database is not initialized")
	}

	a.documentCache = cache.NewTTLCache[*domain.EmailDocument](cacheSweepInterval)
	a.selectionCache = cache.NewTTLCache[string](cacheSweepInterval)

	a.documentRepo = repository.NewCachedDocumentRepository(
		repository.NewDocumentRepository(a.db),
		a.documentCache,
		a.config.Editor.CacheTTL,
		a.logger,
	)
	a.selectionStore = repository.NewSelectionStore(a.selectionCache, a.config.Editor.SelectionTTL)
	return nil
}

// InitServices builds the mutator from the editor settings and the services on top of it
func (a *App) InitServices() error {
	ids, err := blocks.NewIDGenerator(a.config.Editor.IDStrategy)
	if err != nil {
		return fmt.Errorf("failed to create id generator: %w", err)
	}
	deleteMode, err := blocks.ParseDeleteMode(a.config.Editor.DeleteMode)
	if err != nil {
		return fmt.Errorf("failed to parse delete mode: %w", err)
	}

	mutator := blocks.NewMutator(
		blocks.WithIDGenerator(ids),
		blocks.WithDeleteMode(deleteMode),
	)
	a.editorService = service.NewEditorService(a.documentRepo, a.selectionStore, mutator, a.logger)

	a.logger.WithField("id_strategy", a.config.Editor.IDStrategy).
		WithField("delete_mode", string(deleteMode)).
		Info("Editor service initialized")
	return nil
}

// InitHandlers registers every route on a fresh mux
func (a *App) InitHandlers() error {
	a.mux = http.NewServeMux()

	secret := a.config.Security.JWTSecret
	getJWTSecret := func() ([]byte, error) {
		if len(secret) == 0 {
			return nil, fmt.Errorf("JWT secret is not configured")
		}
		return secret, nil
	}

	if a.config.IsProduction() && a.config.Server.CORSAllowOrigin == "*" {
		a.logger.Warn("CORS allows any origin in production, set CORS_ALLOW_ORIGIN to the editor host")
	}

	editorHandler := httpHandler.NewEditorHandler(a.editorService, getJWTSecret, a.logger)
	editorHandler.RegisterRoutes(a.mux)

	a.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return nil
}

// Handler returns the mux wrapped in the shutdown, tracing and CORS middlewares
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
		a.logger.Info("OpenCensus tracing middleware enabled")
	}

	return middleware.NewCORSMiddleware(a.config.Server.CORSAllowOrigin)(handler)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	a.serverMu.Lock()
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	if a.config.Server.SSL.Enabled {
		a.logger.WithField("cert_file", a.config.Server.SSL.CertFile).Info("SSL enabled")
		return a.server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}
	return a.server.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones up to the
// shutdown timeout and releases resources
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")
	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources(ctx)
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	timeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr == nil {
		done := make(chan struct{})
		go func() {
			a.requestWg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			a.logger.WithField("active_requests", a.getActiveRequestCount()).Warn("Some requests still active, proceeding with shutdown")
		}
	} else {
		a.logger.WithField("error", shutdownErr.Error()).Warn("HTTP server shutdown did not complete")
	}

	if err := a.cleanupResources(ctx); err != nil {
		a.logger.WithField("error", err.Error()).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}
	return shutdownErr
}

func (a *App) cleanupResources(ctx context.Context) error {
	if a.documentCache != nil {
		a.documentCache.Stop()
	}
	if a.selectionCache != nil {
		a.selectionCache.Stop()
	}

	var dbErr error
	if a.db != nil {
		if a.stopDBStats != nil {
			a.stopDBStats()
			a.stopDBStats = nil
		}
		a.logger.Info("Closing database connection")
		dbErr = a.db.Close()
	}

	if a.stopTracing != nil {
		a.stopTracing(ctx)
	}
	return dbErr
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created.
// Returns false if ctx expires first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting block editor")

	steps := []func() error{
		a.InitTracing,
		a.InitDB,
		a.InitRepositories,
		a.InitServices,
		a.InitHandlers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetDocumentRepository() domain.DocumentRepository {
	return a.documentRepo
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware rejects new requests once shutdown began and
// tracks in-flight ones
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		atomic.AddInt64(&a.activeRequests, 1)
		a.requestWg.Add(1)
		defer func() {
			atomic.AddInt64(&a.activeRequests, -1)
			a.requestWg.Done()
		}()

		next.ServeHTTP(w, r)
	})
}

var _ AppInterface = (*App)(nil)
