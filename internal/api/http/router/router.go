package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/daytrack-server/internal/api/http/handler"
	"github.com/dtroode/daytrack-server/internal/api/http/middleware"
	"github.com/dtroode/daytrack-server/internal/api/http/response"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires the HTTP handlers and middleware for the daytrack API.
type Router struct {
	authService    handler.AuthService
	recordService  handler.RecordService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	pinger         Pinger
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	recordService handler.RecordService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	pinger Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		recordService:  recordService,
		tokenService:   tokenService,
		contextManager: contextManager,
		pinger:         pinger,
		logger:         logger,
	}
}

// Register builds the route tree. Account and session routes are public,
// every record route goes through token authentication.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)

	mux.Get("/healthz", r.health)

	r.registerAuthRoutes(mux)

	mux.Group(func(protected chi.Router) {
		protected.Use(authenticate.Handle)
		r.registerRecordRoutes(protected)
	})

	return mux
}

func (r *Router) registerAuthRoutes(mux chi.Router) {
	authHandler := handler.NewAuth(r.authService, r.logger)

	mux.Post("/accounts", authHandler.Signup)
	mux.Delete("/accounts", authHandler.DeleteAccount)
	mux.Post("/sessions", authHandler.Login)
}

func (r *Router) registerRecordRoutes(mux chi.Router) {
	recordHandler := handler.NewRecord(r.recordService, r.contextManager, r.logger)

	mux.Route("/records", func(records chi.Router) {
		records.Get("/", recordHandler.List)
		records.Post("/", recordHandler.Create)
		records.Put("/", recordHandler.Import)
		records.Get("/{id}", recordHandler.Get)
		records.Put("/{id}", recordHandler.Update)
		records.Delete("/{id}", recordHandler.Delete)
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	if err := r.pinger.Ping(req.Context()); err != nil {
		r.logger.Warn("Health check: store ping failed", "error", err.Error())
		response.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	response.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
