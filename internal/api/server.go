package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the sharing platform REST API.
type HTTPServer struct {
	cfg        config.ServerConfig
	exportsDir string
	server     *http.Server
	bookings   *service.BookingService
	items      *service.ItemService
	users      *service.UserService
	requests   *service.RequestService
	logger     *zerolog.Logger
}

func NewHTTPServer(
	cfg *config.Config,
	bookings *service.BookingService,
	items *service.ItemService,
	users *service.UserService,
	requests *service.RequestService,
	redisLimiter domain.RateLimiter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:        cfg.Server,
		exportsDir: cfg.Exports.Path,
		bookings:   bookings,
		items:      items,
		users:      users,
		requests:   requests,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(rateLimitMiddleware(cfg.RateLimit, redisLimiter))

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", srv.handleCreateUser)
		r.Get("/", srv.handleGetAllUsers)
		r.Get("/{userID}", srv.handleGetUser)
		r.Patch("/{userID}", srv.handleUpdateUser)
		r.Delete("/{userID}", srv.handleDeleteUser)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", srv.handleCreateItem)
		r.Get("/", srv.handleGetOwnItems)
		r.Get("/search", srv.handleSearchItems)
		r.Get("/{itemID}", srv.handleGetItem)
		r.Patch("/{itemID}", srv.handleUpdateItem)
		r.Delete("/{itemID}", srv.handleDeleteItem)
		r.Post("/{itemID}/comment", srv.handleAddComment)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", srv.handleCreateBooking)
		r.Get("/", srv.handleListBookings)
		r.Get("/owner", srv.handleListOwnerBookings)
		r.Get("/export", srv.handleExportBookings)
		r.Get("/{bookingID}", srv.handleGetBooking)
		r.Patch("/{bookingID}", srv.handleApproveBooking)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", srv.handleCreateRequest)
		r.Get("/", srv.handleGetOwnRequests)
		r.Get("/all", srv.handleGetOtherRequests)
		r.Get("/{requestID}", srv.handleGetRequest)
	})

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the routed handler, mainly for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID extracts the opaque user id the platform trusts the caller to
// supply. No authentication happens here.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(models.HeaderUserID)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", models.HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s header must be an integer", models.HeaderUserID)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}
