// Package api serves the session list over HTTP
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KirkDiggler/lenslink/internal/calendar"
	"github.com/KirkDiggler/lenslink/internal/common/clock"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/concept"
	"github.com/KirkDiggler/lenslink/internal/services/messaging"
	"github.com/KirkDiggler/lenslink/internal/services/schedule"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 15 * time.Second

// Config holds configuration for the HTTP server
type Config struct {
	// Schedule must be safe for concurrent use, see schedule.NewLocked
	Schedule  schedule.Service
	Concept   concept.Service
	Messaging messaging.Service
	Clock     clock.Clock

	// Location decides "today". Defaults to time.Local.
	Location  *time.Location
	WeekStart calendar.WeekStart

	AllowedOrigins []string

	// ConceptPerMinute and ConceptBurst bound concept requests per client
	ConceptPerMinute int
	ConceptBurst     int
}

// Server is the HTTP API
type Server struct {
	schedule  schedule.Service
	concept   concept.Service
	messaging messaging.Service
	clock     clock.Clock
	location  *time.Location
	weekStart calendar.WeekStart
	origins   []string
	limiter   *clientLimiter
}

// NewServer creates the HTTP API
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Schedule == nil {
		return nil, ErrNilSchedule
	}
	if cfg.Concept == nil {
		return nil, ErrNilConcept
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Server{
		schedule:  cfg.Schedule,
		concept:   cfg.Concept,
		messaging: cfg.Messaging,
		clock:     cfg.Clock,
		location:  loc,
		weekStart: cfg.WeekStart,
		origins:   origins,
		limiter:   newClientLimiter(cfg.ConceptPerMinute, cfg.ConceptBurst, cfg.Clock),
	}, nil
}

// Router returns the bare route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/sessions", s.listSessions).Methods(http.MethodGet)
	v1.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}", s.getSession).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id}", s.deleteSession).Methods(http.MethodDelete)
	v1.HandleFunc("/sessions/{id}/share", s.shareSession).Methods(http.MethodGet)
	v1.HandleFunc("/upcoming", s.upcoming).Methods(http.MethodGet)
	v1.HandleFunc("/status", s.status).Methods(http.MethodGet)
	v1.HandleFunc("/connection/test", s.testConnection).Methods(http.MethodPost)
	v1.HandleFunc("/migrate", s.migrate).Methods(http.MethodPost)
	v1.HandleFunc("/provision", s.provision).Methods(http.MethodPost)
	v1.HandleFunc("/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.calendarMonth).Methods(http.MethodGet)
	v1.HandleFunc("/concept", s.generateConcept).Methods(http.MethodPost)
	v1.HandleFunc("/export", s.exportJSON).Methods(http.MethodGet)
	v1.HandleFunc("/export.ics", s.exportICS).Methods(http.MethodGet)
	v1.HandleFunc("/import", s.importJSON).Methods(http.MethodPost)

	return r
}

// Handler returns the route table wrapped with CORS, access logging and
// panic recovery
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	var h http.Handler = s.Router()
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(glogWriter{}))(h)
	h = handlers.LoggingHandler(glogWriter{}, h)
	return cors(h)
}

// Run serves on addr until ctx is done, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		glog.Infof("lenslink api listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	glog.Info("shutting down api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) today() string {
	return s.clock.Now().In(s.location).Format(models.DateLayout)
}
