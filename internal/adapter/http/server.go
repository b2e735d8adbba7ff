package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/sighting-analytics/internal/geo"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
	"github.com/couchcryptid/sighting-analytics/internal/pipeline"
	"github.com/couchcryptid/sighting-analytics/internal/query"
)

const defaultTopRegions = 5

// Dataset is the loaded sighting snapshot the query endpoints read from.
type Dataset interface {
	sharedobs.ReadinessChecker
	Snapshot() (*pipeline.Snapshot, bool)
}

// Server exposes health, readiness, metrics and the JSON query API.
type Server struct {
	httpServer *http.Server
	dataset    Dataset
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the operational routes and the /api query routes.
func NewServer(addr string, dataset Dataset, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dataset: dataset,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dataset))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/report", s.instrument("report", s.handleReport))
	mux.HandleFunc("GET /api/sightings", s.instrument("between", s.handleBetween))
	mux.HandleFunc("GET /api/sightings/near", s.instrument("near", s.handleNear))
	mux.HandleFunc("GET /api/shapes/{shape}/longest", s.instrument("longest_of_shape", s.handleLongestOfShape))
	mux.HandleFunc("GET /api/regions/top", s.instrument("top_regions", s.handleTopRegions))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// errNotFound marks a query that produced no result.
var errNotFound = errors.New("no matching sighting")

// badRequestError marks an invalid query parameter.
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return badRequestError{msg: fmt.Sprintf(format, args...)}
}

// queryHandler answers one query against a loaded snapshot.
type queryHandler func(r *http.Request, snap *pipeline.Snapshot) (any, error)

func (s *Server) instrument(name string, h queryHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status, body := s.serve(r, h)
		s.metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		s.metrics.QueriesServed.WithLabelValues(name, outcome(status)).Inc()
		sharedobs.WriteJSON(w, status, body)
	}
}

func (s *Server) serve(r *http.Request, h queryHandler) (int, any) {
	snap, ok := s.dataset.Snapshot()
	if !ok {
		return http.StatusServiceUnavailable, errorBody("sightings have not been loaded yet")
	}

	v, err := h(r, snap)
	var bad badRequestError
	switch {
	case err == nil:
		return http.StatusOK, v
	case errors.As(err, &bad):
		return http.StatusBadRequest, errorBody(bad.msg)
	case errors.Is(err, errNotFound):
		return http.StatusNotFound, errorBody(err.Error())
	default:
		s.logger.Error("query failed", "path", r.URL.Path, "error", err)
		return http.StatusInternalServerError, errorBody("internal error")
	}
}

func outcome(status int) string {
	switch status {
	case http.StatusOK:
		return "ok"
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func (s *Server) handleReport(_ *http.Request, snap *pipeline.Snapshot) (any, error) {
	return snap.Report, nil
}

func (s *Server) handleBetween(r *http.Request, snap *pipeline.Snapshot) (any, error) {
	from, err := dateParam(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := dateParam(r, "to")
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, badRequest("from %s is after to %s", from, to)
	}
	return query.Between(snap.Sightings, from, to), nil
}

func (s *Server) handleNear(r *http.Request, snap *pipeline.Snapshot) (any, error) {
	lat, err := floatParam(r, "lat", -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := floatParam(r, "lon", -180, 180)
	if err != nil {
		return nil, err
	}
	radius, err := floatParam(r, "radius", 0, math.Pi*geo.EarthRadiusKm)
	if err != nil {
		return nil, err
	}
	return query.NearLocation(snap.Sightings, geo.Coordinates{Lat: lat, Lon: lon}, radius), nil
}

func (s *Server) handleLongestOfShape(r *http.Request, snap *pipeline.Snapshot) (any, error) {
	shape := r.PathValue("shape")
	longest, ok := query.LongestOfShape(snap.Sightings, shape)
	if !ok {
		return nil, fmt.Errorf("shape %q: %w", shape, errNotFound)
	}
	return longest, nil
}

func (s *Server) handleTopRegions(r *http.Request, snap *pipeline.Snapshot) (any, error) {
	n := defaultTopRegions
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, badRequest("invalid n %q: must be a positive integer", v)
		}
		n = parsed
	}
	return query.TopRegions(snap.Sightings, n), nil
}

// dateParam parses an optional YYYY-MM-DD parameter; absent yields the zero date.
func dateParam(r *http.Request, name string) (civil.Date, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return civil.Date{}, badRequest("invalid %s %q: want YYYY-MM-DD", name, v)
	}
	return d, nil
}

func floatParam(r *http.Request, name string, lo, hi float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, badRequest("missing %s", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < lo || f > hi {
		return 0, badRequest("invalid %s %q: must be a number in [%g, %g]", name, v, lo, hi)
	}
	return f, nil
}
