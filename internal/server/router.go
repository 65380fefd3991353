package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// initializeRouter configures all routes for the application
func (s *Server) initializeRouter(router *mux.Router) {
	// Set custom error handlers for 404 and 405 responses
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusNotFound, NewErrorResponse("Route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusMethodNotAllowed, NewErrorResponse("Method not allowed"))
	})

	// Apply common middleware
	router.Use(s.requestIDMiddleware)
	router.Use(s.loggingMiddleware)
	router.Use(s.recoveryMiddleware)

	router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/snapshot", s.getSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.getSummary).Methods(http.MethodGet)

	// Chart series endpoints with their own subrouter
	initSeriesRoutes(api.PathPrefix("/series").Subrouter(), s)
}

// initSeriesRoutes configures the chart series routes
func initSeriesRoutes(router *mux.Router, s *Server) {
	router.HandleFunc("/weekly", s.getWeeklySeries).Methods(http.MethodGet)
	router.HandleFunc("/daily", s.getDailySeries).Methods(http.MethodGet)
	router.HandleFunc("/languages", s.getLanguageSeries).Methods(http.MethodGet)
}

// requestIDMiddleware assigns a request id unless the client sent one
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs information about each request
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("request_id", r.Header.Get(RequestIDHeader)).
			Dur("duration", time.Since(start)).
			Msg("Incoming request")
	})
}

// recoveryMiddleware recovers from panics and returns a 500 error
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error().
					Interface("error", err).
					Str("path", r.URL.Path).
					Msg("Panic recovered in request handler")

				respondWithJSON(w, http.StatusInternalServerError, NewErrorResponse("Internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
