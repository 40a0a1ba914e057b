package httpapi

import (
	"net/http"
	"time"
)

// routes mounts every endpoint on a standard ServeMux using method-qualified
// patterns. Protected endpoints are wrapped by the request gate individually;
// everything is wrapped by the request logger.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/v1/users/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/users/verify", s.handleVerify)
	mux.Handle("GET /api/v1/users/me", s.authenticated(s.handleMe))
	mux.Handle("GET /api/v1/users/logout", s.authenticated(s.handleLogout))

	mux.Handle("GET /api/v1/tasks", s.authenticated(s.handleTaskList))
	mux.Handle("POST /api/v1/tasks", s.authenticated(s.handleTaskCreate))
	mux.Handle("DELETE /api/v1/tasks/{id}", s.authenticated(s.handleTaskDelete))

	return s.logRequests(mux)
}

// statusRecorder captures the status code written by a handler so the
// request logger can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
