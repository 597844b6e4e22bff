// Package httpapi is the HTTP transport of the server: routing,
// session-cookie authentication, and mapping of domain errors onto HTTP
// statuses. Handlers stay thin; all business rules live in services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	users   *services.UserService
	tasks   *services.TaskService
}

func NewHTTPServer(a string, l logging.Logger, as *services.AuthService, us *services.UserService, ts *services.TaskService) *HTTPServer {
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		auth:    as,
		users:   us,
		tasks:   ts,
	}
}

// routes builds the full /api surface. Session-protected routes run
// behind withSession, admin routes behind withAdmin.
func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/user/register", s.handleRegister)
	mux.HandleFunc("POST /api/user/login", s.handleLogin)
	mux.HandleFunc("GET /api/user/logout", s.withSession(s.handleLogout))
	mux.HandleFunc("POST /api/user/reset_password", s.handleRequestPasswordReset)
	mux.HandleFunc("POST /api/user/confirm_reset_password", s.handleConfirmPasswordReset)

	mux.HandleFunc("GET /api/user", s.withSession(s.handleGetUsers))
	mux.HandleFunc("GET /api/user/{id}", s.withSession(s.handleGetUser))
	mux.HandleFunc("PUT /api/user/{id}", s.withSession(s.handleUpdateUser))

	mux.HandleFunc("POST /api/tasks", s.withSession(s.handleCreateTask))
	mux.HandleFunc("GET /api/tasks", s.withSession(s.handleListTasks))
	mux.HandleFunc("GET /api/tasks/pomodoro-info", s.withSession(s.handlePomodoroInfo))
	mux.HandleFunc("GET /api/tasks/pomodoro-stats", s.withSession(s.handlePomodoroStats))
	mux.HandleFunc("PUT /api/tasks/{id}", s.withSession(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.withSession(s.handleDeleteTask))
	mux.HandleFunc("PATCH /api/tasks/{id}/complete", s.withSession(s.handleCompleteTask))

	mux.HandleFunc("GET /api/admin/tasks", s.withAdmin(s.handleAdminListTasks))
	mux.HandleFunc("PUT /api/admin/tasks/{id}", s.withAdmin(s.handleAdminUpdateTask))
	mux.HandleFunc("PATCH /api/admin/tasks/{id}/complete", s.withAdmin(s.handleAdminCompleteTask))

	return s.withRequestID(s.withAccessLog(mux.ServeHTTP))
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
