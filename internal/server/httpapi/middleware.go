package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/google/uuid"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "request_id"
)

// currentUser returns the session user resolved by withSession.
func currentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// withRequestID assigns each request a uuid, echoing it in the
// X-Request-Id header and carrying it in the context for log correlation.
func (s *HTTPServer) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	}
}

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *HTTPServer) withAccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		ctx := r.Context()
		requestID, _ := ctx.Value(requestIDKey).(string)
		s.logger.Info(ctx, "request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// withSession requires a valid session cookie and puts the resolved user
// into the request context. Missing, invalid, and expired tokens all fail
// with the same 401.
func (s *HTTPServer) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.SessionCookieName)
		if err != nil || cookie.Value == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		user, err := s.auth.ResolveSession(r.Context(), cookie.Value)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// withAdmin layers the admin gate on top of withSession. Non-admin
// callers get the same not-found shape as a missing resource, so the
// admin surface does not advertise itself.
func (s *HTTPServer) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r.Context())
		if !ok || !user.IsAdmin {
			s.writeError(w, r, common.ErrorNotFound)
			return
		}
		next(w, r)
	})
}
