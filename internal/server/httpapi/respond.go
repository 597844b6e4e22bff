package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	IsCompleted bool      `json:"is_completed"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		IsCompleted: t.IsCompleted,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskResponses(list []*models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain sentinels onto HTTP statuses. Anything that is
// not a recognized domain error surfaces as an opaque generic failure;
// internals never leak into the response body.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeJSON(w, http.StatusConflict, errorResponse{Detail: "already exists"})
	case errors.Is(err, common.ErrorInvalidCredentials):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "incorrect email or password"})
	case errors.Is(err, common.ErrorInvalidToken):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "invalid token"})
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "user is not authorized"})
	case errors.Is(err, common.ErrorNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Detail: "not found"})
	default:
		ctx := r.Context()
		requestID, _ := ctx.Value(requestIDKey).(string)
		s.logger.Error(ctx, "request failed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "internal error"})
	}
}

// decodeJSON reads the request body into dst, mapping malformed payloads
// onto the validation sentinel.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}
