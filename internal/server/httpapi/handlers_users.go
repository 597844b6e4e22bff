package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func (s *HTTPServer) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.GetUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// handleUpdateUser lets a user change their own email/password; admins
// may update anyone. Attempts on other accounts come back as not-found.
func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}
	if caller.ID != id && !caller.IsAdmin {
		s.writeError(w, r, common.ErrorNotFound)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateUser(r.Context(), id, models.UserPatch{Email: req.Email, Password: req.Password})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}
