package httpapi

import (
	"net/http"
)

func (s *HTTPServer) handleAdminListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tasks.AdminListTasks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponses(list))
}

func (s *HTTPServer) handleAdminUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.AdminUpdateTask(r.Context(), id, req.patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *HTTPServer) handleAdminCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.AdminMarkCompleted(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}
