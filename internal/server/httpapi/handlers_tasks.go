package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    *int   `json:"priority"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
	IsCompleted *bool   `json:"is_completed"`
}

func (req updateTaskRequest) patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		IsCompleted: req.IsCompleted,
	}
}

// taskFilterFromQuery parses the optional is_completed / priority query
// parameters. Malformed values behave as validation errors.
func taskFilterFromQuery(r *http.Request) (models.TaskFilter, error) {
	filter := models.TaskFilter{}
	q := r.URL.Query()

	if v := q.Get("is_completed"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, common.ErrorValidation
		}
		filter.IsCompleted = &parsed
	}
	if v := q.Get("priority"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return filter, common.ErrorValidation
		}
		filter.Priority = &parsed
	}

	return filter, nil
}

func (s *HTTPServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), caller.ID, req.Title, req.Description, req.Priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *HTTPServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	filter, err := taskFilterFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.tasks.ListTasks(r.Context(), caller.ID, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponses(list))
}

func (s *HTTPServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

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

	task, err := s.tasks.UpdateTask(r.Context(), id, caller.ID, req.patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *HTTPServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.tasks.DeleteTask(r.Context(), id, caller.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (s *HTTPServer) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.MarkCompleted(r.Context(), id, caller.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *HTTPServer) handlePomodoroInfo(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	info, err := s.tasks.PomodoroInfo(r.Context(), caller.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(info)
}

func (s *HTTPServer) handlePomodoroStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	stats, err := s.tasks.PomodoroStats(r.Context(), caller.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(stats)
}
