package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func decodeTask(t *testing.T, body []byte) taskResponse {
	t.Helper()
	var out taskResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode task: %v, body %s", err, body)
	}
	return out
}

func decodeTasks(t *testing.T, body []byte) []taskResponse {
	t.Helper()
	var out []taskResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode tasks: %v, body %s", err, body)
	}
	return out
}

func TestCreateTask_AssignsNextPriority(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"first"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	first := decodeTask(t, rec.Body.Bytes())
	if first.Priority != 1 {
		t.Fatalf("first priority = %d", first.Priority)
	}

	rec = env.do(t, http.MethodPost, "/api/tasks", `{"title":"second"}`, cookie)
	second := decodeTask(t, rec.Body.Bytes())
	if second.Priority != 2 {
		t.Fatalf("second priority = %d", second.Priority)
	}
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":""}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListTasks_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	env.do(t, http.MethodPost, "/api/tasks", `{"title":"alice's"}`, alice)
	env.do(t, http.MethodPost, "/api/tasks", `{"title":"bob's"}`, bob)

	rec := env.do(t, http.MethodGet, "/api/tasks", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decodeTasks(t, rec.Body.Bytes())
	if len(list) != 1 || list[0].Title != "alice's" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestListTasks_FilterByCompletion(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	env.do(t, http.MethodPost, "/api/tasks", `{"title":"open"}`, cookie)
	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"done"}`, cookie)
	done := decodeTask(t, rec.Body.Bytes())
	env.do(t, http.MethodPatch, "/api/tasks/"+itoa(done.ID)+"/complete", "", cookie)

	rec = env.do(t, http.MethodGet, "/api/tasks?is_completed=true", "", cookie)
	list := decodeTasks(t, rec.Body.Bytes())
	if len(list) != 1 || list[0].Title != "done" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestListTasks_MalformedFilter(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/api/tasks?is_completed=banana", "", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpdateTask_ForeignTaskReadsAsMissing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"alice's"}`, alice)
	task := decodeTask(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodPut, "/api/tasks/"+itoa(task.ID), `{"title":"stolen"}`, bob)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateTask_PartialPatch(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks",
		`{"title":"report","description":"numbers"}`, cookie)
	task := decodeTask(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodPut, "/api/tasks/"+itoa(task.ID), `{"priority":9}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decodeTask(t, rec.Body.Bytes())
	if got.Priority != 9 || got.Title != "report" || got.Description != "numbers" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestDeleteTask_Success(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"gone"}`, cookie)
	task := decodeTask(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodDelete, "/api/tasks/"+itoa(task.ID), "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/tasks/"+itoa(task.ID), "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestCompleteTask_Success(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"todo"}`, cookie)
	task := decodeTask(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodPatch, "/api/tasks/"+itoa(task.ID)+"/complete", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeTask(t, rec.Body.Bytes())
	if !got.IsCompleted {
		t.Fatalf("task not completed: %+v", got)
	}
}

func TestPomodoroInfo_Relays(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/api/tasks/pomodoro-info", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"taskId":1}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPomodoroStats_Relays(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/api/tasks/pomodoro-stats", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"completedPomodoros":4}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPomodoroStats_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/tasks/pomodoro-stats", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpdateTask_RejectsEmptyTitleAndZeroPriority(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"report"}`, cookie)
	task := decodeTask(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodPut, "/api/tasks/"+itoa(task.ID), `{"title":""}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty title: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPut, "/api/tasks/"+itoa(task.ID), `{"priority":0}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero priority: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestTaskRoute_BadID(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "alice@example.com")

	rec := env.do(t, http.MethodPut, "/api/tasks/abc", `{"title":"x"}`, cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
