package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/progress"
)

const maxCheckBytes = 1 << 20

func ListTasksHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, err := idParam(r, "lessonID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tasks, err := store.ListLessonTasks(r.Context(), lessonID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
	}
}

func GetTaskHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "taskID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, err := store.GetTask(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

type optionPayload struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type taskPayload struct {
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	Type          string          `json:"type" validate:"required,oneof=quiz text code"`
	Language      string          `json:"language"`
	CorrectOutput string          `json:"correct_output"`
	StartCode     string          `json:"start_code"`
	Options       []optionPayload `json:"options" validate:"omitempty,dive"`
}

func (p taskPayload) options() []content.TaskOption {
	if p.Options == nil {
		return nil
	}
	out := make([]content.TaskOption, len(p.Options))
	for i, o := range p.Options {
		out[i] = content.TaskOption{Text: o.Text, IsCorrect: o.IsCorrect}
	}
	return out
}

func CreateTaskHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, err := idParam(r, "lessonID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForLesson(r.Context(), store, lessonID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req taskPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t := content.Task{
			LessonID:      lessonID,
			Title:         req.Title,
			Description:   req.Description,
			Type:          content.TaskType(req.Type),
			Language:      req.Language,
			CorrectOutput: req.CorrectOutput,
			StartCode:     req.StartCode,
			Options:       req.options(),
		}
		if err := store.CreateTask(r.Context(), &t); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func UpdateTaskHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "taskID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForTask(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req taskPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t := content.Task{
			ID:            id,
			Title:         req.Title,
			Description:   req.Description,
			Type:          content.TaskType(req.Type),
			Language:      req.Language,
			CorrectOutput: req.CorrectOutput,
			StartCode:     req.StartCode,
			Options:       req.options(),
		}
		if err := store.UpdateTask(r.Context(), t); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "task updated"})
	}
}

func DeleteTaskHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "taskID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForTask(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		if err := store.DeleteTask(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
	}
}

func ReorderTaskHandler(store *content.SQLStore) http.HandlerFunc {
	return reorderHandler(store, "taskID", courseIDForTask, store.ReorderTask)
}

// CheckTaskHandler grades a submission and reports the advancement
// outcome. The submission body is passed through untouched; its shape is
// owned by the per-type evaluation strategy.
func CheckTaskHandler(svc *progress.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		taskID, err := idParam(r, "taskID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxCheckBytes))
		if err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		res, err := svc.CheckAndAdvance(r.Context(), ident.UserID, taskID, json.RawMessage(body))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
