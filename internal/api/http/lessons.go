package http

import (
	"net/http"

	"github.com/educode-dev/educode-backend/internal/content"
)

func ListLessonsHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID, err := idParam(r, "moduleID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lessons, err := store.ListModuleLessons(r.Context(), moduleID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"lessons": lessons})
	}
}

func GetLessonHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

type lessonPayload struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

func CreateLessonHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID, err := idParam(r, "moduleID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForModule(r.Context(), store, moduleID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req lessonPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		l := content.Lesson{
			ModuleID:        moduleID,
			Title:           req.Title,
			Description:     req.Description,
			DifficultyLevel: req.DifficultyLevel,
		}
		if err := store.CreateLesson(r.Context(), &l); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

func UpdateLessonHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForLesson(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req lessonPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		l := content.Lesson{
			ID:              id,
			Title:           req.Title,
			Description:     req.Description,
			DifficultyLevel: req.DifficultyLevel,
		}
		if err := store.UpdateLesson(r.Context(), l); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "lesson updated"})
	}
}

func DeleteLessonHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForLesson(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		if err := store.DeleteLesson(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "lesson deleted"})
	}
}

func ReorderLessonHandler(store *content.SQLStore) http.HandlerFunc {
	return reorderHandler(store, "lessonID", courseIDForLesson, store.ReorderLesson)
}
