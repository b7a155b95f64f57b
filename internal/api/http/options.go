package http

import (
	"net/http"

	"github.com/educode-dev/educode-backend/internal/content"
)

func CreateOptionHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := idParam(r, "taskID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForTask(r.Context(), store, taskID)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req optionPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		o := content.TaskOption{TaskID: taskID, Text: req.Text, IsCorrect: req.IsCorrect}
		if err := store.CreateOption(r.Context(), &o); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, o)
	}
}

func UpdateOptionHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "optionID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForOption(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req optionPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		o := content.TaskOption{ID: id, Text: req.Text, IsCorrect: req.IsCorrect}
		if err := store.UpdateOption(r.Context(), o); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "option updated"})
	}
}

func DeleteOptionHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "optionID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForOption(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		if err := store.DeleteOption(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "option deleted"})
	}
}

func ReorderOptionHandler(store *content.SQLStore) http.HandlerFunc {
	return reorderHandler(store, "optionID", courseIDForOption, store.ReorderOption)
}
