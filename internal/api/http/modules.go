package http

import (
	"net/http"

	"github.com/educode-dev/educode-backend/internal/content"
)

func ListModulesHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		modules, err := store.ListCourseModules(r.Context(), courseID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
	}
}

type modulePayload struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func CreateModuleHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req modulePayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m := content.Module{CourseID: courseID, Title: req.Title, Description: req.Description}
		if err := store.CreateModule(r.Context(), &m); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func UpdateModuleHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "moduleID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForModule(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req modulePayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m := content.Module{ID: id, Title: req.Title, Description: req.Description}
		if err := store.UpdateModule(r.Context(), m); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "module updated"})
	}
}

func DeleteModuleHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "moduleID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := courseIDForModule(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		if err := store.DeleteModule(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "module deleted"})
	}
}

func ReorderModuleHandler(store *content.SQLStore) http.HandlerFunc {
	return reorderHandler(store, "moduleID", courseIDForModule, store.ReorderModule)
}
