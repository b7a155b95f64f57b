package http

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/educode-dev/educode-backend/internal/cache"
	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/storage"
)

const maxCoverBytes = 5 << 20

func ListCoursesHandler(store *content.SQLStore, catalog *cache.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := content.CourseFilter{
			Limit:      queryInt(r, "limit", 10),
			Offset:     queryInt(r, "offset", 0),
			CategoryID: int64(queryInt(r, "category", 0)),
		}
		if courses, ok := catalog.Get(r.Context(), f); ok {
			writeJSON(w, http.StatusOK, courses)
			return
		}
		courses, err := store.ListCourses(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}
		catalog.Set(r.Context(), f, courses)
		writeJSON(w, http.StatusOK, courses)
	}
}

func GetCourseHandler(store *content.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := store.GetCourse(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

type coursePayload struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	CategoryID  int64  `json:"category_id"`
}

func CreateCourseHandler(store *content.SQLStore, catalog *cache.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req coursePayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c := content.Course{
			Title:       req.Title,
			Description: req.Description,
			Difficulty:  req.Difficulty,
			CategoryID:  req.CategoryID,
			CreatedBy:   ident.UserID,
		}
		if err := store.CreateCourse(r.Context(), &c); err != nil {
			writeError(w, err)
			return
		}
		catalog.Invalidate(r.Context())
		writeJSON(w, http.StatusCreated, c)
	}
}

func UpdateCourseHandler(store *content.SQLStore, catalog *cache.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := requireCourseOwner(r, store, id); err != nil {
			writeError(w, err)
			return
		}
		var req coursePayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := store.GetCourse(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		c.Title = req.Title
		c.Description = req.Description
		if req.Difficulty != "" {
			c.Difficulty = req.Difficulty
		}
		c.CategoryID = req.CategoryID
		if err := store.UpdateCourse(r.Context(), c); err != nil {
			writeError(w, err)
			return
		}
		catalog.Invalidate(r.Context())
		writeJSON(w, http.StatusOK, c)
	}
}

func DeleteCourseHandler(store *content.SQLStore, catalog *cache.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := requireCourseOwner(r, store, id); err != nil {
			writeError(w, err)
			return
		}
		if err := store.DeleteCourse(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		catalog.Invalidate(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
	}
}

// UploadCoverHandler accepts multipart form data with a "cover" file.
func UploadCoverHandler(store *content.SQLStore, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := requireCourseOwner(r, store, id); err != nil {
			writeError(w, err)
			return
		}
		if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		file, hdr, err := r.FormFile("cover")
		if err != nil {
			http.Error(w, "cover file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		ext := filepath.Ext(hdr.Filename)
		switch ext {
		case ".png", ".jpg", ".jpeg", ".webp":
		default:
			http.Error(w, "unsupported cover format", http.StatusBadRequest)
			return
		}
		key := uuid.NewString() + ext
		if _, err := blobs.Put(key, io.LimitReader(file, maxCoverBytes)); err != nil {
			writeError(w, err)
			return
		}
		// drop the previous cover, if any
		if c, err := store.GetCourse(r.Context(), id); err == nil && c.CoverPath != "" {
			_ = blobs.Delete(c.CoverPath)
		}
		if err := store.SetCourseCover(r.Context(), id, key); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"cover_path": key})
	}
}

func GetCoverHandler(store *content.SQLStore, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "courseID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := store.GetCourse(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if c.CoverPath == "" {
			http.Error(w, "no cover", http.StatusNotFound)
			return
		}
		rc, err := blobs.Get(c.CoverPath)
		if err != nil {
			http.Error(w, "no cover", http.StatusNotFound)
			return
		}
		defer rc.Close()
		_, _ = io.Copy(w, rc)
	}
}
