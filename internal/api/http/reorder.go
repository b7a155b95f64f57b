package http

import (
	"context"
	"net/http"

	"github.com/educode-dev/educode-backend/internal/content"
)

type reorderPayload struct {
	NewOrder *int `json:"new_order" validate:"required,gte=0"`
}

// reorderHandler is shared by the module/lesson/task/option reorder
// routes: same ownership walk, same payload, same no-change reporting.
func reorderHandler(
	store *content.SQLStore,
	param string,
	resolveCourse func(ctx context.Context, store *content.SQLStore, id int64) (int64, error),
	move func(ctx context.Context, id int64, newOrder int) (bool, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, param)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		courseID, err := resolveCourse(r.Context(), store, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := requireCourseOwner(r, store, courseID); err != nil {
			writeError(w, err)
			return
		}
		var req reorderPayload
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		moved, err := move(r.Context(), id, *req.NewOrder)
		if err != nil {
			writeError(w, err)
			return
		}
		if !moved {
			writeJSON(w, http.StatusOK, map[string]string{"message": "no change"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "reordered"})
	}
}
