package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/educode-dev/educode-backend/internal/auth"
	"github.com/educode-dev/educode-backend/internal/content"
)

var (
	errUnauthorized = errors.New("unauthorized")
	errForbidden    = errors.New("access denied")
)

// requireCourseOwner allows the course creator and admins through.
func requireCourseOwner(r *http.Request, store *content.SQLStore, courseID int64) error {
	ident, ok := identity(r)
	if !ok {
		return errUnauthorized
	}
	if ident.Role == auth.RoleAdmin {
		return nil
	}
	c, err := store.GetCourse(r.Context(), courseID)
	if err != nil {
		return err
	}
	if c.CreatedBy != ident.UserID {
		return errForbidden
	}
	return nil
}

// requireArticleAuthor allows the article author and admins through.
func requireArticleAuthor(r *http.Request, store *content.SQLStore, articleID int64) error {
	ident, ok := identity(r)
	if !ok {
		return errUnauthorized
	}
	if ident.Role == auth.RoleAdmin {
		return nil
	}
	a, err := store.GetArticle(r.Context(), articleID)
	if err != nil {
		return err
	}
	if a.AuthorID != ident.UserID {
		return errForbidden
	}
	return nil
}

// Resolution helpers walk child entities up to their course.

func courseIDForModule(ctx context.Context, store *content.SQLStore, moduleID int64) (int64, error) {
	m, err := store.GetModule(ctx, moduleID)
	if err != nil {
		return 0, err
	}
	return m.CourseID, nil
}

func courseIDForLesson(ctx context.Context, store *content.SQLStore, lessonID int64) (int64, error) {
	l, err := store.GetLesson(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	return courseIDForModule(ctx, store, l.ModuleID)
}

func courseIDForTask(ctx context.Context, store *content.SQLStore, taskID int64) (int64, error) {
	t, err := store.GetTask(ctx, taskID)
	if err != nil {
		return 0, err
	}
	return courseIDForLesson(ctx, store, t.LessonID)
}

func courseIDForOption(ctx context.Context, store *content.SQLStore, optionID int64) (int64, error) {
	o, err := store.GetOption(ctx, optionID)
	if err != nil {
		return 0, err
	}
	return courseIDForTask(ctx, store, o.TaskID)
}
