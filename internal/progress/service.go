// Package progress owns the enrollment record and moves a user's
// position through the module/lesson tree when answers are correct.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/educode-dev/educode-backend/internal/audit"
	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/grading"
)

// ErrCourseEmpty is returned by Enroll for a course without any lessons.
var ErrCourseEmpty = errors.New("course has no lessons")

// ContentStore is the read-only slice of the content tree the advancer
// needs. Satisfied by *content.SQLStore.
type ContentStore interface {
	GetCourse(ctx context.Context, id int64) (content.Course, error)
	ListCourseModules(ctx context.Context, courseID int64) ([]content.Module, error)
	GetModule(ctx context.Context, id int64) (content.Module, error)
	ListModuleLessons(ctx context.Context, moduleID int64) ([]content.Lesson, error)
	GetLesson(ctx context.Context, id int64) (content.Lesson, error)
	ListLessonTasks(ctx context.Context, lessonID int64) ([]content.Task, error)
	GetTask(ctx context.Context, id int64) (content.Task, error)
}

type Service struct {
	tree   ContentStore
	store  Store
	eval   *grading.Evaluator
	events *audit.EventLog
	log    *zap.Logger
}

func NewService(tree ContentStore, store Store, eval *grading.Evaluator, events *audit.EventLog, log *zap.Logger) *Service {
	return &Service{tree: tree, store: store, eval: eval, events: events, log: log}
}

// Enroll creates the enrollment record pointing at the first lesson of
// the first module. A second enroll for the same course is rejected.
func (s *Service) Enroll(ctx context.Context, userID, courseID int64) (Progress, error) {
	if _, err := s.tree.GetCourse(ctx, courseID); err != nil {
		return Progress{}, err
	}
	if _, err := s.store.Get(ctx, userID, courseID); err == nil {
		return Progress{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, ErrNotEnrolled) {
		return Progress{}, err
	}

	modules, err := s.tree.ListCourseModules(ctx, courseID)
	if err != nil {
		return Progress{}, err
	}
	if len(modules) == 0 {
		return Progress{}, ErrCourseEmpty
	}
	lessons, err := s.tree.ListModuleLessons(ctx, modules[0].ID)
	if err != nil {
		return Progress{}, err
	}
	if len(lessons) == 0 {
		return Progress{}, ErrCourseEmpty
	}

	p := Progress{
		UserID:       userID,
		CourseID:     courseID,
		LessonID:     lessons[0].ID,
		LastViewedAt: time.Now().Unix(),
	}
	if err := s.store.Create(ctx, &p); err != nil {
		return Progress{}, err
	}
	s.events.Append(ctx, audit.EventEnrolled, strconv.FormatInt(p.ID, 10), p)
	return p, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]View, error) {
	return s.store.List(ctx, userID)
}

// CheckAndAdvance evaluates a submission and, when it is correct, moves
// the user's enrollment pointer. NextLessonID carries the advancement
// outcome: a lesson id, NextLessonNone or NextLessonCourseDone.
func (s *Service) CheckAndAdvance(ctx context.Context, userID, taskID int64, payload json.RawMessage) (CheckResult, error) {
	task, err := s.tree.GetTask(ctx, taskID)
	if err != nil {
		return CheckResult{}, err
	}

	verdict, err := s.eval.Evaluate(task, payload)
	if err != nil {
		return CheckResult{}, err
	}

	res := CheckResult{
		Correct:       verdict.Correct,
		Output:        verdict.Output,
		ConsoleOutput: verdict.ConsoleOutput,
		Error:         verdict.Error,
		NextLessonID:  NextLessonNone,
	}
	if verdict.Correct {
		next, err := s.advance(ctx, userID, task)
		if err != nil {
			return CheckResult{}, err
		}
		res.NextLessonID = next
	}
	s.events.Append(ctx, audit.EventTaskChecked, strconv.FormatInt(taskID, 10), map[string]any{
		"user_id": userID, "task_id": taskID, "correct": res.Correct, "next_lesson_id": res.NextLessonID,
	})
	return res, nil
}

// advance implements the boundary walk for a correct answer. Task orders
// are dense and zero-based, so the last task is the one whose order is
// len(tasks)-1; the same convention holds for lessons and modules.
func (s *Service) advance(ctx context.Context, userID int64, task content.Task) (int64, error) {
	tasks, err := s.tree.ListLessonTasks(ctx, task.LessonID)
	if err != nil {
		return NextLessonNone, err
	}
	if task.Order != len(tasks)-1 {
		// sibling tasks remain in this lesson
		return NextLessonNone, nil
	}

	lesson, err := s.tree.GetLesson(ctx, task.LessonID)
	if err != nil {
		return NextLessonNone, err
	}
	module, err := s.tree.GetModule(ctx, lesson.ModuleID)
	if err != nil {
		return NextLessonNone, err
	}
	lessons, err := s.tree.ListModuleLessons(ctx, module.ID)
	if err != nil {
		return NextLessonNone, err
	}

	var nextLessonID int64
	courseDone := false

	if lesson.Order != len(lessons)-1 {
		next := lessonAtOrder(lessons, lesson.Order+1)
		if next == nil {
			s.warnGap(userID, "lesson order gap", zap.Int64("module_id", module.ID), zap.Int("after_order", lesson.Order))
			return NextLessonNone, nil
		}
		nextLessonID = next.ID
	} else {
		modules, err := s.tree.ListCourseModules(ctx, module.CourseID)
		if err != nil {
			return NextLessonNone, err
		}
		nextModule := moduleAtOrder(modules, module.Order+1)
		switch {
		case nextModule != nil:
			nextLessons, err := s.tree.ListModuleLessons(ctx, nextModule.ID)
			if err != nil {
				return NextLessonNone, err
			}
			first := lessonAtOrder(nextLessons, 0)
			if first == nil {
				s.warnGap(userID, "next module has no lessons", zap.Int64("module_id", nextModule.ID))
				return NextLessonNone, nil
			}
			nextLessonID = first.ID
		default:
			courseDone = true
		}
	}

	now := time.Now().Unix()
	err = s.store.WithLocked(ctx, userID, module.CourseID, func(p *Progress) error {
		p.CompletedLessonsCount++
		p.LastViewedAt = now
		if courseDone {
			p.IsCompleted = true
		} else {
			p.LessonID = nextLessonID
		}
		return nil
	})
	if errors.Is(err, ErrNotEnrolled) {
		s.warnGap(userID, "advancement without enrollment", zap.Int64("course_id", module.CourseID))
		return NextLessonNone, nil
	}
	if err != nil {
		return NextLessonNone, fmt.Errorf("advance progress: %w", err)
	}

	if courseDone {
		s.events.Append(ctx, audit.EventCourseCompleted, strconv.FormatInt(module.CourseID, 10), map[string]any{
			"user_id": userID, "course_id": module.CourseID,
		})
		return NextLessonCourseDone, nil
	}
	return nextLessonID, nil
}

// Data-integrity gaps stay non-fatal (the caller just sees no
// advancement) but are logged so they do not pass unnoticed.
func (s *Service) warnGap(userID int64, msg string, fields ...zap.Field) {
	if s.log == nil {
		return
	}
	s.log.Warn(msg, append([]zap.Field{zap.Int64("user_id", userID)}, fields...)...)
}

func lessonAtOrder(lessons []content.Lesson, order int) *content.Lesson {
	for i := range lessons {
		if lessons[i].Order == order {
			return &lessons[i]
		}
	}
	return nil
}

func moduleAtOrder(modules []content.Module, order int) *content.Module {
	for i := range modules {
		if modules[i].Order == order {
			return &modules[i]
		}
	}
	return nil
}
