package progress_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/grading"
	"github.com/educode-dev/educode-backend/internal/judge"
	"github.com/educode-dev/educode-backend/internal/progress"
)

/* ---------------- in-memory fakes for ContentStore and Store ---------------- */

type fakeTree struct {
	courses map[int64]content.Course
	modules map[int64]content.Module
	lessons map[int64]content.Lesson
	tasks   map[int64]content.Task
}

func (f *fakeTree) GetCourse(_ context.Context, id int64) (content.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return content.Course{}, content.ErrNotFound
	}
	return c, nil
}

func (f *fakeTree) ListCourseModules(_ context.Context, courseID int64) ([]content.Module, error) {
	var out []content.Module
	for _, m := range f.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sortByOrderModules(out)
	return out, nil
}

func (f *fakeTree) GetModule(_ context.Context, id int64) (content.Module, error) {
	m, ok := f.modules[id]
	if !ok {
		return content.Module{}, content.ErrNotFound
	}
	return m, nil
}

func (f *fakeTree) ListModuleLessons(_ context.Context, moduleID int64) ([]content.Lesson, error) {
	var out []content.Lesson
	for _, l := range f.lessons {
		if l.ModuleID == moduleID {
			out = append(out, l)
		}
	}
	sortByOrderLessons(out)
	return out, nil
}

func (f *fakeTree) GetLesson(_ context.Context, id int64) (content.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return content.Lesson{}, content.ErrNotFound
	}
	return l, nil
}

func (f *fakeTree) ListLessonTasks(_ context.Context, lessonID int64) ([]content.Task, error) {
	var out []content.Task
	for _, t := range f.tasks {
		if t.LessonID == lessonID {
			out = append(out, t)
		}
	}
	sortByOrderTasks(out)
	return out, nil
}

func (f *fakeTree) GetTask(_ context.Context, id int64) (content.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return content.Task{}, content.ErrNotFound
	}
	return t, nil
}

func sortByOrderModules(s []content.Module) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Order > s[j].Order; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortByOrderLessons(s []content.Lesson) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Order > s[j].Order; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortByOrderTasks(s []content.Task) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Order > s[j].Order; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

type fakeProgressStore struct {
	rows    map[[2]int64]*progress.Progress
	nextID  int64
	locks   int
	creates int
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: map[[2]int64]*progress.Progress{}}
}

func (f *fakeProgressStore) Get(_ context.Context, userID, courseID int64) (progress.Progress, error) {
	p, ok := f.rows[[2]int64{userID, courseID}]
	if !ok {
		return progress.Progress{}, progress.ErrNotEnrolled
	}
	return *p, nil
}

func (f *fakeProgressStore) Create(_ context.Context, p *progress.Progress) error {
	k := [2]int64{p.UserID, p.CourseID}
	if _, ok := f.rows[k]; ok {
		return progress.ErrAlreadyEnrolled
	}
	f.nextID++
	f.creates++
	p.ID = f.nextID
	cp := *p
	f.rows[k] = &cp
	return nil
}

func (f *fakeProgressStore) List(_ context.Context, userID int64) ([]progress.View, error) {
	var out []progress.View
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, progress.View{Progress: *p})
		}
	}
	return out, nil
}

func (f *fakeProgressStore) WithLocked(_ context.Context, userID, courseID int64, fn func(p *progress.Progress) error) error {
	f.locks++
	p, ok := f.rows[[2]int64{userID, courseID}]
	if !ok {
		return progress.ErrNotEnrolled
	}
	return fn(p)
}

type stubRunner struct{}

func (stubRunner) Execute(string, int) judge.Result { return judge.Result{} }

/* ---------------- fixture ----------------

Course 1:
  module 1 (order 0): lesson 100 (order 0) with tasks 1000,1001
                      lesson 101 (order 1) with task  1010
  module 2 (order 1): lesson 200 (order 0) with task  2000
All tasks are text tasks whose correct answer is "ok".
*/

func textTask(id, lessonID int64, order int) content.Task {
	return content.Task{ID: id, LessonID: lessonID, Order: order, Type: content.TaskText, CorrectOutput: "ok"}
}

func newFixture() *fakeTree {
	return &fakeTree{
		courses: map[int64]content.Course{
			1: {ID: 1, Title: "Go Basics"},
		},
		modules: map[int64]content.Module{
			1: {ID: 1, CourseID: 1, Order: 0},
			2: {ID: 2, CourseID: 1, Order: 1},
		},
		lessons: map[int64]content.Lesson{
			100: {ID: 100, ModuleID: 1, Order: 0},
			101: {ID: 101, ModuleID: 1, Order: 1},
			200: {ID: 200, ModuleID: 2, Order: 0},
		},
		tasks: map[int64]content.Task{
			1000: textTask(1000, 100, 0),
			1001: textTask(1001, 100, 1),
			1010: textTask(1010, 101, 0),
			2000: textTask(2000, 200, 0),
		},
	}
}

func newService(tree *fakeTree, store *fakeProgressStore) *progress.Service {
	return progress.NewService(tree, store, grading.NewEvaluator(stubRunner{}), nil, nil)
}

func enroll(t *testing.T, svc *progress.Service, userID int64) progress.Progress {
	t.Helper()
	p, err := svc.Enroll(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	return p
}

func check(t *testing.T, svc *progress.Service, userID, taskID int64, answer string) progress.CheckResult {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"answer": answer})
	res, err := svc.CheckAndAdvance(context.Background(), userID, taskID, payload)
	if err != nil {
		t.Fatalf("check task %d: %v", taskID, err)
	}
	return res
}

/* ---------------- tests ---------------- */

func TestEnrollPointsAtFirstLesson(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)

	p := enroll(t, svc, 7)
	if p.LessonID != 100 {
		t.Fatalf("lesson = %d, want 100", p.LessonID)
	}
	if p.CompletedLessonsCount != 0 || p.IsCompleted {
		t.Fatalf("fresh enrollment mutated: %+v", p)
	}
}

func TestEnrollTwiceRejected(t *testing.T) {
	svc := newService(newFixture(), newFakeProgressStore())
	enroll(t, svc, 7)
	if _, err := svc.Enroll(context.Background(), 7, 1); !errors.Is(err, progress.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollEmptyCourse(t *testing.T) {
	tree := newFixture()
	tree.courses[2] = content.Course{ID: 2}
	svc := newService(tree, newFakeProgressStore())
	if _, err := svc.Enroll(context.Background(), 7, 2); !errors.Is(err, progress.ErrCourseEmpty) {
		t.Fatalf("expected ErrCourseEmpty, got %v", err)
	}
}

func TestWrongAnswerDoesNotAdvance(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)
	enroll(t, svc, 7)

	res := check(t, svc, 7, 1001, "nope")
	if res.Correct {
		t.Fatalf("expected incorrect")
	}
	if res.NextLessonID != progress.NextLessonNone {
		t.Fatalf("next = %d, want %d", res.NextLessonID, progress.NextLessonNone)
	}
	if store.locks != 0 {
		t.Fatalf("wrong answer must not touch the enrollment row")
	}
}

func TestCorrectButNotLastTask(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)
	enroll(t, svc, 7)

	res := check(t, svc, 7, 1000, "ok")
	if !res.Correct {
		t.Fatalf("expected correct")
	}
	if res.NextLessonID != progress.NextLessonNone {
		t.Fatalf("next = %d, want %d", res.NextLessonID, progress.NextLessonNone)
	}
	if store.locks != 0 {
		t.Fatalf("non-final task must not touch the enrollment row")
	}
}

func TestLastTaskAdvancesToNextLesson(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)
	enroll(t, svc, 7)

	res := check(t, svc, 7, 1001, "ok")
	if res.NextLessonID != 101 {
		t.Fatalf("next = %d, want 101", res.NextLessonID)
	}
	p, _ := store.Get(context.Background(), 7, 1)
	if p.LessonID != 101 {
		t.Fatalf("pointer = %d, want 101", p.LessonID)
	}
	if p.CompletedLessonsCount != 1 {
		t.Fatalf("completed = %d, want 1", p.CompletedLessonsCount)
	}
}

func TestModuleBoundaryAdvancesToNextModule(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)
	enroll(t, svc, 7)

	res := check(t, svc, 7, 1010, "ok")
	if res.NextLessonID != 200 {
		t.Fatalf("next = %d, want 200 (first lesson of next module)", res.NextLessonID)
	}
}

func TestCourseCompletion(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)
	enroll(t, svc, 7)

	res := check(t, svc, 7, 2000, "ok")
	if res.NextLessonID != progress.NextLessonCourseDone {
		t.Fatalf("next = %d, want %d", res.NextLessonID, progress.NextLessonCourseDone)
	}
	p, _ := store.Get(context.Background(), 7, 1)
	if !p.IsCompleted {
		t.Fatalf("expected is_completed")
	}
}

// Re-submitting the final task of a lesson advances again: the counter is
// deliberately not idempotent.
func TestRecheckIncrementsCounterAgain(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)
	enroll(t, svc, 7)

	check(t, svc, 7, 1001, "ok")
	check(t, svc, 7, 1001, "ok")

	p, _ := store.Get(context.Background(), 7, 1)
	if p.CompletedLessonsCount != 2 {
		t.Fatalf("completed = %d, want 2", p.CompletedLessonsCount)
	}
}

func TestAdvanceWithoutEnrollmentIsSilent(t *testing.T) {
	store := newFakeProgressStore()
	svc := newService(newFixture(), store)

	res := check(t, svc, 99, 1001, "ok")
	if !res.Correct {
		t.Fatalf("expected correct verdict")
	}
	if res.NextLessonID != progress.NextLessonNone {
		t.Fatalf("next = %d, want %d", res.NextLessonID, progress.NextLessonNone)
	}
}

func TestLessonOrderGapIsSilent(t *testing.T) {
	tree := newFixture()
	// knock lesson 101 out of sequence: the walk finds no lesson at order 1
	l := tree.lessons[101]
	l.Order = 5
	tree.lessons[101] = l

	store := newFakeProgressStore()
	svc := newService(tree, store)
	enroll(t, svc, 7)

	res := check(t, svc, 7, 1001, "ok")
	if res.NextLessonID != progress.NextLessonNone {
		t.Fatalf("next = %d, want %d", res.NextLessonID, progress.NextLessonNone)
	}
	p, _ := store.Get(context.Background(), 7, 1)
	if p.CompletedLessonsCount != 0 {
		t.Fatalf("gap must not mutate progress, completed = %d", p.CompletedLessonsCount)
	}
}
