package progress

// Sentinel values returned in place of a concrete next-lesson id.
const (
	// NextLessonNone means no advancement happened: the answer was wrong,
	// the task was not the last in its lesson, or the tree had a gap.
	NextLessonNone int64 = -1
	// NextLessonCourseDone means the whole course was just completed.
	NextLessonCourseDone int64 = -2
)

// Progress is the enrollment record: one row per (user, course).
type Progress struct {
	ID                    int64 `json:"id"`
	UserID                int64 `json:"user_id"`
	CourseID              int64 `json:"course_id"`
	LessonID              int64 `json:"lesson_id"` // the lesson the user should see next
	IsCompleted           bool  `json:"is_completed"`
	CompletedLessonsCount int   `json:"completed_lessons_count"`
	LastViewedAt          int64 `json:"last_viewed_at,omitempty"`
}

// View is a listing row joined with course info for the dashboard.
type View struct {
	Progress
	CourseTitle       string  `json:"course_title"`
	TotalLessonsCount int     `json:"total_lessons_count"`
	ProgressPercent   float64 `json:"progress_percent"`
}

// CheckResult is what a submission check returns to the client: the
// verdict, code diagnostics when applicable, and where to go next.
type CheckResult struct {
	Correct       bool   `json:"correct"`
	Output        string `json:"output,omitempty"`
	ConsoleOutput string `json:"console,omitempty"`
	Error         string `json:"error,omitempty"`
	NextLessonID  int64  `json:"next_lesson_id"`
}
