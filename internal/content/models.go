package content

type TaskType string

const (
	TaskQuiz TaskType = "quiz"
	TaskText TaskType = "text"
	TaskCode TaskType = "code"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskQuiz, TaskText, TaskCode:
		return true
	}
	return false
}

type Course struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Difficulty        string `json:"difficulty"` // beginner|intermediate|advanced
	CategoryID        int64  `json:"category_id,omitempty"`
	CreatedBy         int64  `json:"created_by"`
	CoverPath         string `json:"cover_path,omitempty"`
	IsVisible         bool   `json:"is_visible"`
	TotalLessonsCount int    `json:"total_lessons_count"`
	CreatedAt         int64  `json:"created_at"`
	UpdatedAt         int64  `json:"updated_at"`
}

type Module struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type Lesson struct {
	ID              int64  `json:"id"`
	ModuleID        int64  `json:"module_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DifficultyLevel string `json:"difficulty_level,omitempty"`
	Order           int    `json:"order"`
}

type Task struct {
	ID            int64        `json:"id"`
	LessonID      int64        `json:"lesson_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Type          TaskType     `json:"type"`
	Order         int          `json:"order"`
	Language      string       `json:"language,omitempty"`       // code tasks
	CorrectOutput string       `json:"correct_output,omitempty"` // text and code tasks
	StartCode     string       `json:"start_code,omitempty"`
	Options       []TaskOption `json:"options,omitempty"` // quiz tasks
}

type TaskOption struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"task_id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  int64  `json:"author_id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}
