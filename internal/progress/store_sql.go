package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotEnrolled is returned when no enrollment row exists for (user, course).
var ErrNotEnrolled = errors.New("not enrolled")

// ErrAlreadyEnrolled is returned by Create for a duplicate (user, course) pair.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// Store persists enrollment rows. WithLocked is the only mutation path
// used during advancement.
type Store interface {
	Get(ctx context.Context, userID, courseID int64) (Progress, error)
	Create(ctx context.Context, p *Progress) error
	List(ctx context.Context, userID int64) ([]View, error)
	// WithLocked loads the enrollment row under a row lock, applies fn and
	// writes the result back, all in one transaction.
	WithLocked(ctx context.Context, userID, courseID int64, fn func(p *Progress) error) error
}

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Get(ctx context.Context, userID, courseID int64) (Progress, error) {
	return scanProgress(s.db.QueryRowContext(ctx,
		`SELECT id,user_id,course_id,lesson_id,is_completed,completed_lessons_count,last_viewed_at
		 FROM user_progress WHERE user_id=$1 AND course_id=$2`, userID, courseID))
}

func (s *SQLStore) Create(ctx context.Context, p *Progress) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM user_progress WHERE user_id=$1 AND course_id=$2`, p.UserID, p.CourseID).Scan(&exists)
	if err == nil {
		return ErrAlreadyEnrolled
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	var lastViewed any
	if p.LastViewedAt != 0 {
		lastViewed = p.LastViewedAt
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO user_progress (user_id,course_id,lesson_id,is_completed,completed_lessons_count,last_viewed_at)
		 VALUES ($1,$2,$3,$4,0,$5) RETURNING id`,
		p.UserID, p.CourseID, p.LessonID, p.IsCompleted, lastViewed).Scan(&p.ID)
	if err != nil {
		// unique (user_id, course_id) backstop for concurrent enrolls
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, userID int64) ([]View, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id,p.user_id,p.course_id,p.lesson_id,p.is_completed,p.completed_lessons_count,
		        COALESCE(p.last_viewed_at,0),c.title,c.total_lessons_count
		 FROM user_progress p JOIN courses c ON c.id=p.course_id
		 WHERE p.user_id=$1 ORDER BY p.last_viewed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []View
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.UserID, &v.CourseID, &v.LessonID, &v.IsCompleted,
			&v.CompletedLessonsCount, &v.LastViewedAt, &v.CourseTitle, &v.TotalLessonsCount); err != nil {
			return nil, err
		}
		if v.TotalLessonsCount > 0 {
			v.ProgressPercent = 100 * float64(v.CompletedLessonsCount) / float64(v.TotalLessonsCount)
			if v.ProgressPercent > 100 {
				v.ProgressPercent = 100
			}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) WithLocked(ctx context.Context, userID, courseID int64, fn func(p *Progress) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := `SELECT id,user_id,course_id,lesson_id,is_completed,completed_lessons_count,last_viewed_at
	      FROM user_progress WHERE user_id=$1 AND course_id=$2`
	if s.driver == "postgres" {
		// sqlite serializes writers on its own
		q += ` FOR UPDATE`
	}
	p, err := scanProgress(tx.QueryRowContext(ctx, q, userID, courseID))
	if err != nil {
		return err
	}
	if err := fn(&p); err != nil {
		return err
	}

	var lastViewed any
	if p.LastViewedAt != 0 {
		lastViewed = p.LastViewedAt
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE user_progress SET lesson_id=$1, is_completed=$2, completed_lessons_count=$3, last_viewed_at=$4 WHERE id=$5`,
		p.LessonID, p.IsCompleted, p.CompletedLessonsCount, lastViewed, p.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (Progress, error) {
	var p Progress
	var lastViewed sql.NullInt64
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.LessonID, &p.IsCompleted,
		&p.CompletedLessonsCount, &lastViewed)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{}, ErrNotEnrolled
	}
	if err != nil {
		return Progress{}, err
	}
	p.LastViewedAt = lastViewed.Int64
	return p, nil
}
