package content

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type CourseFilter struct {
	Limit      int
	Offset     int
	CategoryID int64 // 0 means no filter
}

func (s *SQLStore) ListCourses(ctx context.Context, f CourseFilter) ([]Course, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	q := `SELECT id,title,description,difficulty,COALESCE(category_id,0),created_by,cover_path,is_visible,total_lessons_count,created_at,updated_at
	      FROM courses WHERE is_visible`
	args := []any{}
	if f.CategoryID != 0 {
		q += ` AND category_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, f.CategoryID, f.Limit, f.Offset)
	} else {
		q += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.CategoryID, &c.CreatedBy,
			&c.CoverPath, &c.IsVisible, &c.TotalLessonsCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetCourse(ctx context.Context, id int64) (Course, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,difficulty,COALESCE(category_id,0),created_by,cover_path,is_visible,total_lessons_count,created_at,updated_at
		 FROM courses WHERE id=$1`, id)
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.CategoryID, &c.CreatedBy,
		&c.CoverPath, &c.IsVisible, &c.TotalLessonsCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, notFound("course", id)
	}
	return c, err
}

func (s *SQLStore) CreateCourse(ctx context.Context, c *Course) error {
	now := time.Now().Unix()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Difficulty == "" {
		c.Difficulty = "beginner"
	}
	c.IsVisible = true
	var catID any
	if c.CategoryID != 0 {
		catID = c.CategoryID
	}
	return s.db.QueryRowContext(ctx,
		`INSERT INTO courses (title,description,difficulty,category_id,created_by,cover_path,is_visible,total_lessons_count,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,'',$6,0,$7,$8) RETURNING id`,
		c.Title, c.Description, c.Difficulty, catID, c.CreatedBy, c.IsVisible, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
}

func (s *SQLStore) UpdateCourse(ctx context.Context, c Course) error {
	var catID any
	if c.CategoryID != 0 {
		catID = c.CategoryID
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET title=$1, description=$2, difficulty=$3, category_id=$4, is_visible=$5, updated_at=$6 WHERE id=$7`,
		c.Title, c.Description, c.Difficulty, catID, c.IsVisible, time.Now().Unix(), c.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "course", c.ID)
}

func (s *SQLStore) SetCourseCover(ctx context.Context, id int64, coverPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET cover_path=$1, updated_at=$2 WHERE id=$3`, coverPath, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	return requireRow(res, "course", id)
}

func (s *SQLStore) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "course", id)
}

// RecalcTotalLessons recomputes the denormalized lesson counter from the
// tree instead of adjusting it incrementally, so it cannot drift.
func (s *SQLStore) RecalcTotalLessons(ctx context.Context, courseID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET total_lessons_count=(
		   SELECT COUNT(*) FROM lessons l JOIN modules m ON l.module_id=m.id WHERE m.course_id=$1
		 ), updated_at=$2 WHERE id=$1`, courseID, time.Now().Unix())
	if err != nil {
		return err
	}
	return requireRow(res, "course", courseID)
}

func requireRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}
