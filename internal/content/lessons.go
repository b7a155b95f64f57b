package content

import (
	"context"
	"database/sql"
	"errors"
)

func (s *SQLStore) ListModuleLessons(ctx context.Context, moduleID int64) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,module_id,title,description,difficulty_level,"order" FROM lessons WHERE module_id=$1 ORDER BY "order" ASC`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Description, &l.DifficultyLevel, &l.Order); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,module_id,title,description,difficulty_level,"order" FROM lessons WHERE id=$1`, id)
	var l Lesson
	err := row.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Description, &l.DifficultyLevel, &l.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return Lesson{}, notFound("lesson", id)
	}
	return l, err
}

func (s *SQLStore) CreateLesson(ctx context.Context, l *Lesson) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ord, err := nextOrder(ctx, tx, "lessons", "module_id", l.ModuleID)
		if err != nil {
			return err
		}
		l.Order = ord
		return tx.QueryRowContext(ctx,
			`INSERT INTO lessons (module_id,title,description,difficulty_level,"order") VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			l.ModuleID, l.Title, l.Description, l.DifficultyLevel, l.Order).Scan(&l.ID)
	})
	if err != nil {
		return err
	}
	return s.recalcForModule(ctx, l.ModuleID)
}

func (s *SQLStore) UpdateLesson(ctx context.Context, l Lesson) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET title=$1, description=$2, difficulty_level=$3 WHERE id=$4`,
		l.Title, l.Description, l.DifficultyLevel, l.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "lesson", l.ID)
}

func (s *SQLStore) DeleteLesson(ctx context.Context, id int64) error {
	var moduleID int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var ord int
		row := tx.QueryRowContext(ctx, `SELECT module_id,"order" FROM lessons WHERE id=$1`, id)
		if err := row.Scan(&moduleID, &ord); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("lesson", id)
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id); err != nil {
			return err
		}
		return compactAfterDelete(ctx, tx, "lessons", "module_id", moduleID, ord)
	})
	if err != nil {
		return err
	}
	return s.recalcForModule(ctx, moduleID)
}

func (s *SQLStore) recalcForModule(ctx context.Context, moduleID int64) error {
	m, err := s.GetModule(ctx, moduleID)
	if err != nil {
		return err
	}
	return s.RecalcTotalLessons(ctx, m.CourseID)
}
