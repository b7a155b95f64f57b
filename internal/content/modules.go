package content

import (
	"context"
	"database/sql"
	"errors"
)

func (s *SQLStore) ListCourseModules(ctx context.Context, courseID int64) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,description,"order" FROM modules WHERE course_id=$1 ORDER BY "order" ASC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Order); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetModule(ctx context.Context, id int64) (Module, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,description,"order" FROM modules WHERE id=$1`, id)
	var m Module
	err := row.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return Module{}, notFound("module", id)
	}
	return m, err
}

func (s *SQLStore) CreateModule(ctx context.Context, m *Module) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		ord, err := nextOrder(ctx, tx, "modules", "course_id", m.CourseID)
		if err != nil {
			return err
		}
		m.Order = ord
		return tx.QueryRowContext(ctx,
			`INSERT INTO modules (course_id,title,description,"order") VALUES ($1,$2,$3,$4) RETURNING id`,
			m.CourseID, m.Title, m.Description, m.Order).Scan(&m.ID)
	})
}

func (s *SQLStore) UpdateModule(ctx context.Context, m Module) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE modules SET title=$1, description=$2 WHERE id=$3`, m.Title, m.Description, m.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "module", m.ID)
}

func (s *SQLStore) DeleteModule(ctx context.Context, id int64) error {
	var courseID int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var ord int
		row := tx.QueryRowContext(ctx, `SELECT course_id,"order" FROM modules WHERE id=$1`, id)
		if err := row.Scan(&courseID, &ord); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("module", id)
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM modules WHERE id=$1`, id); err != nil {
			return err
		}
		return compactAfterDelete(ctx, tx, "modules", "course_id", courseID, ord)
	})
	if err != nil {
		return err
	}
	return s.RecalcTotalLessons(ctx, courseID)
}
