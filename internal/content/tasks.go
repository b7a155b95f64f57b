package content

import (
	"context"
	"database/sql"
	"errors"
)

func (s *SQLStore) ListLessonTasks(ctx context.Context, lessonID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,lesson_id,title,description,type,"order",language,correct_output,start_code
		 FROM tasks WHERE lesson_id=$1 ORDER BY "order" ASC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.LessonID, &t.Title, &t.Description, &t.Type, &t.Order,
			&t.Language, &t.CorrectOutput, &t.StartCode); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Type != TaskQuiz {
			continue
		}
		opts, err := s.ListTaskOptions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Options = opts
	}
	return out, nil
}

func (s *SQLStore) GetTask(ctx context.Context, id int64) (Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,lesson_id,title,description,type,"order",language,correct_output,start_code
		 FROM tasks WHERE id=$1`, id)
	var t Task
	err := row.Scan(&t.ID, &t.LessonID, &t.Title, &t.Description, &t.Type, &t.Order,
		&t.Language, &t.CorrectOutput, &t.StartCode)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, notFound("task", id)
	}
	if err != nil {
		return Task{}, err
	}
	if t.Type == TaskQuiz {
		t.Options, err = s.ListTaskOptions(ctx, t.ID)
	}
	return t, err
}

// CreateTask inserts a task and its quiz options, appending at the end of
// the lesson's task sequence.
func (s *SQLStore) CreateTask(ctx context.Context, t *Task) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		ord, err := nextOrder(ctx, tx, "tasks", "lesson_id", t.LessonID)
		if err != nil {
			return err
		}
		t.Order = ord
		err = tx.QueryRowContext(ctx,
			`INSERT INTO tasks (lesson_id,title,description,type,"order",language,correct_output,start_code)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
			t.LessonID, t.Title, t.Description, t.Type, t.Order, t.Language, t.CorrectOutput, t.StartCode).Scan(&t.ID)
		if err != nil {
			return err
		}
		for i := range t.Options {
			t.Options[i].TaskID = t.ID
			t.Options[i].Order = i
			if err := insertOption(ctx, tx, &t.Options[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTask updates task fields; when options is non-nil the existing
// option set is replaced wholesale, mirroring how authors edit quizzes.
func (s *SQLStore) UpdateTask(ctx context.Context, t Task) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET title=$1, description=$2, type=$3, language=$4, correct_output=$5, start_code=$6 WHERE id=$7`,
			t.Title, t.Description, t.Type, t.Language, t.CorrectOutput, t.StartCode, t.ID)
		if err != nil {
			return err
		}
		if err := requireRow(res, "task", t.ID); err != nil {
			return err
		}
		if t.Options == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_options WHERE task_id=$1`, t.ID); err != nil {
			return err
		}
		for i := range t.Options {
			t.Options[i].TaskID = t.ID
			t.Options[i].Order = i
			if err := insertOption(ctx, tx, &t.Options[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) DeleteTask(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var lessonID int64
		var ord int
		row := tx.QueryRowContext(ctx, `SELECT lesson_id,"order" FROM tasks WHERE id=$1`, id)
		if err := row.Scan(&lessonID, &ord); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("task", id)
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id); err != nil {
			return err
		}
		return compactAfterDelete(ctx, tx, "tasks", "lesson_id", lessonID, ord)
	})
}

func (s *SQLStore) ListTaskOptions(ctx context.Context, taskID int64) ([]TaskOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,task_id,text,is_correct,"order" FROM task_options WHERE task_id=$1 ORDER BY "order" ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskOption
	for rows.Next() {
		var o TaskOption
		if err := rows.Scan(&o.ID, &o.TaskID, &o.Text, &o.IsCorrect, &o.Order); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetOption(ctx context.Context, id int64) (TaskOption, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,task_id,text,is_correct,"order" FROM task_options WHERE id=$1`, id)
	var o TaskOption
	err := row.Scan(&o.ID, &o.TaskID, &o.Text, &o.IsCorrect, &o.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskOption{}, notFound("option", id)
	}
	return o, err
}

func (s *SQLStore) CreateOption(ctx context.Context, o *TaskOption) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		ord, err := nextOrder(ctx, tx, "task_options", "task_id", o.TaskID)
		if err != nil {
			return err
		}
		o.Order = ord
		return insertOption(ctx, tx, o)
	})
}

func (s *SQLStore) UpdateOption(ctx context.Context, o TaskOption) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE task_options SET text=$1, is_correct=$2 WHERE id=$3`, o.Text, o.IsCorrect, o.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "option", o.ID)
}

func (s *SQLStore) DeleteOption(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var taskID int64
		var ord int
		row := tx.QueryRowContext(ctx, `SELECT task_id,"order" FROM task_options WHERE id=$1`, id)
		if err := row.Scan(&taskID, &ord); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("option", id)
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_options WHERE id=$1`, id); err != nil {
			return err
		}
		return compactAfterDelete(ctx, tx, "task_options", "task_id", taskID, ord)
	})
}

func insertOption(ctx context.Context, tx *sql.Tx, o *TaskOption) error {
	return tx.QueryRowContext(ctx,
		`INSERT INTO task_options (task_id,text,is_correct,"order") VALUES ($1,$2,$3,$4) RETURNING id`,
		o.TaskID, o.Text, o.IsCorrect, o.Order).Scan(&o.ID)
}
