package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Sibling order values are a dense zero-based sequence within a parent.
// A move shifts every sibling between the old and new position by one and
// then writes the item's new position, all in one transaction so an
// interrupted move can never leave duplicate or missing positions.

// ReorderModule moves a module within its course.
func (s *SQLStore) ReorderModule(ctx context.Context, moduleID int64, newOrder int) (bool, error) {
	return s.reorder(ctx, "modules", "course_id", "module", moduleID, newOrder)
}

// ReorderLesson moves a lesson within its module.
func (s *SQLStore) ReorderLesson(ctx context.Context, lessonID int64, newOrder int) (bool, error) {
	return s.reorder(ctx, "lessons", "module_id", "lesson", lessonID, newOrder)
}

// ReorderTask moves a task within its lesson.
func (s *SQLStore) ReorderTask(ctx context.Context, taskID int64, newOrder int) (bool, error) {
	return s.reorder(ctx, "tasks", "lesson_id", "task", taskID, newOrder)
}

// ReorderOption moves an option within its task.
func (s *SQLStore) ReorderOption(ctx context.Context, optionID int64, newOrder int) (bool, error) {
	return s.reorder(ctx, "task_options", "task_id", "option", optionID, newOrder)
}

// reorder reports whether anything moved. Table and column names come from
// the fixed call sites above, never from request input.
func (s *SQLStore) reorder(ctx context.Context, table, parentCol, entity string, id int64, newOrder int) (bool, error) {
	if newOrder < 0 {
		return false, ErrOrderOutOfRange
	}
	moved := false
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var parentID int64
		var oldOrder int
		q := fmt.Sprintf(`SELECT %s, "order" FROM %s WHERE id=$1`, parentCol, table)
		if err := tx.QueryRowContext(ctx, q, id).Scan(&parentID, &oldOrder); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound(entity, id)
			}
			return err
		}

		var count int
		q = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s=$1`, table, parentCol)
		if err := tx.QueryRowContext(ctx, q, parentID).Scan(&count); err != nil {
			return err
		}
		if newOrder >= count {
			return ErrOrderOutOfRange
		}
		if newOrder == oldOrder {
			return nil
		}

		if oldOrder < newOrder {
			q = fmt.Sprintf(`UPDATE %s SET "order"="order"-1 WHERE %s=$1 AND "order">$2 AND "order"<=$3`, table, parentCol)
			if _, err := tx.ExecContext(ctx, q, parentID, oldOrder, newOrder); err != nil {
				return err
			}
		} else {
			q = fmt.Sprintf(`UPDATE %s SET "order"="order"+1 WHERE %s=$1 AND "order">=$2 AND "order"<$3`, table, parentCol)
			if _, err := tx.ExecContext(ctx, q, parentID, newOrder, oldOrder); err != nil {
				return err
			}
		}

		q = fmt.Sprintf(`UPDATE %s SET "order"=$1 WHERE id=$2`, table)
		if _, err := tx.ExecContext(ctx, q, newOrder, id); err != nil {
			return err
		}
		moved = true
		return nil
	})
	return moved, err
}

// nextOrder returns the append position for a new sibling.
func nextOrder(ctx context.Context, tx *sql.Tx, table, parentCol string, parentID int64) (int, error) {
	var count int
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s=$1`, table, parentCol)
	err := tx.QueryRowContext(ctx, q, parentID).Scan(&count)
	return count, err
}

// compactAfterDelete closes the gap left by a removed sibling.
func compactAfterDelete(ctx context.Context, tx *sql.Tx, table, parentCol string, parentID int64, removedOrder int) error {
	q := fmt.Sprintf(`UPDATE %s SET "order"="order"-1 WHERE %s=$1 AND "order">$2`, table, parentCol)
	_, err := tx.ExecContext(ctx, q, parentID, removedOrder)
	return err
}
