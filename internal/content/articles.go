package content

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (s *SQLStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name FROM course_categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateCategory(ctx context.Context, c *Category) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO course_categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
}

func (s *SQLStore) ListArticles(ctx context.Context, limit, offset int) ([]Article, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,content,author_id,created_at,updated_at FROM articles
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetArticle(ctx context.Context, id int64) (Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,content,author_id,created_at,updated_at FROM articles WHERE id=$1`, id)
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, notFound("article", id)
	}
	return a, err
}

func (s *SQLStore) CreateArticle(ctx context.Context, a *Article) error {
	now := time.Now().Unix()
	a.CreatedAt, a.UpdatedAt = now, now
	return s.db.QueryRowContext(ctx,
		`INSERT INTO articles (title,content,author_id,created_at,updated_at) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		a.Title, a.Content, a.AuthorID, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
}

func (s *SQLStore) UpdateArticle(ctx context.Context, a Article) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET title=$1, content=$2, updated_at=$3 WHERE id=$4`,
		a.Title, a.Content, time.Now().Unix(), a.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "article", a.ID)
}

func (s *SQLStore) DeleteArticle(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "article", id)
}
