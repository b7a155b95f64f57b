package content_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/educode-dev/educode-backend/internal/content"
	"github.com/educode-dev/educode-backend/internal/db"
)

func newTestStore(t *testing.T) (*content.SQLStore, *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return content.NewSQLStore(dbh, "sqlite"), dbh
}

// seedCourse creates an author, a course and n modules, returning the
// course and module ids in creation order.
func seedCourse(t *testing.T, store *content.SQLStore, dbh *sql.DB, n int) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	c := content.Course{Title: "Course", CreatedBy: seedUser(t, dbh)}
	if err := store.CreateCourse(ctx, &c); err != nil {
		t.Fatalf("create course: %v", err)
	}
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		m := content.Module{CourseID: c.ID, Title: "Module"}
		if err := store.CreateModule(ctx, &m); err != nil {
			t.Fatalf("create module: %v", err)
		}
		if m.Order != i {
			t.Fatalf("module %d created at order %d, want %d", i, m.Order, i)
		}
		ids = append(ids, m.ID)
	}
	return c.ID, ids
}

func seedUser(t *testing.T, dbh *sql.DB) int64 {
	t.Helper()
	var id int64
	err := dbh.QueryRowContext(context.Background(),
		`INSERT INTO users (email,name,password_hash,role,created_at) VALUES ($1,'t','x','author',0) RETURNING id`,
		t.Name()+"@example.com").Scan(&id)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func moduleOrders(t *testing.T, store *content.SQLStore, courseID int64, ids []int64) map[int64]int {
	t.Helper()
	modules, err := store.ListCourseModules(context.Background(), courseID)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(modules) != len(ids) {
		t.Fatalf("module count = %d, want %d", len(modules), len(ids))
	}
	out := map[int64]int{}
	seen := map[int]bool{}
	for _, m := range modules {
		if seen[m.Order] {
			t.Fatalf("duplicate order %d", m.Order)
		}
		seen[m.Order] = true
		out[m.ID] = m.Order
	}
	for i := 0; i < len(modules); i++ {
		if !seen[i] {
			t.Fatalf("order sequence has a hole at %d", i)
		}
	}
	return out
}

func TestReorderMoveDown(t *testing.T) {
	store, dbh := newTestStore(t)
	courseID, ids := seedCourse(t, store, dbh, 4)

	moved, err := store.ReorderModule(context.Background(), ids[0], 2)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if !moved {
		t.Fatalf("expected a move")
	}

	orders := moduleOrders(t, store, courseID, ids)
	want := map[int64]int{ids[0]: 2, ids[1]: 0, ids[2]: 1, ids[3]: 3}
	for id, w := range want {
		if orders[id] != w {
			t.Errorf("module %d order = %d, want %d", id, orders[id], w)
		}
	}
}

func TestReorderMoveUp(t *testing.T) {
	store, dbh := newTestStore(t)
	courseID, ids := seedCourse(t, store, dbh, 4)

	moved, err := store.ReorderModule(context.Background(), ids[3], 1)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if !moved {
		t.Fatalf("expected a move")
	}

	orders := moduleOrders(t, store, courseID, ids)
	want := map[int64]int{ids[0]: 0, ids[1]: 2, ids[2]: 3, ids[3]: 1}
	for id, w := range want {
		if orders[id] != w {
			t.Errorf("module %d order = %d, want %d", id, orders[id], w)
		}
	}
}

func TestReorderSamePositionIsNoop(t *testing.T) {
	store, dbh := newTestStore(t)
	courseID, ids := seedCourse(t, store, dbh, 3)

	moved, err := store.ReorderModule(context.Background(), ids[1], 1)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if moved {
		t.Fatalf("expected no move")
	}
	moduleOrders(t, store, courseID, ids)
}

func TestReorderOutOfRange(t *testing.T) {
	store, dbh := newTestStore(t)
	_, ids := seedCourse(t, store, dbh, 3)

	if _, err := store.ReorderModule(context.Background(), ids[0], 3); !errors.Is(err, content.ErrOrderOutOfRange) {
		t.Fatalf("expected ErrOrderOutOfRange, got %v", err)
	}
	if _, err := store.ReorderModule(context.Background(), ids[0], -1); !errors.Is(err, content.ErrOrderOutOfRange) {
		t.Fatalf("expected ErrOrderOutOfRange, got %v", err)
	}
}

func TestReorderUnknownID(t *testing.T) {
	store, dbh := newTestStore(t)
	seedCourse(t, store, dbh, 1)

	if _, err := store.ReorderModule(context.Background(), 9999, 0); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCompactsOrders(t *testing.T) {
	store, dbh := newTestStore(t)
	courseID, ids := seedCourse(t, store, dbh, 4)

	if err := store.DeleteModule(context.Background(), ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rest := []int64{ids[0], ids[2], ids[3]}
	orders := moduleOrders(t, store, courseID, rest)
	want := map[int64]int{ids[0]: 0, ids[2]: 1, ids[3]: 2}
	for id, w := range want {
		if orders[id] != w {
			t.Errorf("module %d order = %d, want %d", id, orders[id], w)
		}
	}
}
