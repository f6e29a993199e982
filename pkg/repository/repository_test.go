package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/finsight/pkg/pagination"
	"github.com/JaimeStill/finsight/pkg/query"
	"github.com/JaimeStill/finsight/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
	errReference = errors.New("reference")
	errInvalid   = errors.New("invalid")
)

func TestErrorsMap(t *testing.T) {
	full := repository.Errors{
		NotFound:  errNotFound,
		Duplicate: errDuplicate,
		Reference: errReference,
		Invalid:   errInvalid,
	}
	other := errors.New("connection reset")

	tests := []struct {
		name string
		errs repository.Errors
		in   error
		want error
	}{
		{"nil", full, nil, nil},
		{"no rows", full, sql.ErrNoRows, errNotFound},
		{"wrapped no rows", full, fmt.Errorf("update: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", full, &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", full, &pgconn.PgError{Code: "23503"}, errReference},
		{"check violation", full, &pgconn.PgError{Code: "23514"}, errInvalid},
		{"not null violation", full, &pgconn.PgError{Code: "23502"}, errInvalid},
		{"other pg error", full, &pgconn.PgError{Code: "40001"}, nil},
		{"passthrough", full, other, other},
		{"unset sentinel", repository.Errors{NotFound: errNotFound}, &pgconn.PgError{Code: "23505"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.errs.Map(tt.in)
			if tt.in == nil {
				if got != nil {
					t.Errorf("Map(nil) = %v, want nil", got)
				}
				return
			}
			if tt.want == nil {
				if got != tt.in {
					t.Errorf("Map() = %v, want original %v", got, tt.in)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("Map() = %v, want %v", got, tt.want)
			}
		})
	}
}

type alert struct {
	ID       int
	Severity string
}

func scanAlert(s repository.Scanner) (alert, error) {
	var a alert
	err := s.Scan(&a.ID, &a.Severity)
	return a, err
}

var projection = query.NewProjectionMap("main", "alerts", "a").
	Project("id", "ID").
	Project("severity", "Severity")

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE alerts (id INTEGER PRIMARY KEY, severity TEXT NOT NULL)`); err != nil {
		t.Fatalf("schema: %v", err)
	}
	for i, sev := range []string{"low", "high", "critical", "high", "medium"} {
		if _, err := db.Exec("INSERT INTO alerts(id, severity) VALUES ($1, $2)", i+1, sev); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func TestQueryPage(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	qb := query.NewBuilder(projection, query.SortField{Field: "ID"})
	result, err := repository.QueryPage(ctx, db, qb, pagination.PageRequest{Page: 2, PageSize: 2}, scanAlert)
	if err != nil {
		t.Fatalf("QueryPage: %v", err)
	}

	if result.Total != 5 || result.TotalPages != 3 {
		t.Errorf("Total = %d, TotalPages = %d, want 5, 3", result.Total, result.TotalPages)
	}
	if len(result.Data) != 2 || result.Data[0].ID != 3 || result.Data[1].ID != 4 {
		t.Errorf("Data = %v, want ids 3 and 4", result.Data)
	}

	filtered := query.NewBuilder(projection, query.SortField{Field: "ID"}).WhereEquals("Severity", "high")
	result, err = repository.QueryPage(ctx, db, filtered, pagination.PageRequest{Page: 1, PageSize: 10}, scanAlert)
	if err != nil {
		t.Fatalf("QueryPage filtered: %v", err)
	}
	if result.Total != 2 || len(result.Data) != 2 {
		t.Errorf("filtered Total = %d, len = %d, want 2, 2", result.Total, len(result.Data))
	}
}

func TestQueryManyEmpty(t *testing.T) {
	db := openDB(t)

	items, err := repository.QueryMany(context.Background(), db,
		"SELECT id, severity FROM alerts WHERE severity = $1", []any{"none"}, scanAlert)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("QueryMany() = %#v, want empty non-nil slice", items)
	}
}

func TestQueryOneNoRows(t *testing.T) {
	db := openDB(t)

	_, err := repository.QueryOne(context.Background(), db,
		"SELECT id, severity FROM alerts WHERE id = $1", []any{99}, scanAlert)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("QueryOne() error = %v, want sql.ErrNoRows", err)
	}
}

func TestWithTx(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(ctx, tx, "DELETE FROM alerts WHERE id = $1", 1); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, errors.New("abort")
	})
	if err == nil {
		t.Fatal("WithTx() error = nil, want abort")
	}

	n, err := repository.Count(ctx, db, "SELECT COUNT(*) FROM alerts", nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 5 {
		t.Errorf("rollback left %d rows, want 5", n)
	}

	deleted, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (int, error) {
		return 1, repository.ExecExpectOne(ctx, tx, "DELETE FROM alerts WHERE id = $1", 1)
	})
	if err != nil || deleted != 1 {
		t.Fatalf("WithTx() = %d, %v", deleted, err)
	}

	n, _ = repository.Count(ctx, db, "SELECT COUNT(*) FROM alerts", nil)
	if n != 4 {
		t.Errorf("commit left %d rows, want 4", n)
	}
}

func TestExecExpectOneNoRows(t *testing.T) {
	db := openDB(t)

	err := repository.ExecExpectOne(context.Background(), db, "DELETE FROM alerts WHERE id = $1", 42)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ExecExpectOne() error = %v, want sql.ErrNoRows", err)
	}
}
