package handlers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"bannerlab/internal/infra"
	"bannerlab/internal/jobs"
)

// stubSQL scripts responses per query constant and records every call.
type stubSQL struct {
	mu       sync.Mutex
	queryRow func(query string, args ...any) pgx.Row
	exec     func(query string, args ...any) (pgconn.CommandTag, error)
	calls    []sqlCall
}

type sqlCall struct {
	query string
	args  []any
}

func (s *stubSQL) record(query string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sqlCall{query: query, args: args})
}

func (s *stubSQL) callsFor(query string) []sqlCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sqlCall
	for _, c := range s.calls {
		if c.query == query {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.record(query, args)
	if s.exec == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return s.exec(query, args...)
}

func (s *stubSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.record(query, args)
	if s.queryRow == nil {
		return simpleRow{}
	}
	return s.queryRow(query, args...)
}

func (s *stubSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	s.record(query, args)
	return nil, fmt.Errorf("query not scripted for test")
}

var _ infra.SQLExecutor = (*stubSQL)(nil)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// scanInto copies vals into scan destinations positionally.
func scanInto(vals ...any) func(dest ...any) error {
	return func(dest ...any) error {
		if len(dest) != len(vals) {
			return fmt.Errorf("expected %d destinations, got %d", len(vals), len(dest))
		}
		for i, v := range vals {
			dv := reflect.ValueOf(dest[i]).Elem()
			sv := reflect.ValueOf(v)
			if !sv.Type().ConvertibleTo(dv.Type()) {
				return fmt.Errorf("cannot scan %T into %T", v, dest[i])
			}
			dv.Set(sv.Convert(dv.Type()))
		}
		return nil
	}
}

// memStore is an in-memory blob store for handler tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return m.URL(key), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) URL(key string) string {
	return "mem://" + key
}

func newTestApp(sql *stubSQL) *App {
	return NewApp(sql, &infra.Config{}, newMemStore(), jobs.NewDispatcher(sql, zerolog.Nop()), zerolog.Nop())
}
