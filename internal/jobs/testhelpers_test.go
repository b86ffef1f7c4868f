package jobs

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubSQL routes each statement to a scripted response, keyed by the query
// constant itself.
type stubSQL struct {
	mu       sync.Mutex
	queryRow func(query string, args ...any) pgx.Row
	exec     func(query string, args ...any) (pgconn.CommandTag, error)
	query    func(query string, args ...any) (pgx.Rows, error)
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
	if s.query == nil {
		return &stringRows{}, nil
	}
	return s.query(query, args...)
}

// simpleRow adapts a scan function to pgx.Row; a nil function scans as no
// rows.
type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// scanInto builds a scan function that copies vals into the destinations
// positionally, converting to the destination type where needed.
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

// stringRows serves a fixed list of single-column string rows.
type stringRows struct {
	values []string
	pos    int
}

func (r *stringRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *stringRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return fmt.Errorf("expected 1 destination, got %d", len(dest))
	}
	p, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("expected *string destination, got %T", dest[0])
	}
	*p = r.values[r.pos-1]
	return nil
}

func (r *stringRows) Close()     {}
func (r *stringRows) Err() error { return nil }

func (r *stringRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *stringRows) Conn() *pgx.Conn { return nil }

func (r *stringRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *stringRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *stringRows) RawValues() [][]byte { return nil }
