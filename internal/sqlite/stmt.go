package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Stmt is a prepared statement. Binds are 1-based, columns 0-based. A
// statement is executed lazily by the first Step after a Reset.
type Stmt struct {
	db    *DB
	query string
	st    *sql.Stmt
	args  []any

	rows   *sql.Rows
	cols   []string
	row    []any
	done   bool
	closed bool
}

// DB returns the database the statement was prepared on.
func (s *Stmt) DB() *DB {
	return s.db
}

// SQL returns the statement text.
func (s *Stmt) SQL() string {
	return s.query
}

// ParamCount returns the number of bindable parameters.
func (s *Stmt) ParamCount() int {
	return len(s.args)
}

// Bind sets parameter i (1-based). v may be nil, string, int64 or float64.
func (s *Stmt) Bind(i int, v any) error {
	if s.closed {
		return ErrClosed
	}
	if s.rows != nil || s.done {
		return ErrBusy
	}
	if i < 1 || i > len(s.args) {
		return fmt.Errorf("bind #%d: %w", i, ErrRange)
	}
	s.args[i-1] = v
	return nil
}

// Step advances the statement and returns Row when a result row is
// available or Done when execution has completed.
func (s *Stmt) Step(ctx context.Context) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.done {
		return Done, nil
	}
	if s.rows == nil {
		rows, err := s.st.QueryContext(ctx, s.args...)
		if err != nil {
			return 0, err
		}
		cols, err := rows.Columns()
		if err != nil {
			_ = rows.Close()
			return 0, err
		}
		s.rows, s.cols = rows, cols
	}

	if !s.rows.Next() {
		err := s.rows.Err()
		_ = s.rows.Close()
		s.rows, s.row, s.done = nil, nil, true
		if err != nil {
			return 0, err
		}
		return Done, nil
	}

	row := make([]any, len(s.cols))
	dest := make([]any, len(s.cols))
	for i := range row {
		dest[i] = &row[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return 0, err
	}
	s.row = row
	return Row, nil
}

// Reset rewinds the statement so the next Step re-executes it. Bindings
// are kept.
func (s *Stmt) Reset() error {
	if s.closed {
		return ErrClosed
	}
	var err error
	if s.rows != nil {
		err = s.rows.Close()
	}
	s.rows, s.row, s.done = nil, nil, false
	return err
}

// Finalize releases the statement.
func (s *Stmt) Finalize() error {
	if s.closed {
		return ErrClosed
	}
	s.db.forget(s)
	return s.finalize()
}

func (s *Stmt) finalize() error {
	s.closed = true
	if s.rows != nil {
		_ = s.rows.Close()
		s.rows = nil
	}
	s.row = nil
	return s.st.Close()
}

// ColumnCount returns the number of result columns. It is zero until the
// statement has been stepped.
func (s *Stmt) ColumnCount() int {
	return len(s.cols)
}

// ColumnName returns the name of column i.
func (s *Stmt) ColumnName(i int) (string, error) {
	if i < 0 || i >= len(s.cols) {
		return "", fmt.Errorf("column %d: %w", i, ErrRange)
	}
	return s.cols[i], nil
}

// Column returns the raw value of column i in the current row. NULL is nil.
func (s *Stmt) Column(i int) (any, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if i < 0 || i >= len(s.row) {
		return nil, fmt.Errorf("column %d: %w", i, ErrRange)
	}
	return s.row[i], nil
}

// ColumnText returns column i as text. NULL reports ok=false.
func (s *Stmt) ColumnText(i int) (text string, ok bool, err error) {
	v, err := s.Column(i)
	if err != nil || v == nil {
		return "", false, err
	}
	switch x := v.(type) {
	case string:
		return x, true, nil
	case []byte:
		return string(x), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true, nil
	default:
		return fmt.Sprint(x), true, nil
	}
}

// ColumnInt returns column i as an integer, converting the way the engine
// does: NULL is 0, reals are truncated, text is parsed as a leading number.
func (s *Stmt) ColumnInt(i int) (int64, error) {
	v, err := s.Column(i)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return int64(parseNumber(x)), nil
	case []byte:
		return int64(parseNumber(string(x))), nil
	default:
		return 0, nil
	}
}

// ColumnDouble returns column i as a real.
func (s *Stmt) ColumnDouble(i int) (float64, error) {
	v, err := s.Column(i)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return parseNumber(x), nil
	case []byte:
		return parseNumber(string(x)), nil
	default:
		return 0, nil
	}
}

// parseNumber parses the longest numeric prefix of s, or 0.
func parseNumber(s string) float64 {
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
	}
	return 0
}
