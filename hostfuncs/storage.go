package hostfuncs

import (
	"context"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/internal/sqlite"
)

// StorageBundle returns the database engine capabilities. Handles issued
// here are tagged storage/sqlite3 (databases) and storage/sqlite3_stmt
// (prepared statements). Calls that return a result code return OK (0) on
// success and raise an error otherwise.
func StorageBundle(handles *HandleTable) Bundle {
	s := &storage{handles: handles}
	db := Param{Name: "db", Kind: KindHandle, Tag: entities.TagDatabase}
	stmt := Param{Name: "stmt", Kind: KindHandle, Tag: entities.TagStatement}
	idx := Param{Name: "index", Kind: KindInt}

	return staticBundle{
		storageCap("sqlite3_open", s.open, Param{Name: "path", Kind: KindString}),
		storageCap("sqlite3_close", s.close, db),
		storageCap("sqlite3_exec", s.exec, db, Param{Name: "sql", Kind: KindString}),
		storageCap("sqlite3_libversion", s.libversion),
		storageCap("sqlite3_prepare_v2", s.prepare, db, Param{Name: "sql", Kind: KindString}),
		storageCap("sqlite3_step", s.step, stmt),
		storageCap("sqlite3_finalize", s.finalize, stmt),
		storageCap("sqlite3_reset", s.reset, stmt),
		storageCap("sqlite3_column_text", s.columnText, stmt, idx),
		storageCap("sqlite3_column_int", s.columnInt, stmt, idx),
		storageCap("sqlite3_column_double", s.columnDouble, stmt, idx),
		storageCap("sqlite3_column_name", s.columnName, stmt, idx),
		storageCap("sqlite3_column_count", s.columnCount, stmt),
		storageCap("sqlite3_bind_text", s.bind(KindString), stmt, idx, Param{Name: "value", Kind: KindString}),
		storageCap("sqlite3_bind_int", s.bind(KindInt), stmt, idx, Param{Name: "value", Kind: KindInt}),
		storageCap("sqlite3_bind_double", s.bind(KindNumber), stmt, idx, Param{Name: "value", Kind: KindNumber}),
		storageCap("sqlite3_bind_null", s.bind(KindAny), stmt, idx),
	}
}

func storageCap(name string, fn Native, params ...Param) Capability {
	return Capability{Name: name, Group: entities.GroupStorage, Params: params, Fn: fn}
}

type storage struct {
	handles *HandleTable
}

func okResult() []Value {
	return []Value{int64(sqlite.OK)}
}

func (s *storage) open(ctx context.Context, args Args) ([]Value, error) {
	db, err := sqlite.Open(ctx, args.String(0))
	if err != nil {
		return nil, err
	}
	return []Value{s.handles.Put(entities.TagDatabase, db)}, nil
}

// close releases the database handle and the handles of its statements.
func (s *storage) close(_ context.Context, args Args) ([]Value, error) {
	obj, err := s.handles.Release(args.Handle(0))
	if err != nil {
		return nil, err
	}
	db := obj.(*sqlite.DB)
	s.handles.ReleaseWhere(func(tag entities.Tag, obj any) bool {
		st, isStmt := obj.(*sqlite.Stmt)
		return tag == entities.TagStatement && isStmt && st.DB() == db
	})
	if err := db.Close(); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func (s *storage) exec(ctx context.Context, args Args) ([]Value, error) {
	db, err := resolve[*sqlite.DB](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	if err := db.Exec(ctx, args.String(1)); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func (s *storage) libversion(context.Context, Args) ([]Value, error) {
	return []Value{sqlite.LibVersion()}, nil
}

func (s *storage) prepare(ctx context.Context, args Args) ([]Value, error) {
	db, err := resolve[*sqlite.DB](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	st, err := db.Prepare(ctx, args.String(1))
	if err != nil {
		return nil, err
	}
	return []Value{s.handles.Put(entities.TagStatement, st)}, nil
}

func (s *storage) step(ctx context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	rc, err := st.Step(ctx)
	if err != nil {
		return nil, err
	}
	return []Value{int64(rc)}, nil
}

func (s *storage) finalize(_ context.Context, args Args) ([]Value, error) {
	obj, err := s.handles.Release(args.Handle(0))
	if err != nil {
		return nil, err
	}
	if err := obj.(*sqlite.Stmt).Finalize(); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func (s *storage) reset(_ context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	if err := st.Reset(); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func (s *storage) columnText(_ context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	text, notNull, err := st.ColumnText(int(args.Int(1)))
	if err != nil {
		return nil, err
	}
	if !notNull {
		return []Value{nil}, nil
	}
	return []Value{text}, nil
}

func (s *storage) columnInt(_ context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	n, err := st.ColumnInt(int(args.Int(1)))
	if err != nil {
		return nil, err
	}
	return []Value{n}, nil
}

func (s *storage) columnDouble(_ context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	f, err := st.ColumnDouble(int(args.Int(1)))
	if err != nil {
		return nil, err
	}
	return []Value{f}, nil
}

func (s *storage) columnName(_ context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	name, err := st.ColumnName(int(args.Int(1)))
	if err != nil {
		return nil, err
	}
	return []Value{name}, nil
}

func (s *storage) columnCount(_ context.Context, args Args) ([]Value, error) {
	st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
	if err != nil {
		return nil, err
	}
	return []Value{int64(st.ColumnCount())}, nil
}

// bind returns the entry point for one sqlite3_bind_* variant. KindAny binds
// NULL.
func (s *storage) bind(kind Kind) Native {
	return func(_ context.Context, args Args) ([]Value, error) {
		st, err := resolve[*sqlite.Stmt](s.handles, args.Handle(0))
		if err != nil {
			return nil, err
		}
		var v any
		switch kind {
		case KindString:
			v = args.String(2)
		case KindInt:
			v = args.Int(2)
		case KindNumber:
			v = args.Number(2)
		}
		if err := st.Bind(int(args.Int(1)), v); err != nil {
			return nil, err
		}
		return okResult(), nil
	}
}
