package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninesh-dev/ninesh/domain/entities"
	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
)

func storageRegistry(t *testing.T) (*Registry, *HandleTable) {
	t.Helper()
	handles := NewHandleTable()
	reg, err := NewRegistry(WithMiddleware(PanicRecoveryMiddleware()), WithBundle(StorageBundle(handles)))
	require.NoError(t, err)
	return reg, handles
}

func invoke1(t *testing.T, reg *Registry, name string, args ...Value) Value {
	t.Helper()
	out, err := reg.Invoke(context.Background(), name, args...)
	require.NoError(t, err, name)
	require.NotEmpty(t, out, name)
	return out[0]
}

func TestStorageBundle_RoundTrip(t *testing.T) {
	reg, handles := storageRegistry(t)

	db := invoke1(t, reg, "sqlite3_open", ":memory:").(*entities.Handle)
	assert.Equal(t, entities.TagDatabase, db.Tag)

	assert.Equal(t, int64(0), invoke1(t, reg, "sqlite3_exec", db, "create table t (name text, n integer, x real)"))

	ins := invoke1(t, reg, "sqlite3_prepare_v2", db, "insert into t values (?, ?, ?)").(*entities.Handle)
	assert.Equal(t, entities.TagStatement, ins.Tag)
	invoke1(t, reg, "sqlite3_bind_text", ins, int64(1), "alpha")
	invoke1(t, reg, "sqlite3_bind_int", ins, float64(2), float64(10))
	invoke1(t, reg, "sqlite3_bind_double", ins, int64(3), 0.25)
	assert.Equal(t, int64(101), invoke1(t, reg, "sqlite3_step", ins))
	invoke1(t, reg, "sqlite3_reset", ins)
	invoke1(t, reg, "sqlite3_bind_null", ins, int64(1))
	assert.Equal(t, int64(101), invoke1(t, reg, "sqlite3_step", ins))
	invoke1(t, reg, "sqlite3_finalize", ins)

	sel := invoke1(t, reg, "sqlite3_prepare_v2", db, "select name, n, x from t order by rowid").(*entities.Handle)
	assert.Equal(t, int64(100), invoke1(t, reg, "sqlite3_step", sel))
	assert.Equal(t, int64(3), invoke1(t, reg, "sqlite3_column_count", sel))
	assert.Equal(t, "name", invoke1(t, reg, "sqlite3_column_name", sel, int64(0)))
	assert.Equal(t, "alpha", invoke1(t, reg, "sqlite3_column_text", sel, int64(0)))
	assert.Equal(t, int64(10), invoke1(t, reg, "sqlite3_column_int", sel, int64(1)))
	assert.Equal(t, 0.25, invoke1(t, reg, "sqlite3_column_double", sel, int64(2)))

	assert.Equal(t, int64(100), invoke1(t, reg, "sqlite3_step", sel))
	assert.Nil(t, invoke1(t, reg, "sqlite3_column_text", sel, int64(0)), "NULL reads as nil")
	assert.Equal(t, int64(101), invoke1(t, reg, "sqlite3_step", sel))

	assert.Equal(t, 2, handles.Len())
	invoke1(t, reg, "sqlite3_close", db)
	assert.Zero(t, handles.Len(), "closing a database releases its statements")

	_, err := reg.Invoke(context.Background(), "sqlite3_step", sel)
	var hErr *nerrors.HandleError
	assert.ErrorAs(t, err, &hErr)
}

func TestStorageBundle_Errors(t *testing.T) {
	reg, _ := storageRegistry(t)
	ctx := context.Background()

	db := invoke1(t, reg, "sqlite3_open", ":memory:")

	_, err := reg.Invoke(ctx, "sqlite3_exec", db, "this is not sql")
	assert.Error(t, err)

	_, err = reg.Invoke(ctx, "sqlite3_prepare_v2", db, "select * from missing")
	assert.Error(t, err)

	// A database handle where a statement is expected is rejected before
	// the engine is touched.
	_, err = reg.Invoke(ctx, "sqlite3_step", db)
	var hErr *nerrors.HandleError
	assert.ErrorAs(t, err, &hErr)

	_, err = reg.Invoke(ctx, "sqlite3_exec", "db", "select 1")
	var argErr *nerrors.ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestStorageBundle_LibVersion(t *testing.T) {
	reg, _ := storageRegistry(t)
	v := invoke1(t, reg, "sqlite3_libversion")
	assert.Regexp(t, `^3\.`, v)
}
