package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embersql/ember/query/sqlgen"
	"github.com/embersql/ember/schema"
)

// fakeExecutor records issued statements and replays canned rows.
type fakeExecutor struct {
	sql      string
	args     []interface{}
	rows     [][]interface{}
	affected int64
}

func (f *fakeExecutor) Exec(ctx context.Context, query string, args []interface{}) (int64, error) {
	f.sql, f.args = query, args
	return f.affected, nil
}

func (f *fakeExecutor) Fetch(ctx context.Context, query string, args []interface{}) ([][]interface{}, error) {
	f.sql, f.args = query, args
	return f.rows, nil
}

func testTable(t *testing.T) *schema.Table {
	t.Helper()
	tbl, err := schema.New("T",
		schema.Int("foo", schema.PrimaryKey()),
		schema.Text("bar", schema.Default("x")),
	)
	require.NoError(t, err)
	return tbl
}

func TestWhereMayOnlyBeCalledOnce(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	b := NewSelect(&fakeExecutor{}, tbl).Where(foo.Gt(1)).Where(foo.Lt(9))
	require.ErrorIs(t, b.Err(), ErrWhereAlreadySet)
	_, err := b.Compile()
	require.ErrorIs(t, err, ErrWhereAlreadySet)
}

func TestWhereRejectsNilAndErroredConditions(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	require.ErrorIs(t, NewSelect(&fakeExecutor{}, tbl).Where(nil).Err(), ErrNilCondition)
	require.ErrorIs(t, NewSelect(&fakeExecutor{}, tbl).Where(foo.In()).Err(), schema.ErrEmptyIn)
}

func TestOrderByAppends(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	q, err := NewSelect(&fakeExecutor{}, tbl).
		OrderBy(foo).
		OrderByDesc(bar).
		Compile()
	require.NoError(t, err)
	require.Contains(t, q.SQL, `ORDER BY "foo" ASC, "bar" DESC`)
}

func TestLimitOverwrites(t *testing.T) {
	tbl := testTable(t)

	q, err := NewSelect(&fakeExecutor{}, tbl).Limit(10).Limit(3).Compile()
	require.NoError(t, err)
	require.Contains(t, q.SQL, "LIMIT ?")
	require.Equal(t, []interface{}{int64(3)}, q.Args)

	b := NewSelect(&fakeExecutor{}, tbl).Limit(-1)
	require.ErrorIs(t, b.Err(), sqlgen.ErrNegativeLimit)
}

func TestSelectRejectsForeignColumns(t *testing.T) {
	tbl := testTable(t)
	other := testTable(t)
	foreign, _ := other.Column("foo")

	b := NewSelect(&fakeExecutor{}, tbl, foreign)
	require.ErrorIs(t, b.Err(), schema.ErrUnknownColumn)

	b = NewSelect(&fakeExecutor{}, tbl).OrderBy(foreign)
	require.ErrorIs(t, b.Err(), schema.ErrUnknownColumn)
}

func TestSelectAllMarshalsRows(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	exec := &fakeExecutor{rows: [][]interface{}{
		{int64(3), "a"},
		{int64(4), "b"},
	}}

	rows, err := NewSelect(exec, tbl).Where(foo.Gt(2)).OrderBy(foo).Limit(5).All(context.Background())
	require.NoError(t, err)
	require.Equal(t, `SELECT "foo", "bar" FROM "T" WHERE "foo" > ? ORDER BY "foo" ASC LIMIT ?`, exec.sql)
	require.Equal(t, []interface{}{2, int64(5)}, exec.args)
	require.Len(t, rows, 2)

	bar, _ := rows[0].Get("bar")
	require.Equal(t, "a", bar)
	id, ok := rows[1].Identity()
	require.True(t, ok)
	require.Equal(t, int64(4), id)
}

func TestFirstReturnsNilWhenEmpty(t *testing.T) {
	tbl := testTable(t)
	exec := &fakeExecutor{}

	rec, err := NewSelect(exec, tbl).First(context.Background())
	require.NoError(t, err)
	require.Nil(t, rec)
	require.Contains(t, exec.sql, "LIMIT ?")
}

func TestBuilderIsConsumedOnce(t *testing.T) {
	tbl := testTable(t)
	b := NewSelect(&fakeExecutor{}, tbl)

	_, err := b.All(context.Background())
	require.NoError(t, err)
	_, err = b.All(context.Background())
	require.ErrorIs(t, err, ErrBuilderConsumed)
}

func TestUpdateSetAndWhere(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")
	exec := &fakeExecutor{affected: 1}

	n, err := NewUpdate(exec, tbl).
		Set(bar, "y").
		Where(foo.Eq(5)).
		Exec(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.Equal(t, `UPDATE "T" SET "bar" = ? WHERE "foo" = ?`, exec.sql)
	require.Equal(t, []interface{}{"y", 5}, exec.args)
}

func TestUpdateSetChecksTypes(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	b := NewUpdate(&fakeExecutor{}, tbl).Set(foo, "not an int")
	require.ErrorIs(t, b.Err(), schema.ErrTypeMismatch)
}

func TestUpdateRequiresWhere(t *testing.T) {
	tbl := testTable(t)
	bar, _ := tbl.Column("bar")

	_, err := NewUpdate(&fakeExecutor{}, tbl).Set(bar, "y").Exec(context.Background())
	require.ErrorIs(t, err, sqlgen.ErrMissingWhere)
}

func TestDeleteRequiresWhere(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	exec := &fakeExecutor{affected: 2}

	_, err := NewDelete(exec, tbl).Exec(context.Background())
	require.ErrorIs(t, err, sqlgen.ErrMissingWhere)

	n, err := NewDelete(exec, tbl).Where(foo.In(1, 2)).Exec(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Equal(t, `DELETE FROM "T" WHERE "foo" IN (?, ?)`, exec.sql)
	require.Equal(t, []interface{}{1, 2}, exec.args)
}
