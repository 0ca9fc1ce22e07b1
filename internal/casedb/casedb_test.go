package casedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	floatcheck "github.com/shabbyrobe/go-floatcheck"
)

func generate(t *testing.T, name string, fctx floatcheck.Context, n uint64) (*floatcheck.Operation, []floatcheck.Case) {
	t.Helper()
	op, err := floatcheck.LookupOperation(name)
	require.NoError(t, err)
	cases, err := floatcheck.Batch(context.Background(), floatcheck.BatchConfig{
		Op: op, Level: 1, Key: floatcheck.DefaultKey, Context: fctx, Count: n, Workers: 2,
	})
	require.NoError(t, err)
	return op, cases
}

func TestInsertLoad(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"f32_add", "f128_mulAdd", "f64_to_i32", "f16_lt_quiet"} {
		t.Run(name, func(t *testing.T) {
			fctx := floatcheck.Context{Rounding: floatcheck.RoundMin, Tininess: floatcheck.TininessAfterRounding}
			op, cases := generate(t, name, fctx, 100)
			require.NoError(t, db.Insert(ctx, op, fctx, cases))

			loaded, err := db.Load(ctx, op, fctx)
			require.NoError(t, err)
			require.Equal(t, cases, loaded)

			// Other contexts are stored separately:
			other, err := db.Load(ctx, op, floatcheck.Context{})
			require.NoError(t, err)
			require.Empty(t, other)

			n, err := db.Count(ctx, op)
			require.NoError(t, err)
			require.Equal(t, len(cases), n)
		})
	}
}

func TestInsertReplaces(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	defer db.Close()

	fctx := floatcheck.Context{}
	op, cases := generate(t, "f64_div", fctx, 50)
	require.NoError(t, db.Insert(ctx, op, fctx, cases))
	require.NoError(t, db.Insert(ctx, op, fctx, cases[:10]))

	n, err := db.Count(ctx, op)
	require.NoError(t, err)
	require.Equal(t, 50, n)
}
