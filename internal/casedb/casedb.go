// Package casedb stores generated cases in a sqlite database, so a run can
// be checked again later without regenerating it.
package casedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	floatcheck "github.com/shabbyrobe/go-floatcheck"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS cases (
	op        TEXT    NOT NULL,
	rounding  TEXT    NOT NULL,
	tininess  TEXT    NOT NULL,
	precision INTEGER NOT NULL,
	exact     INTEGER NOT NULL,
	idx       INTEGER NOT NULL,
	operands  TEXT    NOT NULL,
	result    TEXT    NOT NULL,
	flags     INTEGER NOT NULL,
	PRIMARY KEY (op, rounding, tininess, precision, exact, idx)
);
`

type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("casedb: open %q: %w", path, err)
	}
	if path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("casedb: create schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func contextKey(fctx floatcheck.Context) (rounding, tininess string, precision int, exact bool) {
	precision = fctx.Precision
	if precision == 0 {
		precision = 80
	}
	return fctx.Rounding.String(), fctx.Tininess.String(), precision, fctx.Exact
}

// Insert stores cases in a single transaction. Cases already stored for the
// same operation, context and index are replaced.
func (d *DB) Insert(ctx context.Context, op *floatcheck.Operation, fctx floatcheck.Context, cases []floatcheck.Case) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("casedb: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO cases
			(op, rounding, tininess, precision, exact, idx, operands, result, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("casedb: prepare: %w", err)
	}
	defer stmt.Close()

	rounding, tininess, precision, exact := contextKey(fctx)
	inWidth, outWidth := int(op.In.Width()), int(op.ResultWidth())

	for _, c := range cases {
		operands := make([]string, len(c.Operands))
		for i, o := range c.Operands {
			operands[i] = o.Hex(inWidth)
		}
		if _, err := stmt.ExecContext(ctx,
			op.Name, rounding, tininess, precision, exact, int64(c.Index),
			strings.Join(operands, " "), c.Result.Hex(outWidth), int(c.Flags),
		); err != nil {
			return fmt.Errorf("casedb: insert %s #%d: %w", op.Name, c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("casedb: commit: %w", err)
	}
	return nil
}

// Load returns every stored case of op under fctx, in index order.
func (d *DB) Load(ctx context.Context, op *floatcheck.Operation, fctx floatcheck.Context) ([]floatcheck.Case, error) {
	rounding, tininess, precision, exact := contextKey(fctx)
	rows, err := d.db.QueryContext(ctx, `
		SELECT idx, operands, result, flags FROM cases
		WHERE op = ? AND rounding = ? AND tininess = ? AND precision = ? AND exact = ?
		ORDER BY idx`,
		op.Name, rounding, tininess, precision, exact)
	if err != nil {
		return nil, fmt.Errorf("casedb: query %s: %w", op.Name, err)
	}
	defer rows.Close()

	var out []floatcheck.Case
	for rows.Next() {
		var (
			idx              int64
			operands, result string
			flags            int
		)
		if err := rows.Scan(&idx, &operands, &result, &flags); err != nil {
			return nil, fmt.Errorf("casedb: scan: %w", err)
		}

		c := floatcheck.Case{Index: uint64(idx), Flags: floatcheck.Flags(flags)}
		for _, s := range strings.Fields(operands) {
			v, err := floatcheck.U128FromHex(s)
			if err != nil {
				return nil, fmt.Errorf("casedb: %s #%d operand: %w", op.Name, idx, err)
			}
			c.Operands = append(c.Operands, v)
		}
		if c.Result, err = floatcheck.U128FromHex(result); err != nil {
			return nil, fmt.Errorf("casedb: %s #%d result: %w", op.Name, idx, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of cases stored for op across all contexts.
func (d *DB) Count(ctx context.Context, op *floatcheck.Operation) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cases WHERE op = ?", op.Name).Scan(&n); err != nil {
		return 0, fmt.Errorf("casedb: count %s: %w", op.Name, err)
	}
	return n, nil
}
