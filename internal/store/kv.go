package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const kvTable = "kv"

// kvRepo implements KVRepo on the kv table.
type kvRepo struct {
	drv *entsql.Driver
}

func (r *kvRepo) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := getValue(ctx, r.drv, key)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, ok, nil
}

func (r *kvRepo) Put(ctx context.Context, key, value string) error {
	if err := putValue(ctx, r.drv, key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Update runs fn inside a transaction. Two processes updating the same key
// concurrently serialize on SQLite's write lock; the later commit wins.
func (r *kvRepo) Update(ctx context.Context, key string, fn func(current string) (string, error)) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin update %s: %w", key, err)
	}

	cur, _, err := getValue(ctx, tx, key)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("read %s: %w", key, err)
	}

	next, err := fn(cur)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := putValue(ctx, tx, key, next); err != nil {
		tx.Rollback()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update %s: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(kvTable).Where(entsql.EQ("key", key)).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func getValue(ctx context.Context, eq dialect.ExecQuerier, key string) (string, bool, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := eq.Query(ctx, query, args, &rows); err != nil {
		return "", false, err
	}
	defer rows.Close()

	var values []string
	if err := entsql.ScanSlice(rows, &values); err != nil {
		return "", false, err
	}
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func putValue(ctx context.Context, eq dialect.ExecQuerier, key, value string) error {
	query, args := builder().
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	return eq.Exec(ctx, query, args, nil)
}
