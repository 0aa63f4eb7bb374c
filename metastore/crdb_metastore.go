package metastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"github.com/danthegoodman1/icefooter/crdb"
	"github.com/danthegoodman1/icefooter/part"
)

const uniqueViolation = "23505"

type (
	CRDBMetaStore struct {
		pool       *pgxpool.Pool
		tryTimeout time.Duration
	}
)

// NewCRDBMetaStore expects the schema from the migrations package to be applied.
func NewCRDBMetaStore(pool *pgxpool.Pool) *CRDBMetaStore {
	return &CRDBMetaStore{
		pool:       pool,
		tryTimeout: time.Second * 10,
	}
}

const partColumns = `id, key, alive, num_rows, num_row_groups, num_columns, created_by, footer, created_at`

func scanPart(row pgx.Row) (part.Part, error) {
	var p part.Part
	err := row.Scan(&p.ID, &p.Key, &p.Alive, &p.NumRows, &p.NumRowGroups, &p.NumColumns, &p.CreatedBy, &p.Footer, &p.CreatedAt)
	return p, err
}

func (cms *CRDBMetaStore) PutPart(ctx context.Context, p part.Part) error {
	err := crdb.ReliableExecInTx(ctx, cms.pool, cms.tryTimeout, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			insert into parts (`+partColumns+`)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.ID, p.Key, p.Alive, p.NumRows, p.NumRowGroups, p.NumColumns, p.CreatedBy, p.Footer, p.CreatedAt)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrPartExists, pgErr.ConstraintName)
		}
		return err
	})
	if errors.Is(err, ErrPartExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("error inserting part: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("partID", p.ID).Str("key", p.Key).Msg("stored part")
	return nil
}

func (cms *CRDBMetaStore) GetPart(ctx context.Context, id string) (p part.Part, err error) {
	err = crdb.ReliableExec(ctx, cms.pool, cms.tryTimeout, func(ctx context.Context, conn *pgxpool.Conn) (err error) {
		p, err = scanPart(conn.QueryRow(ctx, `select `+partColumns+` from parts where id = $1`, id))
		return
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("%w: %s", ErrPartNotFound, id)
	}
	if err != nil {
		return p, fmt.Errorf("error selecting part: %w", err)
	}
	return p, nil
}

func (cms *CRDBMetaStore) ListParts(ctx context.Context, keyPrefix string) ([]part.Part, error) {
	var parts []part.Part
	err := crdb.ReliableExec(ctx, cms.pool, cms.tryTimeout, func(ctx context.Context, conn *pgxpool.Conn) error {
		parts = parts[:0]
		rows, err := conn.Query(ctx, `
			select `+partColumns+`
			from parts
			where alive = true
			and starts_with(key, $1)
			order by key
		`, keyPrefix)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanPart(rows)
			if err != nil {
				return fmt.Errorf("error scanning part: %w", err)
			}
			parts = append(parts, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("error listing parts: %w", err)
	}
	return parts, nil
}

func (cms *CRDBMetaStore) DisablePart(ctx context.Context, id string) error {
	err := crdb.ReliableExec(ctx, cms.pool, cms.tryTimeout, func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `update parts set alive = false where id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrPartNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("error disabling part: %w", err)
	}
	return nil
}

func (cms *CRDBMetaStore) Shutdown(_ context.Context) error {
	logger.Debug().Msg("closing CRDB pool")
	cms.pool.Close()
	return nil
}
