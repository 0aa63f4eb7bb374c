package crdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgx"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"github.com/danthegoodman1/icefooter/utils"
)

// ReliableExec runs f on a pooled connection, retrying with exponential
// backoff until ctx is done. Each try gets its own tryTimeout. pgx.ErrNoRows
// and utils.PermError are returned without retrying.
func ReliableExec(ctx context.Context, pool *pgxpool.Pool, tryTimeout time.Duration, f func(ctx context.Context, conn *pgxpool.Conn) error) error {
	return retry(ctx, func() error {
		tryCtx, cancel := context.WithTimeout(ctx, tryTimeout)
		defer cancel()
		conn, err := pool.Acquire(tryCtx)
		if err != nil {
			return fmt.Errorf("error in pool.Acquire: %w", err)
		}
		defer conn.Release()
		return f(tryCtx, conn)
	})
}

// ReliableExecInTx is ReliableExec inside a transaction. crdbpgx.ExecuteTx
// already retries serialization failures, the outer backoff covers
// connection errors.
func ReliableExecInTx(ctx context.Context, pool *pgxpool.Pool, tryTimeout time.Duration, f func(ctx context.Context, tx pgx.Tx) error) error {
	return retry(ctx, func() error {
		tryCtx, cancel := context.WithTimeout(ctx, tryTimeout)
		defer cancel()
		return crdbpgx.ExecuteTx(tryCtx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			return f(tryCtx, tx)
		})
	})
}

func retry(ctx context.Context, op func() error) error {
	logger := zerolog.Ctx(ctx)
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = StandardContextTimeout * 3

	return backoff.RetryNotify(func() error {
		err := op()
		var perm utils.PermError
		if errors.Is(err, pgx.ErrNoRows) || errors.As(err, &perm) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, d time.Duration) {
		logger.Warn().Err(err).Str("retryIn", d.String()).Msg("retrying CRDB operation")
	})
}
