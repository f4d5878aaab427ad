package pgxrepo

import (
	"context"
	"time"

	"ultimate-kits/pkg/logger"

	"github.com/jackc/pgx/v5"
)

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// queryTracer reports every statement through logger.DBQuery at debug level.
type queryTracer struct {
	now func() time.Time
}

func (t queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: t.now()})
}

func (t queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	logger.DBQuery(ctx, start.sql, t.now().Sub(start.at), data.Err)
}
