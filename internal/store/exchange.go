package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var exchangeColumns = []string{
	"id", "sequence", "timestamp", "user_id", "session_id",
	"state", "user_message", "ai_response", "score",
}

// exchangeRepo implements ExchangeRepo with the ent SQL builder so the same
// statements render for SQLite and Postgres.
type exchangeRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

func (r *exchangeRepo) AppendExchange(ctx context.Context, data ExchangeData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	var score any
	if data.Score != nil {
		score = *data.Score
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(exchangesTable).
		Columns("sequence", "timestamp", "user_id", "session_id", "state", "user_message", "ai_response", "score").
		Values(seqNum, ts.UTC(), data.UserID, data.SessionID, data.State, data.UserMessage, data.AIResponse, score).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save exchange: %w", err)
	}
	return nil
}

func (r *exchangeRepo) QueryExchanges(ctx context.Context, opts QueryOpts) ([]ExchangeRecord, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select(exchangeColumns...).From(b.Table(exchangesTable))
	if opts.UserID != "" {
		sel.Where(entsql.EQ("user_id", opts.UserID))
	}
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var out []ExchangeRecord
	for rows.Next() {
		var (
			rec   ExchangeRecord
			score sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.UserID, &rec.SessionID,
			&rec.State, &rec.UserMessage, &rec.AIResponse, &score); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			rec.Score = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchanges: %w", err)
	}

	slices.Reverse(out)
	return out, nil
}
