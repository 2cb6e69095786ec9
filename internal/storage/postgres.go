package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"goldwatch/internal/aggregate"
)

// PeriodStats summarizes persisted minute buckets over a period.
type PeriodStats struct {
	Source string    `json:"source"`
	Avg    float64   `json:"avg"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// Postgres persists completed aggregate buckets.
type Postgres struct {
	db *sql.DB
}

func New(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) SaveBuckets(ctx context.Context, buckets []aggregate.Bucket) error {
	if len(buckets) == 0 {
		return nil
	}

	query := `INSERT INTO gold_price_minute (source, bucket_start, bucket_end, avg_price, min_price, max_price, sample_count)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range buckets {
		_, err := stmt.ExecContext(ctx, b.Source, b.Start, b.End, b.Avg, b.Min, b.Max, b.Count)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Stats returns min/avg/max for a source over the trailing period, or nil
// when no buckets fall inside it.
func (p *Postgres) Stats(ctx context.Context, source string, period time.Duration) (*PeriodStats, error) {
	query := `SELECT AVG(avg_price), MIN(min_price), MAX(max_price)
			  FROM gold_price_minute
			  WHERE source = $1 AND bucket_start >= $2`

	to := time.Now()
	from := to.Add(-period)

	var avg, min, max sql.NullFloat64
	if err := p.db.QueryRowContext(ctx, query, source, from).Scan(&avg, &min, &max); err != nil {
		return nil, err
	}

	if !avg.Valid {
		return nil, nil
	}

	return &PeriodStats{
		Source: source,
		Avg:    avg.Float64,
		Min:    min.Float64,
		Max:    max.Float64,
		From:   from,
		To:     to,
	}, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
