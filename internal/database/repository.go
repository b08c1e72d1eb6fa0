package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/metrics"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/schema"
)

const (
	// BatchSize is the number of rows sent per upsert round trip.
	BatchSize = 50
	// BatchPause spaces batches out to stay under the hosted database's
	// rate limits.
	BatchPause = 500 * time.Millisecond

	table = "jobs"
)

// DB is the part of a pgx pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Repository struct {
	db      DB
	pool    *pgxpool.Pool
	log     *zap.Logger
	metrics *metrics.Metrics
	pause   time.Duration
}

func ConnectDB(ctx context.Context, connString string, log *zap.Logger, m *metrics.Metrics) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	repo := NewRepository(pool, log, m)
	repo.pool = pool
	return repo, nil
}

// NewRepository wraps an existing connection.
func NewRepository(db DB, log *zap.Logger, m *metrics.Metrics) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{db: db, log: log, metrics: m, pause: BatchPause}
}

func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// EnsureSchema creates the jobs table and adds columns missing from tables
// created by older versions of the tool.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}
	for _, col := range append(schema.DBColumns()[1:], "scraped_at") {
		typ := "text"
		if col == "scraped_at" {
			typ = "timestamptz"
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", table, col, typ)
		if _, err := r.db.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col, err)
		}
	}
	return nil
}

// Summary reports the outcome of one sync.
type Summary struct {
	Attempted     int
	Succeeded     int
	Batches       int
	FailedBatches int
}

// Partition splits jobs into consecutive batches of at most size rows.
func Partition(jobs []models.Job, size int) [][]models.Job {
	if size <= 0 {
		size = BatchSize
	}
	batches := make([][]models.Job, 0, (len(jobs)+size-1)/size)
	for start := 0; start < len(jobs); start += size {
		end := start + size
		if end > len(jobs) {
			end = len(jobs)
		}
		batches = append(batches, jobs[start:end])
	}
	return batches
}

// UpsertJobs writes every job keyed on job_id. Every row of the run carries
// the same scraped_at. A failing batch is logged and counted; the remaining
// batches still run because each batch is independent.
func (r *Repository) UpsertJobs(ctx context.Context, jobs []models.Job, scrapedAt time.Time) Summary {
	summary := Summary{Attempted: len(jobs)}
	scrapedAt = scrapedAt.UTC()
	query := upsertSQL()

	batches := Partition(jobs, BatchSize)
	for i, rows := range batches {
		if i > 0 {
			if err := sleep(ctx, r.pause); err != nil {
				r.log.Warn("⏹️ Database sync interrupted",
					zap.Int("batch", i),
					zap.Int("remaining_batches", len(batches)-i),
					zap.Error(err),
				)
				break
			}
		}
		summary.Batches++

		if err := r.sendBatch(ctx, query, rows, scrapedAt); err != nil {
			summary.FailedBatches++
			r.metrics.IncBatchFailure()
			r.log.Error("❌ Upsert batch failed",
				zap.Int("batch", i),
				zap.Int("batch_size", len(rows)),
				zap.String("first_job_id", rows[0].ID),
				zap.Error(err),
			)
			continue
		}
		summary.Succeeded += len(rows)
		r.metrics.AddRowsUpserted(len(rows))
		r.log.Debug("batch upserted", zap.Int("batch", i), zap.Int("batch_size", len(rows)))
	}

	r.log.Info("🗄️ Database sync finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("attempted", summary.Attempted),
		zap.Int("failed_batches", summary.FailedBatches),
	)
	return summary
}

// sendBatch queues one upsert per row. The batch ends in a single sync, so
// the server applies it as one implicit transaction.
func (r *Repository) sendBatch(ctx context.Context, query string, rows []models.Job, scrapedAt time.Time) error {
	batch := &pgx.Batch{}
	for _, job := range rows {
		batch.Queue(query, rowArgs(job, scrapedAt)...)
	}

	results := r.db.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	return results.Close()
}

func rowArgs(job models.Job, scrapedAt time.Time) []any {
	values := schema.Values(job)
	args := make([]any, 0, len(values)+1)
	for _, v := range values {
		args = append(args, v)
	}
	return append(args, scrapedAt)
}

func createTableSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", table)
	for i, col := range schema.DBColumns() {
		if i == 0 {
			fmt.Fprintf(&b, "\t%s text PRIMARY KEY,\n", col)
			continue
		}
		fmt.Fprintf(&b, "\t%s text NOT NULL DEFAULT '',\n", col)
	}
	b.WriteString("\tscraped_at timestamptz NOT NULL DEFAULT now()\n)")
	return b.String()
}

func upsertSQL() string {
	cols := append(schema.DBColumns(), "scraped_at")
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i > 0 {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (job_id) DO UPDATE SET %s",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
