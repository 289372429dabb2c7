// Command catalog-import bulk-loads supplier catalog dumps into the products
// table. Each input file is a gzip-compressed stream of one JSON product per
// line; files are processed concurrently.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/roamkart/roamkart/internal/storage/postgres"
)

const progressEvery = 1000

type productLine struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	Quantity     int              `json:"quantity"`
	Unit         string           `json:"unit"`
	Tags         []string         `json:"tags"`
	BulkQuantity *int             `json:"bulkQuantity"`
	BulkPrice    *decimal.Decimal `json:"bulkPrice"`
}

func main() {
	var (
		dataDir     string
		databaseURL string
		workers     int
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz catalog files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.IntVar(&workers, "workers", 4, "number of files imported concurrently")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, workers); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string, workers int) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list catalog files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("importing catalog files", slog.Int("files", len(files)))

	var total atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range files {
		g.Go(importFile(ctx, pool, f, &total))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import done", slog.Uint64("products", total.Load()))
	return nil
}

const upsertProductSQL = `INSERT INTO products (id, name, category, price, cost, quantity, unit, tags, bulk_quantity, bulk_price)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price,
		cost = EXCLUDED.cost, quantity = EXCLUDED.quantity, unit = EXCLUDED.unit,
		tags = EXCLUDED.tags, bulk_quantity = EXCLUDED.bulk_quantity,
		bulk_price = EXCLUDED.bulk_price, updated_at = now()`

func importFile(ctx context.Context, pool *pgxpool.Pool, path string, total *atomic.Uint64) func() error {
	return func() error {
		var count uint64

		if err := streamGzFile(ctx, path, func(line []byte) error {
			var p productLine
			if err := json.Unmarshal(line, &p); err != nil {
				return errors.Wrap(err, "parse product line")
			}
			if p.ID == "" || p.Name == "" {
				return errors.New("product line missing id or name")
			}

			unit := p.Unit
			if unit == "" {
				unit = "pc"
			}
			tags := p.Tags
			if tags == nil {
				tags = []string{}
			}
			if _, err := pool.Exec(ctx, upsertProductSQL,
				p.ID, p.Name, p.Category, p.Price, p.Cost, p.Quantity, unit, tags, p.BulkQuantity, p.BulkPrice,
			); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("import progress",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("products", count),
				)
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "import %s", path)
		}

		slog.Info("file imported",
			slog.String("file", filepath.Base(path)),
			slog.Uint64("products", count),
		)
		total.Add(count)
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each
// non-empty line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
