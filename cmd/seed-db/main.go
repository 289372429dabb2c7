// Command seed-db populates a fresh database with demo products, a demo
// route, and an admin API key so the storefront is usable out of the box.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/route"
	"github.com/roamkart/roamkart/internal/storage/postgres"
)

type productJSON struct {
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
		databaseURL  string
		productsFile string
		adminKey     string
		userKey      string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminKey, "admin-key", "", "admin API key to seed (or ROAM_SEED_ADMIN_KEY env)")
	flag.StringVar(&userKey, "user-key", "", "optional storefront API key to seed without the admin scope")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ROAM_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminKey == "" {
		adminKey = os.Getenv("ROAM_SEED_ADMIN_KEY")
	}
	if adminKey == "" {
		slog.Error("admin key is required: set --admin-key or ROAM_SEED_ADMIN_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ROAM_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminKey, userKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminKey, userKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedRoute(ctx, pool); err != nil {
		return errors.Wrap(err, "seed route")
	}

	if err := seedAPIKey(ctx, pool, "admin", "Admin key", adminKey, pepper, []string{"admin"}); err != nil {
		return errors.Wrap(err, "seed admin key")
	}

	if userKey != "" {
		if err := seedAPIKey(ctx, pool, "u1", "Storefront user", userKey, pepper, []string{}); err != nil {
			return errors.Wrap(err, "seed user key")
		}
	}

	return nil
}

const upsertProductSQL = `INSERT INTO products (id, name, category, price, cost, quantity, unit, tags, bulk_quantity, bulk_price)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, category = EXCLUDED.category, price = EXCLUDED.price,
		cost = EXCLUDED.cost, quantity = EXCLUDED.quantity, unit = EXCLUDED.unit,
		tags = EXCLUDED.tags, bulk_quantity = EXCLUDED.bulk_quantity,
		bulk_price = EXCLUDED.bulk_price, updated_at = now()`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
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

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const (
	seedRouteID = "route-coastal-loop"

	upsertRouteSQL = `INSERT INTO routes (id, name, is_round_trip)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, is_round_trip = EXCLUDED.is_round_trip`

	deleteRouteStopsSQL = `DELETE FROM route_stops WHERE route_id = $1`

	insertRouteStopSQL = `INSERT INTO route_stops (route_id, position, name, date, time, lat, lon, passed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// seedRoute writes one demo round trip. The outbound stop drafts are
// expanded into the full there-and-back sequence before insert.
func seedRoute(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo route", slog.String("id", seedRouteID))

	drafts := []route.Stop{
		{Name: "Harbor Market", Date: "2026-09-05", Time: "08:00", Lat: 14.5995, Lon: 120.9842},
		{Name: "Hillside Plaza", Date: "2026-09-05", Time: "12:30", Lat: 14.6760, Lon: 121.0437},
		{Name: "Lakeview Commons", Date: "2026-09-06", Time: "09:00", Lat: 14.3500, Lon: 121.0667},
	}
	stops := route.ExpandStops(drafts, true)

	if _, err := pool.Exec(ctx, upsertRouteSQL, seedRouteID, "Coastal Loop", true); err != nil {
		return errors.Wrap(err, "upsert route")
	}
	if _, err := pool.Exec(ctx, deleteRouteStopsSQL, seedRouteID); err != nil {
		return errors.Wrap(err, "clear route stops")
	}
	for i, s := range stops {
		if _, err := pool.Exec(ctx, insertRouteStopSQL,
			seedRouteID, i, s.Name, s.Date, s.Time, s.Lat, s.Lon, s.Passed,
		); err != nil {
			return errors.Wrapf(err, "insert stop %d", i)
		}
	}

	slog.Info("seeded route", slog.String("id", seedRouteID), slog.Int("stops", len(stops)))
	return nil
}

const upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, scopes, active)
	VALUES ($1, $2, $3, $4, TRUE)
	ON CONFLICT (id) DO UPDATE SET
		key_hash = EXCLUDED.key_hash, name = EXCLUDED.name,
		scopes = EXCLUDED.scopes, active = TRUE`

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, id, name, key, pepper string, scopes []string) error {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(key))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL, id, keyHash, name, scopes); err != nil {
		return errors.Wrapf(err, "upsert API key %s", id)
	}

	slog.Info("upserted API key", slog.String("id", id), slog.String("name", name))
	return nil
}
