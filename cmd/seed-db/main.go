// Command seed-db loads a gzip-compressed JSON catalog bundle into the
// database: categories first, then products with their pictures compressed
// the same way the API stores them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
	"github.com/withnacho/bikestore-catalog/internal/imaging"
	"github.com/withnacho/bikestore-catalog/internal/storage/postgres"
)

// bundle is the on-disk seed format. Products reference categories by name;
// pictures are base64 via encoding/json's []byte handling.
type bundle struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
}

type categoryJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productJSON struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Picture  []byte `json:"picture"`
}

func main() {
	var (
		databaseURL string
		bundlePath  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&bundlePath, "bundle", "db/seed/catalog.json.gz", "path to the gzipped catalog bundle")
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

	if err := run(ctx, databaseURL, bundlePath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, bundlePath string) error {
	b, err := readBundle(bundlePath)
	if err != nil {
		return errors.Wrap(err, "read bundle")
	}

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

	categoryIDs, err := seedCategories(ctx, pool, b.Categories)
	if err != nil {
		return errors.Wrap(err, "seed categories")
	}

	if err := seedProducts(ctx, pool, b.Products, categoryIDs); err != nil {
		return errors.Wrap(err, "seed products")
	}

	return nil
}

func readBundle(path string) (*bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "gzip reader")
	}
	defer func() { _ = zr.Close() }()

	var b bundle
	if err := json.NewDecoder(zr).Decode(&b); err != nil {
		return nil, errors.Wrap(err, "decode JSON")
	}
	return &b, nil
}

func seedCategories(ctx context.Context, q postgres.Querier, categories []categoryJSON) (map[string]int64, error) {
	repo := postgres.NewCategoryRepository(q)

	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		saved, err := repo.Save(ctx, category.Category{
			Name:        c.Name,
			Description: c.Description,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "save category %q", c.Name)
		}
		ids[c.Name] = saved.ID
	}

	slog.Info("categories seeded", slog.Int("count", len(ids)))
	return ids, nil
}

func seedProducts(ctx context.Context, q postgres.Querier, products []productJSON, categoryIDs map[string]int64) error {
	// Compress all pictures concurrently, then insert sequentially.
	codec := imaging.ZlibCodec{}
	compressed := make([][]byte, len(products))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range products {
		g.Go(func() error {
			data, err := codec.Compress(p.Picture)
			if err != nil {
				return errors.Wrapf(err, "compress picture of %q", p.Name)
			}
			compressed[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	repo := postgres.NewProductRepository(q)
	for i, p := range products {
		id, ok := categoryIDs[p.Category]
		if !ok {
			return errors.Errorf("product %q references unknown category %q", p.Name, p.Category)
		}
		if _, err := repo.Save(ctx, product.Product{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Picture:  compressed[i],
			Category: category.Category{ID: id},
		}); err != nil {
			return errors.Wrapf(err, "save product %q", p.Name)
		}
	}

	slog.Info("products seeded", slog.Int("count", len(products)))
	return nil
}
