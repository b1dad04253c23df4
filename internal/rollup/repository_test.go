package rollup

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRollupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  asin TEXT NOT NULL,
  marketplace_id INTEGER NOT NULL,
  product_type_id INTEGER,
  brand_id INTEGER,
  title TEXT,
  description_text TEXT,
  price NUMERIC,
  currency_code TEXT DEFAULT 'USD',
  rating NUMERIC,
  reviews_count INTEGER,
  bsr INTEGER,
  bsr_30_days_avg INTEGER,
  bullet_points TEXT,
  images TEXT,
  product_url TEXT,
  published_at DATE,
  deleted BOOLEAN DEFAULT FALSE,
  status TEXT NOT NULL DEFAULT 'pending_enrichment',
  discovery_query TEXT,
  source_type TEXT DEFAULT 'scraper',
  first_seen_at DATETIME,
  last_scraped_at DATETIME,
  raw_data TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS bsr_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  date DATE NOT NULL,
  bsr INTEGER
);`,
		`CREATE TABLE IF NOT EXISTS daily_product_stats (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  date DATE NOT NULL,
  avg_bsr_7 INTEGER,
  avg_bsr_30 INTEGER,
  avg_bsr_90 INTEGER,
  UNIQUE (product_id, date)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedRollupProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	product := models.Product{
		ASIN:          "B0ROLL01",
		MarketplaceID: 1,
		Status:        models.ProductStatusPendingEnrichment,
		CurrencyCode:  models.DefaultCurrencyCode,
		SourceType:    models.DefaultSourceType,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestRepositoryLoadSamplesRange(t *testing.T) {
	db := setupRollupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedRollupProduct(t, db)

	for _, row := range []models.BSRHistory{
		{ProductID: product.ID, Date: d("2026-08-01"), BSR: intPtr(100)},
		{ProductID: product.ID, Date: d("2026-08-15"), BSR: nil},
		{ProductID: product.ID, Date: d("2026-08-28"), BSR: intPtr(300)},
	} {
		row := row
		require.NoError(t, db.Create(&row).Error)
	}

	samples, err := repo.LoadSamples(ctx, product.ID, d("2026-08-10"), d("2026-08-28"))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Nil(t, samples[0].BSR)
	require.NotNil(t, samples[1].BSR)
	assert.Equal(t, 300, *samples[1].BSR)
}

func TestRepositoryUpsertStatReplacesRow(t *testing.T) {
	db := setupRollupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedRollupProduct(t, db)

	require.NoError(t, repo.UpsertStat(ctx, Stat{
		ProductID: product.ID,
		Date:      d("2026-08-28"),
		AvgBSR7:   intPtr(1000),
	}))
	require.NoError(t, repo.UpsertStat(ctx, Stat{
		ProductID: product.ID,
		Date:      d("2026-08-28"),
		AvgBSR7:   intPtr(1100),
		AvgBSR30:  intPtr(2000),
	}))

	rows, err := repo.ListStats(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AvgBSR7)
	assert.Equal(t, 1100, *rows[0].AvgBSR7)
	require.NotNil(t, rows[0].AvgBSR30)
	assert.Equal(t, 2000, *rows[0].AvgBSR30)
	assert.Nil(t, rows[0].AvgBSR90)
}

func TestRepositoryListStatsNewestFirst(t *testing.T) {
	db := setupRollupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedRollupProduct(t, db)

	for _, date := range []string{"2026-08-26", "2026-08-28", "2026-08-27"} {
		require.NoError(t, repo.UpsertStat(ctx, Stat{ProductID: product.ID, Date: d(date), AvgBSR7: intPtr(1)}))
	}

	rows, err := repo.ListStats(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Date.After(rows[1].Date))
	assert.True(t, rows[1].Date.After(rows[2].Date))
}

func TestRepositoryProductExists(t *testing.T) {
	db := setupRollupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedRollupProduct(t, db)

	exists, err := repo.ProductExists(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ProductExists(ctx, product.ID+1)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("deleted", true).Error)
	exists, err = repo.ProductExists(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
