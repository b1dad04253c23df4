package history

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHistoryTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS price_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  date DATE NOT NULL,
  price NUMERIC,
  currency_code TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS review_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  date DATE NOT NULL,
  reviews_count INTEGER,
  rating NUMERIC
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

var asinSeq int64

func seedHistoryProduct(t *testing.T, db *gorm.DB, deleted bool) models.Product {
	t.Helper()
	asinSeq++
	product := models.Product{
		ASIN:          fmt.Sprintf("B0HIST%04d", asinSeq),
		MarketplaceID: 1,
		Status:        models.ProductStatusPendingEnrichment,
		CurrencyCode:  models.DefaultCurrencyCode,
		SourceType:    models.DefaultSourceType,
		Deleted:       deleted,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func intPtr(v int) *int { return &v }

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestRecordBSRAppendsAndKeepsSameDayDuplicates(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedHistoryProduct(t, db, false)

	d := day(t, "2026-08-20")
	require.NoError(t, repo.RecordBSR(ctx, &models.BSRHistory{ProductID: product.ID, Date: d, BSR: intPtr(1200)}))
	require.NoError(t, repo.RecordBSR(ctx, &models.BSRHistory{ProductID: product.ID, Date: d, BSR: intPtr(1100)}))
	require.NoError(t, repo.RecordBSR(ctx, &models.BSRHistory{ProductID: product.ID, Date: d, BSR: nil}))

	rows, err := repo.ListBSR(ctx, product.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Same-day rows come back newest insert first.
	assert.Nil(t, rows[0].BSR)
	require.NotNil(t, rows[1].BSR)
	assert.Equal(t, 1100, *rows[1].BSR)
}

func TestRecordBSRMissingProduct(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)

	err := repo.RecordBSR(context.Background(), &models.BSRHistory{ProductID: 999, Date: day(t, "2026-08-20")})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordBSRDeletedProduct(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	product := seedHistoryProduct(t, db, true)

	err := repo.RecordBSR(context.Background(), &models.BSRHistory{ProductID: product.ID, Date: day(t, "2026-08-20")})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListBSRSinceBound(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedHistoryProduct(t, db, false)

	for _, d := range []string{"2026-08-01", "2026-08-10", "2026-08-20"} {
		require.NoError(t, repo.RecordBSR(ctx, &models.BSRHistory{ProductID: product.ID, Date: day(t, d), BSR: intPtr(100)}))
	}

	since := day(t, "2026-08-10")
	rows, err := repo.ListBSR(ctx, product.ID, &since)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.UTC().Equal(day(t, "2026-08-20")))
	assert.True(t, rows[1].Date.UTC().Equal(day(t, "2026-08-10")))
}

func TestRecordPriceAndList(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedHistoryProduct(t, db, false)

	require.NoError(t, repo.RecordPrice(ctx, &models.PriceHistory{
		ProductID:    product.ID,
		Date:         day(t, "2026-08-20"),
		Price:        decPtr("19.99"),
		CurrencyCode: "USD",
	}))
	require.NoError(t, repo.RecordPrice(ctx, &models.PriceHistory{
		ProductID:    product.ID,
		Date:         day(t, "2026-08-21"),
		Price:        nil,
		CurrencyCode: "USD",
	}))

	rows, err := repo.ListPrice(ctx, product.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Price)
	require.NotNil(t, rows[1].Price)
	assert.True(t, rows[1].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestRecordReviewAndList(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := seedHistoryProduct(t, db, false)

	require.NoError(t, repo.RecordReview(ctx, &models.ReviewHistory{
		ProductID:    product.ID,
		Date:         day(t, "2026-08-20"),
		ReviewsCount: intPtr(321),
		Rating:       decPtr("4.30"),
	}))

	rows, err := repo.ListReview(ctx, product.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ReviewsCount)
	assert.Equal(t, 321, *rows[0].ReviewsCount)
	require.NotNil(t, rows[0].Rating)
	assert.True(t, rows[0].Rating.Equal(decimal.RequireFromString("4.3")))
}

func TestHistoryIsolatedPerProduct(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	first := seedHistoryProduct(t, db, false)
	second := seedHistoryProduct(t, db, false)

	require.NoError(t, repo.RecordBSR(ctx, &models.BSRHistory{ProductID: first.ID, Date: day(t, "2026-08-20"), BSR: intPtr(10)}))
	require.NoError(t, repo.RecordBSR(ctx, &models.BSRHistory{ProductID: second.ID, Date: day(t, "2026-08-20"), BSR: intPtr(20)}))

	rows, err := repo.ListBSR(ctx, first.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, *rows[0].BSR)
}
