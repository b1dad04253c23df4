package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCatalogTestDB opens a test-scoped in-memory database. The DSN is
// keyed by test name so parallel packages never share schema or rows.
func setupCatalogTestDB(t *testing.T) *gorm.DB {
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
  updated_at DATETIME,
  UNIQUE (asin, marketplace_id)
);`,
		`CREATE TABLE IF NOT EXISTS product_keywords (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  keyword TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS excluded_brands (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  brand_id INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, brand_id)
);`,
		`CREATE TABLE IF NOT EXISTS excluded_keywords (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  keyword TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
