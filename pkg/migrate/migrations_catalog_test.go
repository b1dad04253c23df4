package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asinwatch/asinwatch-backend/pkg/migrate"
)

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_catalog_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catalog migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE marketplaces",
		"CREATE TABLE products",
		"CONSTRAINT uq_products_asin_marketplace UNIQUE (asin, marketplace_id)",
		"CREATE TABLE excluded_brands",
		"CONSTRAINT uq_excluded_brands_user_brand UNIQUE (user_id, brand_id)",
		"CREATE TABLE favorite_group_items",
		"CONSTRAINT uq_favorite_group_items_group_product UNIQUE (group_id, product_id)",
		"CREATE TABLE bsr_history",
		"CREATE TABLE daily_product_stats",
		"CONSTRAINT uq_daily_product_stats_product_date UNIQUE (product_id, date)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration dir invalid: %v", err)
	}
}
