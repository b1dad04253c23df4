package prefs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPrefsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  email TEXT,
  full_name TEXT,
  avatar_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS brands (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  normalized_name TEXT NOT NULL
);`,
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
		`CREATE TABLE IF NOT EXISTS favorite_groups (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS favorite_group_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  group_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (group_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS saved_products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProfile(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	require.NoError(t, db.Create(&models.Profile{UserID: userID}).Error)
	return userID
}

func seedBrand(t *testing.T, db *gorm.DB, name string) models.Brand {
	t.Helper()
	brand := models.Brand{Name: name, NormalizedName: strings.ToLower(name)}
	require.NoError(t, db.Create(&brand).Error)
	return brand
}

var prefsASINSeq int64

func seedPrefsProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	prefsASINSeq++
	product := models.Product{
		ASIN:          fmt.Sprintf("B0PREF%04d", prefsASINSeq),
		MarketplaceID: 1,
		Status:        models.ProductStatusPendingEnrichment,
		CurrencyCode:  models.DefaultCurrencyCode,
		SourceType:    models.DefaultSourceType,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestRepositoryExcludedBrandsRoundTrip(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)
	acme := seedBrand(t, db, "Acme")
	globex := seedBrand(t, db, "Globex")

	require.NoError(t, repo.CreateExcludedBrand(ctx, &models.ExcludedBrand{UserID: userID, BrandID: acme.ID}))
	require.NoError(t, repo.CreateExcludedBrand(ctx, &models.ExcludedBrand{UserID: userID, BrandID: globex.ID}))

	// Duplicate pair trips the unique index.
	err := repo.CreateExcludedBrand(ctx, &models.ExcludedBrand{UserID: userID, BrandID: acme.ID})
	require.Error(t, err)

	rows, err := repo.ListExcludedBrands(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].BrandName)
	assert.Equal(t, "Globex", rows[1].BrandName)

	removed, err := repo.DeleteExcludedBrand(ctx, userID, acme.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteExcludedBrand(ctx, userID, acme.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepositoryExcludedKeywordsCaseInsensitiveDelete(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)

	require.NoError(t, repo.CreateExcludedKeyword(ctx, &models.ExcludedKeyword{UserID: userID, Keyword: "Plastic"}))
	require.NoError(t, repo.CreateExcludedKeyword(ctx, &models.ExcludedKeyword{UserID: userID, Keyword: "plastic"}))
	require.NoError(t, repo.CreateExcludedKeyword(ctx, &models.ExcludedKeyword{UserID: userID, Keyword: "cheap"}))

	removed, err := repo.DeleteExcludedKeyword(ctx, userID, "PLASTIC")
	require.NoError(t, err)
	assert.True(t, removed)

	keywords, err := repo.ListExcludedKeywords(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap"}, keywords)
}

func TestRepositoryReplaceExcludedBrands(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)
	acme := seedBrand(t, db, "Acme")
	globex := seedBrand(t, db, "Globex")
	initech := seedBrand(t, db, "Initech")

	require.NoError(t, repo.ReplaceExcludedBrands(ctx, userID, []int64{acme.ID, globex.ID}))
	rows, err := repo.ListExcludedBrands(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, repo.ReplaceExcludedBrands(ctx, userID, []int64{initech.ID}))
	rows, err = repo.ListExcludedBrands(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, initech.ID, rows[0].BrandID)

	require.NoError(t, repo.ReplaceExcludedBrands(ctx, userID, nil))
	rows, err = repo.ListExcludedBrands(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryReplaceExcludedKeywords(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)

	require.NoError(t, repo.ReplaceExcludedKeywords(ctx, userID, []string{"plastic", "cheap"}))
	require.NoError(t, repo.ReplaceExcludedKeywords(ctx, userID, []string{"flimsy"}))

	keywords, err := repo.ListExcludedKeywords(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"flimsy"}, keywords)
}

func TestRepositoryGroupsAndItems(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)
	first := seedPrefsProduct(t, db)
	second := seedPrefsProduct(t, db)

	group := &models.FavoriteGroup{UserID: userID, Name: "watchlist"}
	require.NoError(t, repo.CreateGroup(ctx, group))
	require.NotZero(t, group.ID)

	loaded, err := repo.FindGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "watchlist", loaded.Name)

	item1, created, err := repo.AddGroupItem(ctx, &models.FavoriteGroupItem{UserID: userID, GroupID: group.ID, ProductID: first.ID, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.True(t, created)

	// Re-adding the same pair hands back the original membership row.
	item1again, created, err := repo.AddGroupItem(ctx, &models.FavoriteGroupItem{UserID: userID, GroupID: group.ID, ProductID: first.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item1.ID, item1again.ID)

	_, _, err = repo.AddGroupItem(ctx, &models.FavoriteGroupItem{UserID: userID, GroupID: group.ID, ProductID: second.ID, CreatedAt: time.Now().UTC().Add(time.Second)})
	require.NoError(t, err)

	products, err := repo.ListGroupProducts(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	// Most recently added first.
	assert.Equal(t, second.ID, products[0].ProductID)
	assert.Equal(t, first.ID, products[1].ProductID)

	removed, err := repo.DeleteGroupItem(ctx, group.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteGroupItem(ctx, group.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepositoryListGroupProductsUnknownGroup(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)

	products, err := repo.ListGroupProducts(context.Background(), 777)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRepositorySavedProducts(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)
	product := seedPrefsProduct(t, db)

	row, created, err := repo.SaveProduct(ctx, &models.SavedProduct{UserID: userID, ProductID: product.ID})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.SaveProduct(ctx, &models.SavedProduct{UserID: userID, ProductID: product.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, row.ID, again.ID)

	saved, err := repo.ListSavedProducts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, product.ASIN, saved[0].ASIN)

	removed, err := repo.DeleteSavedProduct(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteSavedProduct(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepositoryExistenceChecks(t *testing.T) {
	db := setupPrefsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := seedProfile(t, db)
	brand := seedBrand(t, db, "Acme")
	product := seedPrefsProduct(t, db)

	exists, err := repo.UserExists(ctx, userID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UserExists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.BrandExists(ctx, brand.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ProductExists(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("deleted", true).Error)
	exists, err = repo.ProductExists(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
