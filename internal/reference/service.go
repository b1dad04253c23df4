package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	dbmodels "github.com/asinwatch/asinwatch-backend/pkg/db/models"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
	"gorm.io/gorm"
)

type referenceRepository interface {
	ListMarketplaces(ctx context.Context) ([]dbmodels.Marketplace, error)
	ListProductTypes(ctx context.Context) ([]dbmodels.ProductType, error)
	ListBrands(ctx context.Context) ([]dbmodels.Brand, error)
	GetBrand(ctx context.Context, id int64) (*dbmodels.Brand, error)
}

// Cache is the subset of the redis client the reference reads use. A nil
// Cache disables caching entirely.
type Cache interface {
	CacheKey(scope, id string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service serves reference lookups with an optional read-through cache.
// Cache failures degrade to plain DB reads; they are logged, never surfaced.
type Service interface {
	ListMarketplaces(ctx context.Context) ([]dbmodels.Marketplace, error)
	ListProductTypes(ctx context.Context) ([]dbmodels.ProductType, error)
	ListBrands(ctx context.Context) ([]dbmodels.Brand, error)
	GetBrand(ctx context.Context, id int64) (*dbmodels.Brand, error)
}

type service struct {
	repo  referenceRepository
	cache Cache
	logg  *logger.Logger
	ttl   time.Duration
}

// NewService builds the reference service. cache may be nil.
func NewService(repo referenceRepository, cache Cache, logg *logger.Logger, ttl time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reference repository required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &service{repo: repo, cache: cache, logg: logg, ttl: ttl}, nil
}

// readThrough fills dest from the cache when possible, falling back to load
// and then repopulating the key.
func readThrough[T any](ctx context.Context, s *service, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		if err == nil {
			var cached T
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
			// Corrupt payload: fall through to the DB and overwrite it.
		}
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		payload, marshalErr := json.Marshal(value)
		if marshalErr == nil {
			if setErr := s.cache.Set(ctx, key, string(payload), s.ttl); setErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "reference cache set failed: "+key)
			}
		}
	}
	return value, nil
}

func (s *service) ListMarketplaces(ctx context.Context) ([]dbmodels.Marketplace, error) {
	key := s.key("marketplaces", "all")
	rows, err := readThrough(ctx, s, key, s.repo.ListMarketplaces)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list marketplaces")
	}
	if rows == nil {
		rows = []dbmodels.Marketplace{}
	}
	return rows, nil
}

func (s *service) ListProductTypes(ctx context.Context) ([]dbmodels.ProductType, error) {
	key := s.key("product_types", "all")
	rows, err := readThrough(ctx, s, key, s.repo.ListProductTypes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product types")
	}
	if rows == nil {
		rows = []dbmodels.ProductType{}
	}
	return rows, nil
}

func (s *service) ListBrands(ctx context.Context) ([]dbmodels.Brand, error) {
	key := s.key("brands", "all")
	rows, err := readThrough(ctx, s, key, s.repo.ListBrands)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	if rows == nil {
		rows = []dbmodels.Brand{}
	}
	return rows, nil
}

func (s *service) GetBrand(ctx context.Context, id int64) (*dbmodels.Brand, error) {
	key := s.key("brand", strconv.FormatInt(id, 10))
	brand, err := readThrough(ctx, s, key, func(ctx context.Context) (*dbmodels.Brand, error) {
		return s.repo.GetBrand(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return brand, nil
}

func (s *service) key(scope, id string) string {
	if s.cache != nil {
		return s.cache.CacheKey("reference:"+scope, id)
	}
	return "reference:" + scope + ":" + id
}
