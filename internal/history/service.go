package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbmodels "github.com/asinwatch/asinwatch-backend/pkg/db/models"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type historyRepository interface {
	RecordBSR(ctx context.Context, row *dbmodels.BSRHistory) error
	RecordPrice(ctx context.Context, row *dbmodels.PriceHistory) error
	RecordReview(ctx context.Context, row *dbmodels.ReviewHistory) error
	ListBSR(ctx context.Context, productID int64, since *time.Time) ([]dbmodels.BSRHistory, error)
	ListPrice(ctx context.Context, productID int64, since *time.Time) ([]dbmodels.PriceHistory, error)
	ListReview(ctx context.Context, productID int64, since *time.Time) ([]dbmodels.ReviewHistory, error)
}

// Service exposes append and read operations over product history.
type Service interface {
	RecordBSR(ctx context.Context, input RecordBSRInput) error
	RecordPrice(ctx context.Context, input RecordPriceInput) error
	RecordReview(ctx context.Context, input RecordReviewInput) error
	GetBSRHistory(ctx context.Context, productID int64, opts ListOptions) ([]BSRPoint, error)
	GetPriceHistory(ctx context.Context, productID int64, opts ListOptions) ([]PricePoint, error)
	GetReviewHistory(ctx context.Context, productID int64, opts ListOptions) ([]ReviewPoint, error)
}

type service struct {
	repo historyRepository
	now  func() time.Time
}

// NewService builds the history service.
func NewService(repo historyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

var maxRating = decimal.NewFromInt(5)

func (s *service) observationDate(provided *time.Time) time.Time {
	if provided != nil {
		return NormalizeDate(*provided)
	}
	return NormalizeDate(s.now())
}

func (s *service) RecordBSR(ctx context.Context, input RecordBSRInput) error {
	if input.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.BSR != nil && *input.BSR < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "bsr must not be negative")
	}
	row := &dbmodels.BSRHistory{
		ProductID: input.ProductID,
		Date:      s.observationDate(input.Date),
		BSR:       input.BSR,
	}
	if err := s.repo.RecordBSR(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record bsr observation")
	}
	return nil
}

func (s *service) RecordPrice(ctx context.Context, input RecordPriceInput) error {
	if input.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	currency := strings.TrimSpace(input.CurrencyCode)
	if currency == "" {
		currency = dbmodels.DefaultCurrencyCode
	}
	row := &dbmodels.PriceHistory{
		ProductID:    input.ProductID,
		Date:         s.observationDate(input.Date),
		Price:        input.Price,
		CurrencyCode: currency,
	}
	if err := s.repo.RecordPrice(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record price observation")
	}
	return nil
}

func (s *service) RecordReview(ctx context.Context, input RecordReviewInput) error {
	if input.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.ReviewsCount != nil && *input.ReviewsCount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reviews_count must not be negative")
	}
	if input.Rating != nil && (input.Rating.IsNegative() || input.Rating.GreaterThan(maxRating)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	row := &dbmodels.ReviewHistory{
		ProductID:    input.ProductID,
		Date:         s.observationDate(input.Date),
		ReviewsCount: input.ReviewsCount,
		Rating:       input.Rating,
	}
	if err := s.repo.RecordReview(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record review observation")
	}
	return nil
}

func (s *service) sinceDate(opts ListOptions) (*time.Time, error) {
	if opts.SinceDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "since_days must not be negative")
	}
	if opts.SinceDays == 0 {
		return nil, nil
	}
	// Inclusive lower bound: a row dated exactly today-N is kept.
	since := NormalizeDate(s.now()).AddDate(0, 0, -opts.SinceDays)
	return &since, nil
}

func (s *service) GetBSRHistory(ctx context.Context, productID int64, opts ListOptions) ([]BSRPoint, error) {
	since, err := s.sinceDate(opts)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListBSR(ctx, productID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bsr history")
	}
	points := make([]BSRPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, BSRPoint{Date: NormalizeDate(row.Date), BSR: row.BSR})
	}
	return points, nil
}

func (s *service) GetPriceHistory(ctx context.Context, productID int64, opts ListOptions) ([]PricePoint, error) {
	since, err := s.sinceDate(opts)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPrice(ctx, productID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price history")
	}
	points := make([]PricePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, PricePoint{
			Date:         NormalizeDate(row.Date),
			Price:        row.Price,
			CurrencyCode: row.CurrencyCode,
		})
	}
	return points, nil
}

func (s *service) GetReviewHistory(ctx context.Context, productID int64, opts ListOptions) ([]ReviewPoint, error) {
	since, err := s.sinceDate(opts)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListReview(ctx, productID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list review history")
	}
	points := make([]ReviewPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, ReviewPoint{
			Date:         NormalizeDate(row.Date),
			ReviewsCount: row.ReviewsCount,
			Rating:       row.Rating,
		})
	}
	return points, nil
}
