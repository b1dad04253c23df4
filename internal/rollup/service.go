package rollup

import (
	"context"
	"fmt"
	"time"

	dbmodels "github.com/asinwatch/asinwatch-backend/pkg/db/models"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
)

type rollupRepository interface {
	ProductExists(ctx context.Context, productID int64) (bool, error)
	LoadSamples(ctx context.Context, productID int64, start, end time.Time) ([]Sample, error)
	UpsertStat(ctx context.Context, stat Stat) error
	ListStats(ctx context.Context, productID int64) ([]dbmodels.DailyProductStat, error)
}

// Service derives and serves trailing rank averages.
type Service interface {
	// Compute derives the stat for one product and day without persisting.
	Compute(ctx context.Context, productID int64, date time.Time) (*Stat, error)
	// Recompute derives and upserts the stat. Running it twice for the same
	// day replaces the row rather than duplicating it.
	Recompute(ctx context.Context, productID int64, date time.Time) (*Stat, error)
	ListStats(ctx context.Context, productID int64) ([]Stat, error)
}

type service struct {
	repo rollupRepository
}

// NewService builds the rollup service.
func NewService(repo rollupRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rollup repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) load(ctx context.Context, productID int64, date time.Time) (*Stat, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	day := truncateDay(date)
	// The widest window is 90 days, so one read covers all three.
	start := day.AddDate(0, 0, -89)
	samples, err := s.repo.LoadSamples(ctx, productID, start, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rank history")
	}

	stat := compute(productID, day, samples)
	return &stat, nil
}

func (s *service) Compute(ctx context.Context, productID int64, date time.Time) (*Stat, error) {
	return s.load(ctx, productID, date)
}

func (s *service) Recompute(ctx context.Context, productID int64, date time.Time) (*Stat, error) {
	stat, err := s.load(ctx, productID, date)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertStat(ctx, *stat); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert daily stat")
	}
	return stat, nil
}

func (s *service) ListStats(ctx context.Context, productID int64) ([]Stat, error) {
	rows, err := s.repo.ListStats(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list daily stats")
	}
	stats := make([]Stat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, Stat{
			ProductID: row.ProductID,
			Date:      truncateDay(row.Date),
			AvgBSR7:   row.AvgBSR7,
			AvgBSR30:  row.AvgBSR30,
			AvgBSR90:  row.AvgBSR90,
		})
	}
	return stats, nil
}
