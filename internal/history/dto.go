package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordBSRInput appends one rank observation to a product's history.
type RecordBSRInput struct {
	ProductID int64      `json:"product_id" validate:"required"`
	Date      *time.Time `json:"date"`
	BSR       *int       `json:"bsr"`
}

// RecordPriceInput appends one price observation.
type RecordPriceInput struct {
	ProductID    int64            `json:"product_id" validate:"required"`
	Date         *time.Time       `json:"date"`
	Price        *decimal.Decimal `json:"price"`
	CurrencyCode string           `json:"currency_code"`
}

// RecordReviewInput appends one rating and review-count observation.
type RecordReviewInput struct {
	ProductID    int64            `json:"product_id" validate:"required"`
	Date         *time.Time       `json:"date"`
	ReviewsCount *int             `json:"reviews_count"`
	Rating       *decimal.Decimal `json:"rating"`
}

// ListOptions scopes a history read. SinceDays of zero means full history.
type ListOptions struct {
	SinceDays int
}

// BSRPoint is one rank observation on the read path.
type BSRPoint struct {
	Date time.Time `json:"date"`
	BSR  *int      `json:"bsr"`
}

// PricePoint is one price observation on the read path.
type PricePoint struct {
	Date         time.Time        `json:"date"`
	Price        *decimal.Decimal `json:"price"`
	CurrencyCode string           `json:"currency_code"`
}

// ReviewPoint is one rating observation on the read path.
type ReviewPoint struct {
	Date         time.Time        `json:"date"`
	ReviewsCount *int             `json:"reviews_count"`
	Rating       *decimal.Decimal `json:"rating"`
}

// NormalizeDate truncates an observation timestamp to its UTC calendar day.
// History rows key on the day, never the wall-clock instant.
func NormalizeDate(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
