package catalog

import (
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var maxRating = decimal.NewFromInt(5)

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// nullable maps a set Field to its value or SQL NULL for the updates map.
func nullable[T any](f Field[T]) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func pqArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}
