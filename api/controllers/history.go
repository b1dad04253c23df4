package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/asinwatch/asinwatch-backend/api/responses"
	"github.com/asinwatch/asinwatch-backend/api/validators"
	"github.com/asinwatch/asinwatch-backend/internal/history"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
)

type recordBSRRequest struct {
	Date *time.Time `json:"date"`
	BSR  *int       `json:"bsr"`
}

type recordPriceRequest struct {
	Date         *time.Time       `json:"date"`
	Price        *decimal.Decimal `json:"price"`
	CurrencyCode string           `json:"currency_code"`
}

type recordReviewRequest struct {
	Date         *time.Time       `json:"date"`
	ReviewsCount *int             `json:"reviews_count"`
	Rating       *decimal.Decimal `json:"rating"`
}

func RecordBSR(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordBSRRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.RecordBSR(r.Context(), history.RecordBSRInput{
			ProductID: id,
			Date:      payload.Date,
			BSR:       payload.BSR,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"recorded": true})
	}
}

func RecordPrice(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.RecordPrice(r.Context(), history.RecordPriceInput{
			ProductID:    id,
			Date:         payload.Date,
			Price:        payload.Price,
			CurrencyCode: payload.CurrencyCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"recorded": true})
	}
}

func RecordReview(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.RecordReview(r.Context(), history.RecordReviewInput{
			ProductID:    id,
			Date:         payload.Date,
			ReviewsCount: payload.ReviewsCount,
			Rating:       payload.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"recorded": true})
	}
}

// GetBSRHistory serves a product's rank series, newest first. ?since_days=N
// bounds the window; omitting it returns the full series.
func GetBSRHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, opts, err := historyReadParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := svc.GetBSRHistory(r.Context(), id, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"points": points})
	}
}

func GetPriceHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, opts, err := historyReadParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := svc.GetPriceHistory(r.Context(), id, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"points": points})
	}
}

func GetReviewHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, opts, err := historyReadParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := svc.GetReviewHistory(r.Context(), id, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"points": points})
	}
}

func historyReadParams(r *http.Request) (int64, history.ListOptions, error) {
	id, err := productIDParam(r)
	if err != nil {
		return 0, history.ListOptions{}, err
	}

	sinceDays, err := validators.ParseQueryInt(r, "since_days", 0, 0, 3650)
	if err != nil {
		return 0, history.ListOptions{}, err
	}

	return id, history.ListOptions{SinceDays: sinceDays}, nil
}
