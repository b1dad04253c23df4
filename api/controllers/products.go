package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/asinwatch/asinwatch-backend/api/responses"
	"github.com/asinwatch/asinwatch-backend/api/validators"
	"github.com/asinwatch/asinwatch-backend/internal/catalog"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
	"github.com/asinwatch/asinwatch-backend/pkg/pagination"
)

func productIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "productId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}

// CreateProduct ingests a product observation. Duplicate (asin, marketplace)
// pairs surface as conflicts.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload catalog.CreateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// LookupProduct resolves a product by its natural key: ?asin=...&marketplace_id=...
func LookupProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asin := strings.TrimSpace(r.URL.Query().Get("asin"))
		if asin == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "asin is required"))
			return
		}

		marketplaceID, err := validators.ParseQueryInt64(r, "marketplace_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByASIN(r.Context(), asin, marketplaceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload catalog.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

// ListProducts runs the filtered catalog query. All filter parameters are
// optional and combine as a conjunction.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseListFilter(r *http.Request) (catalog.ListFilter, error) {
	var filter catalog.ListFilter
	var err error

	if filter.MarketplaceID, err = validators.ParseQueryInt64Ptr(r, "marketplace_id"); err != nil {
		return filter, err
	}
	if filter.ProductTypeID, err = validators.ParseQueryInt64Ptr(r, "product_type_id"); err != nil {
		return filter, err
	}
	if filter.BrandID, err = validators.ParseQueryInt64Ptr(r, "brand_id"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = validators.ParseQueryDecimalPtr(r, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = validators.ParseQueryDecimalPtr(r, "max_price"); err != nil {
		return filter, err
	}
	if filter.MinBSR, err = validators.ParseQueryIntPtr(r, "min_bsr"); err != nil {
		return filter, err
	}
	if filter.MaxBSR, err = validators.ParseQueryIntPtr(r, "max_bsr"); err != nil {
		return filter, err
	}
	if filter.MinRating, err = validators.ParseQueryDecimalPtr(r, "min_rating"); err != nil {
		return filter, err
	}
	if filter.MaxRating, err = validators.ParseQueryDecimalPtr(r, "max_rating"); err != nil {
		return filter, err
	}
	if filter.MinReviewCount, err = validators.ParseQueryIntPtr(r, "min_reviews"); err != nil {
		return filter, err
	}
	if filter.MaxReviewCount, err = validators.ParseQueryIntPtr(r, "max_reviews"); err != nil {
		return filter, err
	}
	if filter.PublishedAfter, err = validators.ParseQueryDatePtr(r, "published_after"); err != nil {
		return filter, err
	}
	if filter.PublishedBefore, err = validators.ParseQueryDatePtr(r, "published_before"); err != nil {
		return filter, err
	}
	if filter.UserID, err = validators.ParseQueryUUIDPtr(r, "user_id"); err != nil {
		return filter, err
	}
	if filter.IncludeDeleted, err = validators.ParseQueryBool(r, "include_deleted"); err != nil {
		return filter, err
	}

	filter.SearchQuery = strings.TrimSpace(r.URL.Query().Get("q"))

	for _, raw := range splitCSV(r.URL.Query().Get("exclude_brand_ids")) {
		id, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "exclude_brand_ids must be numeric")
		}
		filter.ExcludedBrandIDs = append(filter.ExcludedBrandIDs, id)
	}
	filter.ExcludedKeywords = splitCSV(r.URL.Query().Get("exclude_keywords"))

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filter, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return filter, err
	}
	filter.Pagination = pagination.Params{Limit: limit, Offset: offset}

	return filter, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

type addKeywordRequest struct {
	Keyword string `json:"keyword" validate:"required"`
}

func AddProductKeyword(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addKeywordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddKeyword(r.Context(), id, payload.Keyword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"keyword": payload.Keyword})
	}
}

func ListProductKeywords(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		keywords, err := svc.ListKeywords(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"keywords": keywords})
	}
}
