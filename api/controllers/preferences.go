package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asinwatch/asinwatch-backend/api/responses"
	"github.com/asinwatch/asinwatch-backend/api/validators"
	"github.com/asinwatch/asinwatch-backend/internal/prefs"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
)

func userIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "userId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id")
	}
	return id, nil
}

// GetPreferences composes the user's full preference state. Users with no
// preferences at all get an empty object rather than a 404.
func GetPreferences(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preferences, err := svc.GetPreferences(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if preferences == nil {
			preferences = &prefs.PreferencesDTO{
				UserID:           userID,
				ExcludedBrands:   []prefs.ExcludedBrandDTO{},
				ExcludedKeywords: []string{},
				FavoriteGroups:   []prefs.GroupDTO{},
			}
		}

		responses.WriteSuccess(w, preferences)
	}
}

type excludeBrandRequest struct {
	BrandID int64 `json:"brand_id" validate:"required,min=1"`
}

type replaceBrandsRequest struct {
	BrandIDs []int64 `json:"brand_ids"`
}

func ExcludeBrand(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload excludeBrandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ExcludeBrand(r.Context(), userID, payload.BrandID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"brand_id": payload.BrandID})
	}
}

func RemoveExcludedBrand(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brandID, err := int64URLParam(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveExcludedBrand(r.Context(), userID, brandID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"removed": true})
	}
}

func ListExcludedBrands(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brands, err := svc.ListExcludedBrands(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"excluded_brands": brands})
	}
}

// ReplaceExcludedBrands swaps the entire exclusion list atomically.
func ReplaceExcludedBrands(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceBrandsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ReplaceExcludedBrands(r.Context(), userID, payload.BrandIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"replaced": true})
	}
}

type excludeKeywordRequest struct {
	Keyword string `json:"keyword" validate:"required"`
}

type replaceKeywordsRequest struct {
	Keywords []string `json:"keywords"`
}

func ExcludeKeyword(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload excludeKeywordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ExcludeKeyword(r.Context(), userID, payload.Keyword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"keyword": payload.Keyword})
	}
}

// RemoveExcludedKeyword deletes by keyword text, matched case-insensitively.
func RemoveExcludedKeyword(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		keyword := strings.TrimSpace(chi.URLParam(r, "keyword"))
		if keyword == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "keyword is required"))
			return
		}

		if err := svc.RemoveExcludedKeyword(r.Context(), userID, keyword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"removed": true})
	}
}

func ListExcludedKeywords(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		keywords, err := svc.ListExcludedKeywords(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"excluded_keywords": keywords})
	}
}

func ReplaceExcludedKeywords(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceKeywordsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ReplaceExcludedKeywords(r.Context(), userID, payload.Keywords); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"replaced": true})
	}
}
