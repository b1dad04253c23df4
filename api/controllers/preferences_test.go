package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/asinwatch/asinwatch-backend/internal/prefs"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
)

type stubPrefsService struct {
	prefs.Service

	excludeBrandFn   func(ctx context.Context, userID uuid.UUID, brandID int64) error
	getPreferencesFn func(ctx context.Context, userID uuid.UUID) (*prefs.PreferencesDTO, error)
	addToGroupFn     func(ctx context.Context, userID uuid.UUID, groupID, productID int64) (*prefs.GroupItemDTO, error)
}

func (s stubPrefsService) ExcludeBrand(ctx context.Context, userID uuid.UUID, brandID int64) error {
	return s.excludeBrandFn(ctx, userID, brandID)
}

func (s stubPrefsService) GetPreferences(ctx context.Context, userID uuid.UUID) (*prefs.PreferencesDTO, error) {
	return s.getPreferencesFn(ctx, userID)
}

func (s stubPrefsService) AddProductToGroup(ctx context.Context, userID uuid.UUID, groupID, productID int64) (*prefs.GroupItemDTO, error) {
	return s.addToGroupFn(ctx, userID, groupID, productID)
}

func TestExcludeBrandSuccess(t *testing.T) {
	userID := uuid.New()
	svc := stubPrefsService{
		excludeBrandFn: func(_ context.Context, gotUser uuid.UUID, brandID int64) error {
			if gotUser != userID {
				t.Fatalf("expected user %s got %s", userID, gotUser)
			}
			if brandID != 5 {
				t.Fatalf("expected brand 5 got %d", brandID)
			}
			return nil
		},
	}

	body := bytes.NewBufferString(`{"brand_id":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/excluded-brands", body)
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	ExcludeBrand(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestExcludeBrandInvalidUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/not-a-uuid/excluded-brands", bytes.NewBufferString(`{"brand_id":5}`))
	req = withURLParam(req, "userId", "not-a-uuid")
	rec := httptest.NewRecorder()

	ExcludeBrand(stubPrefsService{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGetPreferencesEmptyStateReturnsObject(t *testing.T) {
	userID := uuid.New()
	svc := stubPrefsService{
		getPreferencesFn: func(context.Context, uuid.UUID) (*prefs.PreferencesDTO, error) {
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/preferences", nil)
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	GetPreferences(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data prefs.PreferencesDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UserID != userID {
		t.Fatalf("expected user id %s got %s", userID, envelope.Data.UserID)
	}
	if envelope.Data.ExcludedBrands == nil || envelope.Data.ExcludedKeywords == nil || envelope.Data.FavoriteGroups == nil {
		t.Fatalf("expected empty slices, got %+v", envelope.Data)
	}
}

func TestGetPreferencesUnknownUser(t *testing.T) {
	userID := uuid.New()
	svc := stubPrefsService{
		getPreferencesFn: func(context.Context, uuid.UUID) (*prefs.PreferencesDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/preferences", nil)
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	GetPreferences(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestAddProductToGroupBindsParams(t *testing.T) {
	userID := uuid.New()
	svc := stubPrefsService{
		addToGroupFn: func(_ context.Context, gotUser uuid.UUID, groupID, productID int64) (*prefs.GroupItemDTO, error) {
			if gotUser != userID || groupID != 3 || productID != 11 {
				t.Fatalf("unexpected args user=%s group=%d product=%d", gotUser, groupID, productID)
			}
			return &prefs.GroupItemDTO{ID: 100, GroupID: groupID, ProductID: productID}, nil
		},
	}

	body := bytes.NewBufferString(`{"product_id":11}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/groups/3/products", body)
	req = withURLParam(req, "userId", userID.String())
	req = withURLParam(req, "groupId", "3")
	rec := httptest.NewRecorder()

	AddProductToGroup(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}
