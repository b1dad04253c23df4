package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asinwatch/asinwatch-backend/pkg/db"
	dbmodels "github.com/asinwatch/asinwatch-backend/pkg/db/models"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type prefsRepository interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	BrandExists(ctx context.Context, brandID int64) (bool, error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
	CreateExcludedBrand(ctx context.Context, row *dbmodels.ExcludedBrand) error
	DeleteExcludedBrand(ctx context.Context, userID uuid.UUID, brandID int64) (bool, error)
	ListExcludedBrands(ctx context.Context, userID uuid.UUID) ([]ExcludedBrandDTO, error)
	CreateExcludedKeyword(ctx context.Context, row *dbmodels.ExcludedKeyword) error
	DeleteExcludedKeyword(ctx context.Context, userID uuid.UUID, keyword string) (bool, error)
	ListExcludedKeywords(ctx context.Context, userID uuid.UUID) ([]string, error)
	ReplaceExcludedBrands(ctx context.Context, userID uuid.UUID, brandIDs []int64) error
	ReplaceExcludedKeywords(ctx context.Context, userID uuid.UUID, keywords []string) error
	CreateGroup(ctx context.Context, group *dbmodels.FavoriteGroup) error
	FindGroup(ctx context.Context, groupID int64) (*dbmodels.FavoriteGroup, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]dbmodels.FavoriteGroup, error)
	AddGroupItem(ctx context.Context, item *dbmodels.FavoriteGroupItem) (*dbmodels.FavoriteGroupItem, bool, error)
	DeleteGroupItem(ctx context.Context, groupID, productID int64) (bool, error)
	ListGroupProducts(ctx context.Context, groupID int64) ([]GroupProductDTO, error)
	SaveProduct(ctx context.Context, row *dbmodels.SavedProduct) (*dbmodels.SavedProduct, bool, error)
	DeleteSavedProduct(ctx context.Context, userID uuid.UUID, productID int64) (bool, error)
	ListSavedProducts(ctx context.Context, userID uuid.UUID) ([]SavedProductDTO, error)
}

// Service exposes the per-user preference operations: brand and keyword
// exclusions, favorite groups, saved products, and the composed read.
type Service interface {
	ExcludeBrand(ctx context.Context, userID uuid.UUID, brandID int64) error
	RemoveExcludedBrand(ctx context.Context, userID uuid.UUID, brandID int64) error
	ListExcludedBrands(ctx context.Context, userID uuid.UUID) ([]ExcludedBrandDTO, error)
	ReplaceExcludedBrands(ctx context.Context, userID uuid.UUID, brandIDs []int64) error

	ExcludeKeyword(ctx context.Context, userID uuid.UUID, keyword string) error
	RemoveExcludedKeyword(ctx context.Context, userID uuid.UUID, keyword string) error
	ListExcludedKeywords(ctx context.Context, userID uuid.UUID) ([]string, error)
	ReplaceExcludedKeywords(ctx context.Context, userID uuid.UUID, keywords []string) error

	CreateGroup(ctx context.Context, userID uuid.UUID, name string) (*GroupDTO, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error)
	AddProductToGroup(ctx context.Context, userID uuid.UUID, groupID, productID int64) (*GroupItemDTO, error)
	RemoveProductFromGroup(ctx context.Context, groupID, productID int64) (bool, error)
	ListGroupProducts(ctx context.Context, groupID int64) ([]GroupProductDTO, error)

	SaveProduct(ctx context.Context, userID uuid.UUID, productID int64) error
	UnsaveProduct(ctx context.Context, userID uuid.UUID, productID int64) error
	ListSavedProducts(ctx context.Context, userID uuid.UUID) ([]SavedProductDTO, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error)
}

type service struct {
	repo prefsRepository
}

// NewService builds the preference service.
func NewService(repo prefsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("prefs repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) ExcludeBrand(ctx context.Context, userID uuid.UUID, brandID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	exists, err := s.repo.BrandExists(ctx, brandID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check brand")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	err = s.repo.CreateExcludedBrand(ctx, &dbmodels.ExcludedBrand{UserID: userID, BrandID: brandID})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "brand already excluded")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "exclude brand")
	}
	return nil
}

func (s *service) RemoveExcludedBrand(ctx context.Context, userID uuid.UUID, brandID int64) error {
	// Removing an absent pair is a no-op, not an error.
	if _, err := s.repo.DeleteExcludedBrand(ctx, userID, brandID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove excluded brand")
	}
	return nil
}

func (s *service) ListExcludedBrands(ctx context.Context, userID uuid.UUID) ([]ExcludedBrandDTO, error) {
	rows, err := s.repo.ListExcludedBrands(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list excluded brands")
	}
	if rows == nil {
		rows = []ExcludedBrandDTO{}
	}
	return rows, nil
}

func (s *service) ReplaceExcludedBrands(ctx context.Context, userID uuid.UUID, brandIDs []int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	brandIDs = dedupeInt64(brandIDs)
	for _, brandID := range brandIDs {
		exists, err := s.repo.BrandExists(ctx, brandID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check brand")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
	}
	if err := s.repo.ReplaceExcludedBrands(ctx, userID, brandIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace excluded brands")
	}
	return nil
}

func (s *service) ExcludeKeyword(ctx context.Context, userID uuid.UUID, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	err := s.repo.CreateExcludedKeyword(ctx, &dbmodels.ExcludedKeyword{UserID: userID, Keyword: keyword})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "exclude keyword")
	}
	return nil
}

func (s *service) RemoveExcludedKeyword(ctx context.Context, userID uuid.UUID, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}
	if _, err := s.repo.DeleteExcludedKeyword(ctx, userID, keyword); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove excluded keyword")
	}
	return nil
}

func (s *service) ListExcludedKeywords(ctx context.Context, userID uuid.UUID) ([]string, error) {
	keywords, err := s.repo.ListExcludedKeywords(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list excluded keywords")
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}

func (s *service) ReplaceExcludedKeywords(ctx context.Context, userID uuid.UUID, keywords []string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "keywords must not be blank")
		}
		cleaned = append(cleaned, keyword)
	}
	if err := s.repo.ReplaceExcludedKeywords(ctx, userID, cleaned); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace excluded keywords")
	}
	return nil
}

func (s *service) CreateGroup(ctx context.Context, userID uuid.UUID, name string) (*GroupDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group name is required")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	group := &dbmodels.FavoriteGroup{UserID: userID, Name: name}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
	}
	dto := toGroupDTO(group)
	return &dto, nil
}

func (s *service) ListGroups(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error) {
	groups, err := s.repo.ListGroups(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}
	dtos := make([]GroupDTO, 0, len(groups))
	for i := range groups {
		dtos = append(dtos, toGroupDTO(&groups[i]))
	}
	return dtos, nil
}

func (s *service) AddProductToGroup(ctx context.Context, userID uuid.UUID, groupID, productID int64) (*GroupItemDTO, error) {
	group, err := s.repo.FindGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	// A group owned by another user is indistinguishable from a missing one.
	if group.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	item, _, err := s.repo.AddGroupItem(ctx, &dbmodels.FavoriteGroupItem{
		UserID:    userID,
		GroupID:   groupID,
		ProductID: productID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add product to group")
	}
	return &GroupItemDTO{
		ID:        item.ID,
		GroupID:   item.GroupID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}, nil
}

func (s *service) RemoveProductFromGroup(ctx context.Context, groupID, productID int64) (bool, error) {
	removed, err := s.repo.DeleteGroupItem(ctx, groupID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove product from group")
	}
	return removed, nil
}

func (s *service) ListGroupProducts(ctx context.Context, groupID int64) ([]GroupProductDTO, error) {
	rows, err := s.repo.ListGroupProducts(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group products")
	}
	if rows == nil {
		rows = []GroupProductDTO{}
	}
	return rows, nil
}

func (s *service) SaveProduct(ctx context.Context, userID uuid.UUID, productID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if _, _, err := s.repo.SaveProduct(ctx, &dbmodels.SavedProduct{UserID: userID, ProductID: productID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	return nil
}

func (s *service) UnsaveProduct(ctx context.Context, userID uuid.UUID, productID int64) error {
	if _, err := s.repo.DeleteSavedProduct(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unsave product")
	}
	return nil
}

func (s *service) ListSavedProducts(ctx context.Context, userID uuid.UUID) ([]SavedProductDTO, error) {
	rows, err := s.repo.ListSavedProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list saved products")
	}
	if rows == nil {
		rows = []SavedProductDTO{}
	}
	return rows, nil
}

func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferencesDTO, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	brands, err := s.ListExcludedBrands(ctx, userID)
	if err != nil {
		return nil, err
	}
	keywords, err := s.ListExcludedKeywords(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.ListGroups(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A user with nothing stored has no preference document at all.
	if len(brands) == 0 && len(keywords) == 0 && len(groups) == 0 {
		return nil, nil
	}
	return &PreferencesDTO{
		UserID:           userID,
		ExcludedBrands:   brands,
		ExcludedKeywords: keywords,
		FavoriteGroups:   groups,
	}, nil
}

func toGroupDTO(group *dbmodels.FavoriteGroup) GroupDTO {
	return GroupDTO{
		ID:        group.ID,
		UserID:    group.UserID,
		Name:      group.Name,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
}

func dedupeInt64(values []int64) []int64 {
	seen := make(map[int64]struct{}, len(values))
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
