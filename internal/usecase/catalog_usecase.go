package usecase

import (
	"errors"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CatalogUseCase = (*catalogUseCase)(nil)

// catalogUseCase covers category and brand management; both are flat
// dictionaries with the same validation rules.
type catalogUseCase struct {
	categoryRepo domain.CategoryRepository
	brandRepo    domain.BrandRepository
	log          *logrus.Logger
}

func NewCatalogUseCase(cRepo domain.CategoryRepository, bRepo domain.BrandRepository, logger *logrus.Logger) domain.CatalogUseCase {
	return &catalogUseCase{
		categoryRepo: cRepo,
		brandRepo:    bRepo,
		log:          logger,
	}
}

func (uc *catalogUseCase) CreateCategory(category *domain.Category) (*domain.Category, error) {
	if category.Name == "" {
		uc.log.Warn("Use Case: Attempted to create category with empty name")
		return nil, errors.New("category name cannot be empty")
	}

	createdCategory, err := uc.categoryRepo.CreateCategory(category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create category '%s': %v", category.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category '%s' created successfully with ID %d", createdCategory.Name, createdCategory.ID)
	return createdCategory, nil
}

func (uc *catalogUseCase) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	if category.ID <= 0 {
		return nil, errors.New("invalid category ID for update")
	}
	if category.Name == "" {
		return nil, errors.New("category name cannot be empty")
	}

	updatedCategory, err := uc.categoryRepo.UpdateCategory(category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update category ID %d: %v", category.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category ID %d updated successfully", updatedCategory.ID)
	return updatedCategory, nil
}

func (uc *catalogUseCase) DeleteCategory(id int64) error {
	if id <= 0 {
		return errors.New("invalid category ID for deletion")
	}
	if err := uc.categoryRepo.DeleteCategory(id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete category ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Category ID %d deleted successfully", id)
	return nil
}

func (uc *catalogUseCase) ListCategories() ([]domain.Category, error) {
	categories, err := uc.categoryRepo.ListCategories()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list categories: %v", err)
		return nil, err
	}
	return categories, nil
}

func (uc *catalogUseCase) CreateBrand(brand *domain.Brand) (*domain.Brand, error) {
	if brand.Name == "" {
		uc.log.Warn("Use Case: Attempted to create brand with empty name")
		return nil, errors.New("brand name cannot be empty")
	}

	createdBrand, err := uc.brandRepo.CreateBrand(brand)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create brand '%s': %v", brand.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Brand '%s' created successfully with ID %d", createdBrand.Name, createdBrand.ID)
	return createdBrand, nil
}

func (uc *catalogUseCase) UpdateBrand(brand *domain.Brand) (*domain.Brand, error) {
	if brand.ID <= 0 {
		return nil, errors.New("invalid brand ID for update")
	}
	if brand.Name == "" {
		return nil, errors.New("brand name cannot be empty")
	}

	updatedBrand, err := uc.brandRepo.UpdateBrand(brand)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update brand ID %d: %v", brand.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Brand ID %d updated successfully", updatedBrand.ID)
	return updatedBrand, nil
}

func (uc *catalogUseCase) DeleteBrand(id int64) error {
	if id <= 0 {
		return errors.New("invalid brand ID for deletion")
	}
	if err := uc.brandRepo.DeleteBrand(id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete brand ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Brand ID %d deleted successfully", id)
	return nil
}

func (uc *catalogUseCase) ListBrands() ([]domain.Brand, error) {
	brands, err := uc.brandRepo.ListBrands()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list brands: %v", err)
		return nil, err
	}
	return brands, nil
}
