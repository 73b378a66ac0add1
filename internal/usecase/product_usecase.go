package usecase

import (
	"errors"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	brandRepo    domain.BrandRepository
	log          *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, cRepo domain.CategoryRepository, bRepo domain.BrandRepository, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		brandRepo:    bRepo,
		log:          logger,
	}
}

func (uc *productUseCase) CreateProduct(product *domain.Product) (*domain.Product, error) {
	if product.Name == "" {
		uc.log.Warn("Use Case: Attempted to create product with empty name")
		return nil, errors.New("product name cannot be empty")
	}
	if product.Price <= 0 {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with invalid price: %f", product.Name, product.Price)
		return nil, errors.New("product price must be positive")
	}
	if product.Stock < 0 {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with negative stock: %d", product.Name, product.Stock)
		return nil, errors.New("product stock cannot be negative")
	}
	if product.Discount < 0 || product.Discount > 100 {
		return nil, errors.New("product discount must be between 0 and 100")
	}
	if product.Discount > 0 {
		product.DiscountPrice = product.Price * (100 - float64(product.Discount)) / 100
	} else {
		product.DiscountPrice = 0
	}
	if product.CategoryID != 0 {
		if _, err := uc.categoryRepo.GetCategoryByID(product.CategoryID); err != nil {
			uc.log.Warnf("Use Case: Category ID %d not found during product creation: %v", product.CategoryID, err)
			return nil, fmt.Errorf("category with id %d does not exist", product.CategoryID)
		}
	}
	if product.BrandID != 0 {
		if _, err := uc.brandRepo.GetBrandByID(product.BrandID); err != nil {
			uc.log.Warnf("Use Case: Brand ID %d not found during product creation: %v", product.BrandID, err)
			return nil, fmt.Errorf("brand with id %d does not exist", product.BrandID)
		}
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	createdProduct, err := uc.productRepo.CreateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", createdProduct.Name, createdProduct.ID)
	return createdProduct, nil
}

func (uc *productUseCase) GetProductByID(id int64) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get product with invalid ID: %d", id)
		return nil, errors.New("invalid product ID")
	}

	product, err := uc.productRepo.GetProductByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) UpdateProduct(id int64, updates map[string]interface{}) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid product ID: %d", id)
		return nil, errors.New("invalid product ID for update")
	}
	if len(updates) == 0 {
		uc.log.Warnf("Use Case: Attempted update for product ID %d with no fields", id)
		return uc.productRepo.GetProductByID(id)
	}

	current, err := uc.productRepo.GetProductByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Product ID %d not found for update: %v", id, err)
		return nil, err
	}

	validUpdates := make(map[string]interface{})
	for key, value := range updates {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || name == "" {
				uc.log.Warnf("Use Case: Invalid or empty 'name' provided for update ID %d", id)
				return nil, errors.New("product name cannot be empty if provided for update")
			}
			validUpdates[key] = name
		case "description", "image":
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("product %s must be a string if provided for update", key)
			}
			validUpdates[key] = text
		case "price":
			price, ok := toFloat(value)
			if !ok || price <= 0 {
				uc.log.Warnf("Use Case: Invalid or non-positive 'price' provided for update ID %d", id)
				return nil, errors.New("product price must be positive if provided for update")
			}
			validUpdates[key] = price
		case "discount":
			discount, ok := toInt(value)
			if !ok || discount < 0 || discount > 100 {
				return nil, errors.New("product discount must be between 0 and 100 if provided for update")
			}
			validUpdates[key] = discount
		case "stock":
			stock, ok := toInt(value)
			if !ok || stock < 0 {
				uc.log.Warnf("Use Case: Invalid or negative 'stock' provided for update ID %d", id)
				return nil, errors.New("product stock cannot be negative if provided for update")
			}
			validUpdates[key] = stock
		case "category_id":
			categoryID, ok := toInt64(value)
			if !ok || categoryID < 0 {
				return nil, errors.New("invalid category_id provided for update")
			}
			if categoryID != 0 {
				if _, err := uc.categoryRepo.GetCategoryByID(categoryID); err != nil {
					return nil, fmt.Errorf("category with id %d does not exist", categoryID)
				}
			}
			validUpdates[key] = categoryID
		case "brand_id":
			brandID, ok := toInt64(value)
			if !ok || brandID < 0 {
				return nil, errors.New("invalid brand_id provided for update")
			}
			if brandID != 0 {
				if _, err := uc.brandRepo.GetBrandByID(brandID); err != nil {
					return nil, fmt.Errorf("brand with id %d does not exist", brandID)
				}
			}
			validUpdates[key] = brandID
		default:
			uc.log.Warnf("Use Case: Skipping unknown field '%s' for product update ID %d", key, id)
		}
	}
	if len(validUpdates) == 0 {
		return current, nil
	}

	// Keep the derived discount price consistent when either input changes.
	price := current.Price
	if p, ok := validUpdates["price"].(float64); ok {
		price = p
	}
	discount := current.Discount
	if d, ok := validUpdates["discount"].(int); ok {
		discount = d
	}
	if _, priceChanged := validUpdates["price"]; priceChanged || hasKey(validUpdates, "discount") {
		if discount > 0 {
			validUpdates["discount_price"] = price * (100 - float64(discount)) / 100
		} else {
			validUpdates["discount_price"] = nil
		}
	}

	updatedProduct, err := uc.productRepo.UpdateProduct(id, validUpdates)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product ID %d updated successfully", id)
	return updatedProduct, nil
}

func (uc *productUseCase) DeleteProduct(id int64) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid product ID: %d", id)
		return errors.New("invalid product ID for deletion")
	}

	if err := uc.productRepo.DeleteProduct(id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}

	uc.log.Infof("Use Case: Product ID %d deleted successfully", id)
	return nil
}

func (uc *productUseCase) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(filter)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	return products, nil
}

func hasKey(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}

// JSON numbers decode as float64; admin clients may also send integers.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
