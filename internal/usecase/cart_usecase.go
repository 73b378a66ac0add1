package usecase

import (
	"errors"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) GetCart(userID int64) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	cart, err := uc.cartRepo.GetCartByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to get cart for user %d: %v", userID, err)
		return nil, err
	}
	return cart, nil
}

func (uc *cartUseCase) AddItem(userID, productID int64, quantity int) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	if productID <= 0 {
		return nil, errors.New("invalid product ID")
	}
	if quantity < 1 {
		return nil, fmt.Errorf("invalid quantity %d: quantity must be positive", quantity)
	}

	// Adding more than the shelf holds is rejected up front; the checkout
	// transaction is still the authoritative guard.
	product, err := uc.productRepo.GetProductByID(productID)
	if err != nil {
		uc.log.Warnf("Use Case: Product %d lookup failed while adding to cart of user %d: %v", productID, userID, err)
		return nil, err
	}
	if product.Stock < quantity {
		uc.log.Warnf("Use Case: User %d requested %d of product %d but only %d in stock", userID, quantity, productID, product.Stock)
		return nil, fmt.Errorf("insufficient stock for product %q (requested: %d, available: %d)", product.Name, quantity, product.Stock)
	}

	cart, err := uc.cartRepo.UpsertItem(userID, productID, quantity)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to add product %d to cart of user %d: %v", productID, userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product %d added to cart of user %d (quantity %d)", productID, userID, quantity)
	return cart, nil
}

func (uc *cartUseCase) UpdateItem(userID, productID int64, quantity int) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	if productID <= 0 {
		return nil, errors.New("invalid product ID")
	}

	cart, err := uc.cartRepo.SetItemQuantity(userID, productID, quantity)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product %d in cart of user %d: %v", productID, userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Cart of user %d updated (product %d, quantity %d)", userID, productID, quantity)
	return cart, nil
}

func (uc *cartUseCase) RemoveItem(userID, productID int64) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	if productID <= 0 {
		return nil, errors.New("invalid product ID")
	}

	cart, err := uc.cartRepo.RemoveItem(userID, productID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to remove product %d from cart of user %d: %v", productID, userID, err)
		return nil, err
	}
	return cart, nil
}

func (uc *cartUseCase) ClearCart(userID int64) error {
	if userID <= 0 {
		return errors.New("invalid user ID")
	}
	if err := uc.cartRepo.ClearCart(userID); err != nil {
		uc.log.Errorf("Use Case: Repository failed to clear cart of user %d: %v", userID, err)
		return err
	}
	uc.log.Infof("Use Case: Cart cleared for user %d", userID)
	return nil
}
