package usecase

import (
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CheckoutUseCase = (*checkoutUseCase)(nil)

type checkoutUseCase struct {
	userRepo    domain.UserRepository
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	log         *logrus.Logger
}

func NewCheckoutUseCase(
	userRepo domain.UserRepository,
	cartRepo domain.CartRepository,
	productRepo domain.ProductRepository,
	orderRepo domain.OrderRepository,
	logger *logrus.Logger,
) domain.CheckoutUseCase {
	return &checkoutUseCase{
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		log:         logger,
	}
}

// PlaceOrder turns the user's cart into an order. Prices are snapshotted from
// the current sale price and the delivery address is copied by value from the
// user's main address. Stock is reserved by the repository inside a single
// transaction, so a concurrent checkout for the same product cannot oversell:
// the losing request fails and nothing it touched persists.
func (uc *checkoutUseCase) PlaceOrder(userID int64) (*domain.Order, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user ID")
	}

	user, err := uc.userRepo.GetUserByID(userID)
	if err != nil {
		uc.log.Warnf("Use Case: Checkout failed, user %d lookup: %v", userID, err)
		return nil, err
	}

	mainAddress := user.MainAddress()
	if mainAddress == nil {
		uc.log.Warnf("Use Case: Checkout failed for user %d: no main address", userID)
		return nil, fmt.Errorf("invalid checkout: no main delivery address is set")
	}

	cart, err := uc.cartRepo.GetCartByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		uc.log.Warnf("Use Case: Checkout failed for user %d: cart is empty", userID)
		return nil, fmt.Errorf("invalid checkout: cart is empty")
	}

	uc.log.Infof("Use Case: Starting checkout for user %d with %d cart lines", userID, len(cart.Items))

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("invalid cart line for product %d: quantity must be positive", line.ProductID)
		}

		product, err := uc.productRepo.GetProductByID(line.ProductID)
		if err != nil {
			uc.log.Warnf("Use Case: Checkout failed for user %d, product %d lookup: %v", userID, line.ProductID, err)
			return nil, err
		}
		if product.Stock < line.Quantity {
			uc.log.Warnf("Use Case: Insufficient stock for product %d (requested: %d, available: %d)", product.ID, line.Quantity, product.Stock)
			return nil, fmt.Errorf("insufficient stock for product %q (requested: %d, available: %d)", product.Name, line.Quantity, product.Stock)
		}

		items = append(items, domain.OrderItem{
			Product:  domain.ProductRef{ID: product.ID, Name: product.Name},
			Quantity: line.Quantity,
			Price:    product.SalePrice(),
		})
	}

	order := &domain.Order{
		User:  domain.UserRef{ID: user.ID, Name: user.Name, Phone: user.Phone},
		Items: items,
		Address: domain.OrderAddress{
			Address:        mainAddress.Address,
			Apartment:      mainAddress.Apartment,
			Entrance:       mainAddress.Entrance,
			Floor:          mainAddress.Floor,
			DomofonCode:    mainAddress.DomofonCode,
			CourierComment: mainAddress.CourierComment,
		},
		Status:     domain.StatusPending,
		TotalPrice: domain.TotalOf(items),
	}

	createdOrder, err := uc.orderRepo.CreateOrder(order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %s created successfully for user %d (total: %.2f)", createdOrder.OrderID, userID, createdOrder.TotalPrice)
	return createdOrder, nil
}
