package usecase

import (
	"errors"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	courierRepo domain.CourierRepository
	log         *logrus.Logger
}

func NewOrderUseCase(orderRepo domain.OrderRepository, courierRepo domain.CourierRepository, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		courierRepo: courierRepo,
		log:         logger,
	}
}

func (uc *orderUseCase) GetOrder(orderID string, requestorID int64, isAdmin bool) (*domain.Order, error) {
	if orderID == "" {
		return nil, errors.New("invalid order ID")
	}
	order, err := uc.orderRepo.GetOrderByOrderID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get order %s: %v", orderID, err)
		return nil, err
	}
	if !isAdmin && order.User.ID != requestorID {
		uc.log.Warnf("Use Case: User %d attempted to access order %s owned by user %d", requestorID, orderID, order.User.ID)
		return nil, fmt.Errorf("forbidden: you are not allowed to view this order")
	}
	return order, nil
}

func (uc *orderUseCase) ListUserOrders(userID int64, limit, offset int) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}
	orders, err := uc.orderRepo.ListOrdersByUserID(userID, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders for user %d: %w", userID, err)
	}
	return orders, nil
}

func (uc *orderUseCase) ListAllOrders(status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if status != "" && !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid order status filter: %s", status)
	}
	orders, err := uc.orderRepo.ListOrders(status, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders (status %q): %v", status, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus applies one lifecycle transition. The stock side effect
// (restore when entering cancelled, re-validated decrement when leaving it)
// happens inside the repository transaction together with the status write,
// so a mid-loop stock failure rolls the whole transition back.
func (uc *orderUseCase) UpdateStatus(orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if orderID == "" {
		return nil, errors.New("invalid order ID for status update")
	}
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid target order status: %s", status)
	}

	currentOrder, err := uc.orderRepo.GetOrderByOrderID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Could not get order %s for status update check: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Current status for order %s is '%s'", orderID, currentOrder.Status)

	if currentOrder.Status == status {
		return nil, fmt.Errorf("invalid transition: order %s is already %s", orderID, status)
	}
	if !domain.CanTransition(currentOrder.Status, status) {
		uc.log.Warnf("Use Case: Rejected transition %s -> %s for order %s", currentOrder.Status, status, orderID)
		return nil, fmt.Errorf("invalid transition from %s to %s", currentOrder.Status, status)
	}

	updatedOrder, err := uc.orderRepo.UpdateOrderStatus(orderID, status)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for order %s: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %s status updated to %s", orderID, updatedOrder.Status)
	return updatedOrder, nil
}

func (uc *orderUseCase) AssignCourier(orderID string, courierID int64) (*domain.Order, error) {
	if orderID == "" {
		return nil, errors.New("invalid order ID for courier assignment")
	}
	if courierID <= 0 {
		return nil, errors.New("invalid courier ID")
	}

	courier, err := uc.courierRepo.GetCourierByID(courierID)
	if err != nil {
		uc.log.Warnf("Use Case: Courier %d lookup failed for order %s: %v", courierID, orderID, err)
		return nil, err
	}
	if !courier.Active {
		uc.log.Warnf("Use Case: Attempted to assign inactive courier %d to order %s", courierID, orderID)
		return nil, fmt.Errorf("invalid courier: courier %q is not active", courier.Name)
	}

	order, err := uc.orderRepo.AssignCourier(orderID, courierID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to assign courier %d to order %s: %v", courierID, orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Courier %s assigned to order %s", courier.Name, orderID)
	return order, nil
}

func (uc *orderUseCase) RateItem(orderID string, requestorID, productID int64, rating int, comment string) (*domain.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("invalid rating %d: rating must be between 1 and 5", rating)
	}

	order, err := uc.orderRepo.GetOrderByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if order.User.ID != requestorID {
		uc.log.Warnf("Use Case: User %d attempted to rate order %s owned by user %d", requestorID, orderID, order.User.ID)
		return nil, fmt.Errorf("forbidden: you are not allowed to rate this order")
	}
	if order.Status != domain.StatusDelivered {
		return nil, fmt.Errorf("invalid rating request: order %s is not delivered yet", orderID)
	}

	rated, err := uc.orderRepo.RateOrderItem(orderID, productID, rating, comment)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to rate product %d on order %s: %v", productID, orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product %d rated %d on order %s by user %d", productID, rating, orderID, requestorID)
	return rated, nil
}
