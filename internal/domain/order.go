package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// allowedTransitions encodes the order lifecycle. A cancelled order may be
// reactivated into any non-cancelled state; stock is re-validated on the way
// out. Delivered is terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderAddress is the delivery address snapshot copied by value from the
// user's main address at checkout time.
type OrderAddress struct {
	Address        string `json:"address"`
	Apartment      string `json:"apartment,omitempty"`
	Entrance       string `json:"entrance,omitempty"`
	Floor          string `json:"floor,omitempty"`
	DomofonCode    string `json:"domofonCode,omitempty"`
	CourierComment string `json:"courierComment,omitempty"`
}

type ProductRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CourierRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type OrderItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Rated    bool       `json:"rated"`
	Rating   int        `json:"rating,omitempty"`
	Comment  string     `json:"comment,omitempty"`
}

type Order struct {
	ID           int64        `json:"-"`
	OrderID      string       `json:"orderId"`
	User         UserRef      `json:"user"`
	Courier      *CourierRef  `json:"courier,omitempty"`
	Items        []OrderItem  `json:"items"`
	Address      OrderAddress `json:"address"`
	Status       OrderStatus  `json:"status"`
	TotalPrice   float64      `json:"totalPrice"`
	StockReduced bool         `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TotalOf computes the order total from line-item price snapshots.
func TotalOf(items []OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

type OrderRepository interface {
	// CreateOrder mints the next order number, inserts the order and its item
	// snapshots, decrements product stock with a floor check and clears the
	// user's cart, all within one transaction.
	CreateOrder(order *Order) (*Order, error)
	GetOrderByOrderID(orderID string) (*Order, error)
	ListOrdersByUserID(userID int64, limit, offset int) ([]Order, error)
	ListOrders(status OrderStatus, limit, offset int) ([]Order, error)
	// UpdateOrderStatus persists the status change together with the stock
	// adjustment the transition requires (restore on cancel, re-decrement on
	// reactivation), atomically.
	UpdateOrderStatus(orderID string, status OrderStatus) (*Order, error)
	AssignCourier(orderID string, courierID int64) (*Order, error)
	RateOrderItem(orderID string, productID int64, rating int, comment string) (*Order, error)
}

type CheckoutUseCase interface {
	// PlaceOrder creates an order from the user's cart and main address.
	PlaceOrder(userID int64) (*Order, error)
}

type OrderUseCase interface {
	GetOrder(orderID string, requestorID int64, isAdmin bool) (*Order, error)
	ListUserOrders(userID int64, limit, offset int) ([]Order, error)
	ListAllOrders(status OrderStatus, limit, offset int) ([]Order, error)
	UpdateStatus(orderID string, status OrderStatus) (*Order, error)
	AssignCourier(orderID string, courierID int64) (*Order, error)
	RateItem(orderID string, requestorID, productID int64, rating int, comment string) (*Order, error)
}
