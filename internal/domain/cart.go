package domain

type CartItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"userId"`
	Items  []CartItem `json:"items"`
}

type CartUseCase interface {
	GetCart(userID int64) (*Cart, error)
	AddItem(userID, productID int64, quantity int) (*Cart, error)
	UpdateItem(userID, productID int64, quantity int) (*Cart, error)
	RemoveItem(userID, productID int64) (*Cart, error)
	ClearCart(userID int64) error
}

type CartRepository interface {
	// GetCartByUserID returns the user's cart, creating an empty one on
	// first read.
	GetCartByUserID(userID int64) (*Cart, error)
	UpsertItem(userID, productID int64, quantity int) (*Cart, error)
	SetItemQuantity(userID, productID int64, quantity int) (*Cart, error)
	RemoveItem(userID, productID int64) (*Cart, error)
	ClearCart(userID int64) error
}
