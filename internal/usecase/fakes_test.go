package usecase

import (
	"fmt"
	"io"
	"strconv"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeStore is the shared in-memory backing for the fake repositories. The
// fakes mirror the transactional semantics of the real Postgres layer: order
// creation decrements stock with a floor check, mints the counter and clears
// the cart as one all-or-nothing step.
type fakeStore struct {
	users    map[int64]*domain.User
	products map[int64]*domain.Product
	carts    map[int64][]domain.CartItem
	orders   map[string]*domain.Order
	couriers map[int64]*domain.Courier
	seq      int64
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*domain.User),
		products: make(map[int64]*domain.Product),
		carts:    make(map[int64][]domain.CartItem),
		orders:   make(map[string]*domain.Order),
		couriers: make(map[int64]*domain.Courier),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// --- user repository ---

type fakeUserRepo struct {
	s *fakeStore
}

func (r *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	for _, existing := range r.s.users {
		if existing.Phone == user.Phone {
			return nil, fmt.Errorf("user with phone %s already exists", user.Phone)
		}
	}
	stored := *user
	stored.ID = r.s.id()
	r.s.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByPhone(phone string) (*domain.User, error) {
	for _, user := range r.s.users {
		if user.Phone == phone {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user with phone %s not found", phone)
}

func (r *fakeUserRepo) GetUserByID(id int64) (*domain.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", id)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateUser(id int64, updates map[string]interface{}) (*domain.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", id)
	}
	for key, value := range updates {
		str, _ := value.(string)
		switch key {
		case "name":
			user.Name = str
		case "phone":
			user.Phone = str
		case "email":
			user.Email = str
		case "password_hash":
			user.PasswordHash = str
		}
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) ListUsersByRole(role domain.UserRole) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.s.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) DeleteUser(id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("user with id %d not found", id)
	}
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) AddAddress(address *domain.Address) (*domain.Address, error) {
	user, ok := r.s.users[address.UserID]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", address.UserID)
	}
	stored := *address
	stored.ID = r.s.id()
	// Promotion is decided at insert time, never taken from the caller.
	stored.IsMain = len(user.Addresses) == 0
	user.Addresses = append(user.Addresses, stored)
	copied := stored
	return &copied, nil
}

func (r *fakeUserRepo) UpdateAddress(address *domain.Address) (*domain.Address, error) {
	user, ok := r.s.users[address.UserID]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", address.UserID)
	}
	for i := range user.Addresses {
		if user.Addresses[i].ID == address.ID {
			isMain := user.Addresses[i].IsMain
			user.Addresses[i] = *address
			user.Addresses[i].IsMain = isMain
			copied := user.Addresses[i]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("address with id %d not found", address.ID)
}

func (r *fakeUserRepo) DeleteAddress(userID, addressID int64) error {
	user, ok := r.s.users[userID]
	if !ok {
		return fmt.Errorf("user with id %d not found", userID)
	}
	for i := range user.Addresses {
		if user.Addresses[i].ID == addressID {
			user.Addresses = append(user.Addresses[:i], user.Addresses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("address with id %d not found", addressID)
}

func (r *fakeUserRepo) SetMainAddress(userID, addressID int64) error {
	user, ok := r.s.users[userID]
	if !ok {
		return fmt.Errorf("user with id %d not found", userID)
	}
	found := false
	for i := range user.Addresses {
		user.Addresses[i].IsMain = user.Addresses[i].ID == addressID
		if user.Addresses[i].IsMain {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("address with id %d not found", addressID)
	}
	return nil
}

// --- product repository ---

type fakeProductRepo struct {
	s *fakeStore
}

func (r *fakeProductRepo) CreateProduct(product *domain.Product) (*domain.Product, error) {
	stored := *product
	stored.ID = r.s.id()
	r.s.products[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeProductRepo) GetProductByID(id int64) (*domain.Product, error) {
	product, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) UpdateProduct(id int64, updates map[string]interface{}) (*domain.Product, error) {
	product, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	for key, value := range updates {
		switch key {
		case "name":
			product.Name, _ = value.(string)
		case "price":
			product.Price, _ = value.(float64)
		case "stock":
			stock, _ := value.(int)
			product.Stock = stock
		case "discount":
			discount, _ := value.(int)
			product.Discount = discount
		case "discount_price":
			if value == nil {
				product.DiscountPrice = 0
			} else {
				product.DiscountPrice, _ = value.(float64)
			}
		}
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) DeleteProduct(id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return fmt.Errorf("product with id %d not found", id)
	}
	delete(r.s.products, id)
	return nil
}

func (r *fakeProductRepo) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	var result []domain.Product
	for _, product := range r.s.products {
		if filter.CategoryID != 0 && product.CategoryID != filter.CategoryID {
			continue
		}
		if filter.BrandID != 0 && product.BrandID != filter.BrandID {
			continue
		}
		result = append(result, *product)
	}
	return result, nil
}

// --- cart repository ---

type fakeCartRepo struct {
	s *fakeStore
}

func (r *fakeCartRepo) cartOf(userID int64) *domain.Cart {
	items := make([]domain.CartItem, len(r.s.carts[userID]))
	copy(items, r.s.carts[userID])
	return &domain.Cart{ID: userID, UserID: userID, Items: items}
}

func (r *fakeCartRepo) GetCartByUserID(userID int64) (*domain.Cart, error) {
	return r.cartOf(userID), nil
}

func (r *fakeCartRepo) UpsertItem(userID, productID int64, quantity int) (*domain.Cart, error) {
	items := r.s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return r.cartOf(userID), nil
		}
	}
	product, ok := r.s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", productID)
	}
	r.s.carts[userID] = append(items, domain.CartItem{
		ProductID: productID,
		Name:      product.Name,
		Price:     product.SalePrice(),
		Quantity:  quantity,
	})
	return r.cartOf(userID), nil
}

func (r *fakeCartRepo) SetItemQuantity(userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return r.RemoveItem(userID, productID)
	}
	items := r.s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return r.cartOf(userID), nil
		}
	}
	return nil, fmt.Errorf("product with id %d not found in cart", productID)
}

func (r *fakeCartRepo) RemoveItem(userID, productID int64) (*domain.Cart, error) {
	items := r.s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			r.s.carts[userID] = append(items[:i], items[i+1:]...)
			break
		}
	}
	return r.cartOf(userID), nil
}

func (r *fakeCartRepo) ClearCart(userID int64) error {
	delete(r.s.carts, userID)
	return nil
}

// --- courier repository ---

type fakeCourierRepo struct {
	s *fakeStore
}

func (r *fakeCourierRepo) CreateCourier(courier *domain.Courier) (*domain.Courier, error) {
	stored := *courier
	stored.ID = r.s.id()
	r.s.couriers[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeCourierRepo) GetCourierByID(id int64) (*domain.Courier, error) {
	courier, ok := r.s.couriers[id]
	if !ok {
		return nil, fmt.Errorf("courier with id %d not found", id)
	}
	copied := *courier
	return &copied, nil
}

func (r *fakeCourierRepo) UpdateCourier(courier *domain.Courier) (*domain.Courier, error) {
	if _, ok := r.s.couriers[courier.ID]; !ok {
		return nil, fmt.Errorf("courier with id %d not found", courier.ID)
	}
	stored := *courier
	r.s.couriers[courier.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeCourierRepo) DeleteCourier(id int64) error {
	if _, ok := r.s.couriers[id]; !ok {
		return fmt.Errorf("courier with id %d not found", id)
	}
	delete(r.s.couriers, id)
	return nil
}

func (r *fakeCourierRepo) ListCouriers() ([]domain.Courier, error) {
	var result []domain.Courier
	for _, courier := range r.s.couriers {
		result = append(result, *courier)
	}
	return result, nil
}

// --- order repository ---

type fakeOrderRepo struct {
	s *fakeStore
}

func (r *fakeOrderRepo) decrement(items []domain.OrderItem) error {
	// Validate the whole set before touching anything, matching the
	// all-or-nothing behavior of the real transaction.
	for _, item := range items {
		product, ok := r.s.products[item.Product.ID]
		if !ok {
			return fmt.Errorf("product with id %d not found", item.Product.ID)
		}
		if product.Stock < item.Quantity {
			return fmt.Errorf("insufficient stock for product %q (requested: %d, available: %d)",
				product.Name, item.Quantity, product.Stock)
		}
	}
	for _, item := range items {
		r.s.products[item.Product.ID].Stock -= item.Quantity
	}
	return nil
}

func (r *fakeOrderRepo) restore(items []domain.OrderItem) {
	for _, item := range items {
		if product, ok := r.s.products[item.Product.ID]; ok {
			product.Stock += item.Quantity
		}
	}
}

func (r *fakeOrderRepo) CreateOrder(order *domain.Order) (*domain.Order, error) {
	if err := r.decrement(order.Items); err != nil {
		return nil, err
	}
	r.s.seq++
	stored := *order
	stored.ID = r.s.seq
	stored.OrderID = strconv.FormatInt(r.s.seq, 10)
	stored.StockReduced = true
	delete(r.s.carts, order.User.ID)
	r.s.orders[stored.OrderID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeOrderRepo) GetOrderByOrderID(orderID string) (*domain.Order, error) {
	order, ok := r.s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ListOrdersByUserID(userID int64, limit, offset int) ([]domain.Order, error) {
	var result []domain.Order
	for _, order := range r.s.orders {
		if order.User.ID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) ListOrders(status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	var result []domain.Order
	for _, order := range r.s.orders {
		if status != "" && order.Status != status {
			continue
		}
		result = append(result, *order)
	}
	return result, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := r.s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	// The real repository re-validates against the row it locked, not the
	// caller's earlier read.
	if order.Status == status {
		return nil, fmt.Errorf("invalid transition: order %s is already %s", orderID, status)
	}
	if !domain.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("invalid transition from %s to %s", order.Status, status)
	}
	if status == domain.StatusCancelled && order.StockReduced {
		r.restore(order.Items)
		order.StockReduced = false
	}
	if order.Status == domain.StatusCancelled && status != domain.StatusCancelled && !order.StockReduced {
		if err := r.decrement(order.Items); err != nil {
			return nil, err
		}
		order.StockReduced = true
	}
	order.Status = status
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) AssignCourier(orderID string, courierID int64) (*domain.Order, error) {
	order, ok := r.s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	courier, ok := r.s.couriers[courierID]
	if !ok {
		return nil, fmt.Errorf("courier with id %d not found", courierID)
	}
	order.Courier = &domain.CourierRef{ID: courier.ID, Name: courier.Name, Phone: courier.Phone}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) RateOrderItem(orderID string, productID int64, rating int, comment string) (*domain.Order, error) {
	order, ok := r.s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	for i := range order.Items {
		if order.Items[i].Product.ID == productID {
			if order.Items[i].Rated {
				return nil, fmt.Errorf("product %d on order %s is already rated", productID, orderID)
			}
			order.Items[i].Rated = true
			order.Items[i].Rating = rating
			order.Items[i].Comment = comment
			copied := *order
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("product %d not found on order %s", productID, orderID)
}

// --- category and brand repositories ---

type fakeCategoryRepo struct {
	s          *fakeStore
	categories map[int64]*domain.Category
}

func newFakeCategoryRepo(s *fakeStore) *fakeCategoryRepo {
	return &fakeCategoryRepo{s: s, categories: make(map[int64]*domain.Category)}
}

func (r *fakeCategoryRepo) CreateCategory(category *domain.Category) (*domain.Category, error) {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return nil, fmt.Errorf("category with name '%s' already exists", category.Name)
		}
	}
	stored := *category
	stored.ID = r.s.id()
	r.categories[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeCategoryRepo) GetCategoryByID(id int64) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with id %d not found", id)
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	if _, ok := r.categories[category.ID]; !ok {
		return nil, fmt.Errorf("category with id %d not found", category.ID)
	}
	stored := *category
	r.categories[category.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeCategoryRepo) DeleteCategory(id int64) error {
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("category with id %d not found", id)
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) ListCategories() ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

type fakeBrandRepo struct {
	s      *fakeStore
	brands map[int64]*domain.Brand
}

func newFakeBrandRepo(s *fakeStore) *fakeBrandRepo {
	return &fakeBrandRepo{s: s, brands: make(map[int64]*domain.Brand)}
}

func (r *fakeBrandRepo) CreateBrand(brand *domain.Brand) (*domain.Brand, error) {
	for _, existing := range r.brands {
		if existing.Name == brand.Name {
			return nil, fmt.Errorf("brand with name '%s' already exists", brand.Name)
		}
	}
	stored := *brand
	stored.ID = r.s.id()
	r.brands[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeBrandRepo) GetBrandByID(id int64) (*domain.Brand, error) {
	brand, ok := r.brands[id]
	if !ok {
		return nil, fmt.Errorf("brand with id %d not found", id)
	}
	copied := *brand
	return &copied, nil
}

func (r *fakeBrandRepo) UpdateBrand(brand *domain.Brand) (*domain.Brand, error) {
	if _, ok := r.brands[brand.ID]; !ok {
		return nil, fmt.Errorf("brand with id %d not found", brand.ID)
	}
	stored := *brand
	r.brands[brand.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeBrandRepo) DeleteBrand(id int64) error {
	if _, ok := r.brands[id]; !ok {
		return fmt.Errorf("brand with id %d not found", id)
	}
	delete(r.brands, id)
	return nil
}

func (r *fakeBrandRepo) ListBrands() ([]domain.Brand, error) {
	var result []domain.Brand
	for _, brand := range r.brands {
		result = append(result, *brand)
	}
	return result, nil
}
