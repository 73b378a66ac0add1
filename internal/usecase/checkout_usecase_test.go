package usecase

import (
	"fmt"
	"sync"
	"testing"

	"mixmall_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutEnv struct {
	store    *fakeStore
	users    *fakeUserRepo
	carts    *fakeCartRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo
	checkout domain.CheckoutUseCase
}

func newCheckoutEnv() *checkoutEnv {
	store := newFakeStore()
	env := &checkoutEnv{
		store:    store,
		users:    &fakeUserRepo{s: store},
		carts:    &fakeCartRepo{s: store},
		products: &fakeProductRepo{s: store},
		orders:   &fakeOrderRepo{s: store},
	}
	env.checkout = NewCheckoutUseCase(env.users, env.carts, env.products, env.orders, testLogger())
	return env
}

func (env *checkoutEnv) seedUser(t *testing.T, withAddress bool) *domain.User {
	t.Helper()
	user, err := env.users.CreateUser(&domain.User{
		Name:  "Aziz",
		Phone: "+998901234567",
		Role:  domain.RoleCustomer,
	})
	require.NoError(t, err)
	if withAddress {
		_, err = env.users.AddAddress(&domain.Address{
			UserID:  user.ID,
			Address: "Amir Temur 42",
			IsMain:  true,
		})
		require.NoError(t, err)
	}
	return user
}

func (env *checkoutEnv) seedProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	product, err := env.products.CreateProduct(&domain.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	})
	require.NoError(t, err)
	return product
}

func TestPlaceOrder(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, true)
	product := env.seedProduct(t, "Kettle", 1000, 5)

	_, err := env.carts.UpsertItem(user.ID, product.ID, 3)
	require.NoError(t, err)

	order, err := env.checkout.PlaceOrder(user.ID)
	require.NoError(t, err)

	assert.Equal(t, "1", order.OrderID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, 3000.0, order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].Product.ID)
	assert.Equal(t, "Kettle", order.Items[0].Product.Name)
	assert.Equal(t, 1000.0, order.Items[0].Price)
	assert.Equal(t, "Amir Temur 42", order.Address.Address)

	// Stock was reserved and the cart emptied.
	updated, err := env.products.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)

	cart, err := env.carts.GetCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrderUsesDiscountPrice(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, true)
	product, err := env.products.CreateProduct(&domain.Product{
		Name:          "Vacuum",
		Price:         2000,
		Discount:      25,
		DiscountPrice: 1500,
		Stock:         10,
	})
	require.NoError(t, err)

	_, err = env.carts.UpsertItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	order, err := env.checkout.PlaceOrder(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, order.Items[0].Price)
	assert.Equal(t, 3000.0, order.TotalPrice)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, true)

	_, err := env.checkout.PlaceOrder(user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")

	// A rejected checkout must not consume an order number.
	assert.Equal(t, int64(0), env.store.seq)
}

func TestPlaceOrderNoMainAddress(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, false)
	product := env.seedProduct(t, "Kettle", 1000, 5)

	_, err := env.carts.UpsertItem(user.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = env.checkout.PlaceOrder(user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no main delivery address")
	assert.Equal(t, int64(0), env.store.seq)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, true)
	product := env.seedProduct(t, "Kettle", 1000, 2)

	_, err := env.carts.UpsertItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	// Stock shrinks after the item went into the cart.
	_, err = env.products.UpdateProduct(product.ID, map[string]interface{}{"stock": 1})
	require.NoError(t, err)

	_, err = env.checkout.PlaceOrder(user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// Nothing was decremented and the cart survived.
	remaining, err := env.products.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining.Stock)

	cart, err := env.carts.GetCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestPlaceOrderPartialStockFailureLeavesNothingBehind(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, true)
	kettle := env.seedProduct(t, "Kettle", 1000, 5)
	vacuum := env.seedProduct(t, "Vacuum", 2000, 1)

	_, err := env.carts.UpsertItem(user.ID, kettle.ID, 2)
	require.NoError(t, err)
	_, err = env.carts.UpsertItem(user.ID, vacuum.ID, 1)
	require.NoError(t, err)
	_, err = env.products.UpdateProduct(vacuum.ID, map[string]interface{}{"stock": 0})
	require.NoError(t, err)

	_, err = env.checkout.PlaceOrder(user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// The first line's stock must not have been touched by the failed checkout.
	kettleAfter, err := env.products.GetProductByID(kettle.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, kettleAfter.Stock)
}

// gatedOrderRepo holds every checkout at the commit step until all expected
// checkouts have passed their cart validation, then serializes the commits.
// That widens the window between the stale stock read and the write, so the
// floor check at decrement time is the only thing preventing an oversell.
type gatedOrderRepo struct {
	*fakeOrderRepo
	arrive *sync.WaitGroup
	mu     sync.Mutex
}

func (r *gatedOrderRepo) CreateOrder(order *domain.Order) (*domain.Order, error) {
	r.arrive.Done()
	r.arrive.Wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fakeOrderRepo.CreateOrder(order)
}

func TestPlaceOrderConcurrentCheckoutsNeverOversell(t *testing.T) {
	env := newCheckoutEnv()
	product := env.seedProduct(t, "Kettle", 1000, 5)

	var arrive sync.WaitGroup
	arrive.Add(2)
	gated := &gatedOrderRepo{fakeOrderRepo: env.orders, arrive: &arrive}
	checkout := NewCheckoutUseCase(env.users, env.carts, env.products, gated, testLogger())

	users := make([]*domain.User, 2)
	for i := range users {
		user, err := env.users.CreateUser(&domain.User{
			Name:  fmt.Sprintf("Buyer %d", i+1),
			Phone: fmt.Sprintf("+99890123456%d", i),
			Role:  domain.RoleCustomer,
		})
		require.NoError(t, err)
		_, err = env.users.AddAddress(&domain.Address{UserID: user.ID, Address: "Amir Temur 42"})
		require.NoError(t, err)
		_, err = env.carts.UpsertItem(user.ID, product.ID, 3)
		require.NoError(t, err)
		users[i] = user
	}

	// Both checkouts see stock 5 and ask for 3; only one may win.
	errs := make(chan error, len(users))
	for _, user := range users {
		user := user
		go func() {
			_, err := checkout.PlaceOrder(user.ID)
			errs <- err
		}()
	}

	failures := 0
	for range users {
		if err := <-errs; err != nil {
			failures++
			assert.Contains(t, err.Error(), "insufficient stock")
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, int64(1), env.store.seq)

	remaining, err := env.products.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining.Stock)
}

func TestPlaceOrderSequentialOrderIDs(t *testing.T) {
	env := newCheckoutEnv()
	user := env.seedUser(t, true)
	product := env.seedProduct(t, "Kettle", 1000, 10)

	for _, want := range []string{"1", "2", "3"} {
		_, err := env.carts.UpsertItem(user.ID, product.ID, 1)
		require.NoError(t, err)
		order, err := env.checkout.PlaceOrder(user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderID)
	}
}

func TestPlaceOrderUnknownUser(t *testing.T) {
	env := newCheckoutEnv()
	_, err := env.checkout.PlaceOrder(99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
