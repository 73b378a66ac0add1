package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	valid := []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
	for _, status := range valid {
		assert.True(t, IsValidStatus(status), "expected %s to be valid", status)
	}
	assert.False(t, IsValidStatus("unknown"))
	assert.False(t, IsValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending cannot skip to shipped", StatusPending, StatusShipped, false},
		{"confirmed to processing", StatusConfirmed, StatusProcessing, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"delivered cannot go back", StatusDelivered, StatusPending, false},
		{"cancelled can be reactivated", StatusCancelled, StatusPending, true},
		{"cancelled can jump to shipped", StatusCancelled, StatusShipped, true},
		{"no backwards move", StatusShipped, StatusConfirmed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestTotalOf(t *testing.T) {
	items := []OrderItem{
		{Product: ProductRef{ID: 1, Name: "Kettle"}, Quantity: 3, Price: 1000},
		{Product: ProductRef{ID: 2, Name: "Mug"}, Quantity: 2, Price: 250.5},
	}
	assert.Equal(t, 3501.0, TotalOf(items))
	assert.Equal(t, 0.0, TotalOf(nil))
}

func TestProductSalePrice(t *testing.T) {
	full := Product{Price: 1000, Discount: 0, DiscountPrice: 0}
	assert.Equal(t, 1000.0, full.SalePrice())

	discounted := Product{Price: 1000, Discount: 20, DiscountPrice: 800}
	assert.Equal(t, 800.0, discounted.SalePrice())

	// A discount percentage without a computed price falls back to the list price.
	broken := Product{Price: 1000, Discount: 20, DiscountPrice: 0}
	assert.Equal(t, 1000.0, broken.SalePrice())
}

func TestMainAddress(t *testing.T) {
	user := User{
		Addresses: []Address{
			{ID: 1, Address: "Amir Temur 1"},
			{ID: 2, Address: "Navoi 15", IsMain: true},
		},
	}
	main := user.MainAddress()
	if assert.NotNil(t, main) {
		assert.Equal(t, int64(2), main.ID)
	}

	noMain := User{Addresses: []Address{{ID: 1, Address: "Amir Temur 1"}}}
	assert.Nil(t, noMain.MainAddress())

	empty := User{}
	assert.Nil(t, empty.MainAddress())
}
