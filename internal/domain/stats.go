package domain

type ProductSales struct {
	Product  ProductRef `json:"product"`
	Quantity int64      `json:"quantity"`
}

type Statistics struct {
	OrdersByStatus map[OrderStatus]int64 `json:"ordersByStatus"`
	TotalRevenue   float64               `json:"totalRevenue"`
	TopProducts    []ProductSales        `json:"topProducts"`
}

type StatsUseCase interface {
	GetStatistics() (*Statistics, error)
}

type StatsRepository interface {
	CountOrdersByStatus() (map[OrderStatus]int64, error)
	// DeliveredRevenue sums totalPrice over delivered orders.
	DeliveredRevenue() (float64, error)
	TopProducts(limit int) ([]ProductSales, error)
}
