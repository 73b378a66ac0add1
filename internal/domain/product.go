package domain

import "time"

type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Image         string    `json:"image,omitempty"`
	Price         float64   `json:"price"`
	Discount      int       `json:"discount"`
	DiscountPrice float64   `json:"discount_price,omitempty"`
	Stock         int       `json:"stock"`
	CategoryID    int64     `json:"category_id,omitempty"`
	BrandID       int64     `json:"brand_id,omitempty"`
	Rating        float64   `json:"rating"`
	RatingCount   int64     `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SalePrice is the price a buyer actually pays: the discount price when a
// discount is set, the list price otherwise. Order items snapshot this value.
func (p *Product) SalePrice() float64 {
	if p.Discount > 0 && p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

type ProductFilter struct {
	CategoryID int64
	BrandID    int64
	Limit      int
	Offset     int
}

type ProductUseCase interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int64) (*Product, error)
	UpdateProduct(id int64, updates map[string]interface{}) (*Product, error)
	DeleteProduct(id int64) error
	ListProducts(filter ProductFilter) ([]Product, error)
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int64) (*Product, error)
	UpdateProduct(id int64, updates map[string]interface{}) (*Product, error)
	DeleteProduct(id int64) error
	ListProducts(filter ProductFilter) ([]Product, error)
}
