package domain

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CatalogUseCase interface {
	CreateCategory(category *Category) (*Category, error)
	UpdateCategory(category *Category) (*Category, error)
	DeleteCategory(id int64) error
	ListCategories() ([]Category, error)

	CreateBrand(brand *Brand) (*Brand, error)
	UpdateBrand(brand *Brand) (*Brand, error)
	DeleteBrand(id int64) error
	ListBrands() ([]Brand, error)
}

type CategoryRepository interface {
	CreateCategory(category *Category) (*Category, error)
	GetCategoryByID(id int64) (*Category, error)
	UpdateCategory(category *Category) (*Category, error)
	DeleteCategory(id int64) error
	ListCategories() ([]Category, error)
}

type BrandRepository interface {
	CreateBrand(brand *Brand) (*Brand, error)
	GetBrandByID(id int64) (*Brand, error)
	UpdateBrand(brand *Brand) (*Brand, error)
	DeleteBrand(id int64) error
	ListBrands() ([]Brand, error)
}
