package domain

type Courier struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
}

type CourierUseCase interface {
	CreateCourier(courier *Courier) (*Courier, error)
	UpdateCourier(courier *Courier) (*Courier, error)
	DeleteCourier(id int64) error
	ListCouriers() ([]Courier, error)
}

type CourierRepository interface {
	CreateCourier(courier *Courier) (*Courier, error)
	GetCourierByID(id int64) (*Courier, error)
	UpdateCourier(courier *Courier) (*Courier, error)
	DeleteCourier(id int64) error
	ListCouriers() ([]Courier, error)
}
