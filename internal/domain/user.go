package domain

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Addresses    []Address `json:"addresses,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is a saved delivery address. The one flagged IsMain is used
// implicitly by checkout.
type Address struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"-"`
	Address        string `json:"address"`
	Apartment      string `json:"apartment,omitempty"`
	Entrance       string `json:"entrance,omitempty"`
	Floor          string `json:"floor,omitempty"`
	DomofonCode    string `json:"domofonCode,omitempty"`
	CourierComment string `json:"courierComment,omitempty"`
	IsMain         bool   `json:"isMain"`
}

// MainAddress returns the user's main address, or nil if none is flagged.
func (u *User) MainAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsMain {
			return &u.Addresses[i]
		}
	}
	return nil
}

type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UserUseCase interface {
	Register(name, phone, email, password string) (*AuthResult, error)
	Login(phone, password string) (*AuthResult, error)
	GetProfile(userID int64) (*User, error)
	UpdateProfile(userID int64, updates map[string]interface{}) (*User, error)

	AddAddress(userID int64, address *Address) (*Address, error)
	UpdateAddress(userID int64, address *Address) (*Address, error)
	DeleteAddress(userID, addressID int64) error
	SetMainAddress(userID, addressID int64) error

	ListAdmins() ([]User, error)
	CreateAdmin(name, phone, password string) (*User, error)
	DeleteAdmin(id int64) error
}

type UserRepository interface {
	CreateUser(user *User) (*User, error)
	GetUserByPhone(phone string) (*User, error)
	GetUserByID(id int64) (*User, error)
	UpdateUser(id int64, updates map[string]interface{}) (*User, error)
	ListUsersByRole(role UserRole) ([]User, error)
	DeleteUser(id int64) error

	AddAddress(address *Address) (*Address, error)
	UpdateAddress(address *Address) (*Address, error)
	DeleteAddress(userID, addressID int64) error
	// SetMainAddress flags the given address as main and clears the flag on
	// every other address of the user, atomically.
	SetMainAddress(userID, addressID int64) error
}
