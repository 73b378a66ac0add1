package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mixmall_backend/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (name, phone, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	r.log.Debugf("Repository: Attempting to create user with phone: %s", user.Phone)

	var email sql.NullString
	if user.Email != "" {
		email = sql.NullString{String: user.Email, Valid: true}
	}

	err := r.db.QueryRow(query, user.Name, user.Phone, email, user.PasswordHash, user.Role).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create user with duplicate phone or email: %s", user.Phone)
			return nil, fmt.Errorf("user with phone '%s' already exists", user.Phone)
		}
		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Phone, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: User created successfully with ID: %d, Phone: %s", user.ID, user.Phone)
	return user, nil
}

func scanUser(row *sql.Row, user *domain.User) error {
	var email sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.Email = email.String
	return err
}

func (r *postgresUserRepository) GetUserByPhone(phone string) (*domain.User, error) {
	query := `
        SELECT id, name, phone, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE phone = $1`
	user := &domain.User{}

	if err := scanUser(r.db.QueryRow(query, phone), user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with phone %s not found", phone)
			return nil, fmt.Errorf("user with phone %s not found", phone)
		}
		r.log.Errorf("Repository: Failed to get user by phone %s: %v", phone, err)
		return nil, fmt.Errorf("could not get user by phone: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(id int64) (*domain.User, error) {
	query := `
        SELECT id, name, phone, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE id = $1`
	user := &domain.User{}

	if err := scanUser(r.db.QueryRow(query, id), user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, fmt.Errorf("user with id %d not found", id)
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	addresses, err := r.listAddresses(id)
	if err != nil {
		return nil, err
	}
	user.Addresses = addresses
	return user, nil
}

func (r *postgresUserRepository) listAddresses(userID int64) ([]domain.Address, error) {
	query := `
        SELECT id, user_id, address, apartment, entrance, floor, domofon_code, courier_comment, is_main
        FROM addresses
        WHERE user_id = $1
        ORDER BY id ASC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list addresses for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		var addr domain.Address
		var apartment, entrance, floor, domofonCode, courierComment sql.NullString
		if err := rows.Scan(&addr.ID, &addr.UserID, &addr.Address, &apartment, &entrance, &floor, &domofonCode, &courierComment, &addr.IsMain); err != nil {
			return nil, fmt.Errorf("error scanning address: %w", err)
		}
		addr.Apartment = apartment.String
		addr.Entrance = entrance.String
		addr.Floor = floor.String
		addr.DomofonCode = domofonCode.String
		addr.CourierComment = courierComment.String
		addresses = append(addresses, addr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

func (r *postgresUserRepository) UpdateUser(id int64, updates map[string]interface{}) (*domain.User, error) {
	if len(updates) == 0 {
		return r.GetUserByID(id)
	}

	args := []interface{}{}
	setClauses := []string{}
	argCounter := 1

	for key, value := range updates {
		switch key {
		case "name", "phone", "email", "password_hash":
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
			args = append(args, value)
			argCounter++
		default:
			r.log.Warnf("Repository: Skipping unknown field '%s' provided for user update ID %d", key, id)
		}
	}
	if len(setClauses) == 0 {
		return r.GetUserByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Duplicate phone or email on user update ID %d", id)
			return nil, fmt.Errorf("user with this phone or email already exists")
		}
		r.log.Errorf("Repository: Failed to update user ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not confirm user update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: User with ID %d not found for update", id)
		return nil, fmt.Errorf("user with id %d not found for update", id)
	}

	r.log.Infof("Repository: User updated successfully with ID: %d", id)
	return r.GetUserByID(id)
}

func (r *postgresUserRepository) ListUsersByRole(role domain.UserRole) ([]domain.User, error) {
	query := `
        SELECT id, name, phone, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE role = $1
        ORDER BY id ASC`
	rows, err := r.db.Query(query, role)
	if err != nil {
		r.log.Errorf("Repository: Failed to list users with role %s: %v", role, err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		var email sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.Phone, &email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user data: %w", err)
		}
		user.Email = email.String
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	r.log.Infof("Repository: Retrieved %d users with role %s", len(users), role)
	return users, nil
}

func (r *postgresUserRepository) DeleteUser(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Attempted to delete user %d referenced by existing orders", id)
			return fmt.Errorf("user with id %d has existing orders and cannot be deleted", id)
		}
		r.log.Errorf("Repository: Failed to delete user ID %d: %v", id, err)
		return fmt.Errorf("could not delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm user deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent user ID %d", id)
		return fmt.Errorf("user with id %d not found for deletion", id)
	}
	r.log.Infof("Repository: User deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresUserRepository) AddAddress(address *domain.Address) (*domain.Address, error) {
	// The first saved address becomes the main one. Deciding that inside the
	// INSERT keeps insert and promotion atomic; the partial unique index on
	// (user_id) WHERE is_main backstops a concurrent first insert.
	query := `
        INSERT INTO addresses (user_id, address, apartment, entrance, floor, domofon_code, courier_comment, is_main)
        VALUES ($1, $2, $3, $4, $5, $6, $7,
                NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1))
        RETURNING id, is_main`
	err := r.db.QueryRow(query,
		address.UserID, address.Address, address.Apartment, address.Entrance,
		address.Floor, address.DomofonCode, address.CourierComment,
	).Scan(&address.ID, &address.IsMain)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("user with id %d not found", address.UserID)
		}
		r.log.Errorf("Repository: Failed to add address for user %d: %v", address.UserID, err)
		return nil, fmt.Errorf("could not add address: %w", err)
	}

	r.log.Infof("Repository: Address %d added for user %d (main: %t)", address.ID, address.UserID, address.IsMain)
	return address, nil
}

func (r *postgresUserRepository) UpdateAddress(address *domain.Address) (*domain.Address, error) {
	query := `
        UPDATE addresses
        SET address = $1, apartment = $2, entrance = $3, floor = $4, domofon_code = $5, courier_comment = $6
        WHERE id = $7 AND user_id = $8
        RETURNING id, is_main`
	err := r.db.QueryRow(query,
		address.Address, address.Apartment, address.Entrance, address.Floor,
		address.DomofonCode, address.CourierComment,
		address.ID, address.UserID,
	).Scan(&address.ID, &address.IsMain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Address %d not found for user %d", address.ID, address.UserID)
			return nil, fmt.Errorf("address with id %d not found", address.ID)
		}
		r.log.Errorf("Repository: Failed to update address %d: %v", address.ID, err)
		return nil, fmt.Errorf("could not update address: %w", err)
	}
	r.log.Infof("Repository: Address %d updated for user %d", address.ID, address.UserID)
	return address, nil
}

func (r *postgresUserRepository) DeleteAddress(userID, addressID int64) error {
	result, err := r.db.Exec(`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete address %d for user %d: %v", addressID, userID, err)
		return fmt.Errorf("could not delete address: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm address deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Address %d not found for user %d", addressID, userID)
		return fmt.Errorf("address with id %d not found", addressID)
	}
	r.log.Infof("Repository: Address %d deleted for user %d", addressID, userID)
	return nil
}

func (r *postgresUserRepository) SetMainAddress(userID, addressID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	if _, err = tx.Exec(`UPDATE addresses SET is_main = FALSE WHERE user_id = $1 AND is_main`, userID); err != nil {
		_ = tx.Rollback()
		r.log.Errorf("Repository: Failed to clear main flag for user %d: %v", userID, err)
		return fmt.Errorf("could not update main address: %w", err)
	}

	result, err := tx.Exec(`UPDATE addresses SET is_main = TRUE WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		_ = tx.Rollback()
		r.log.Errorf("Repository: Failed to set main address %d for user %d: %v", addressID, userID, err)
		return fmt.Errorf("could not set main address: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not confirm main address update: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		r.log.Warnf("Repository: Address %d not found for user %d when setting main", addressID, userID)
		return fmt.Errorf("address with id %d not found", addressID)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit main address transaction: %w", err)
	}

	r.log.Infof("Repository: Address %d set as main for user %d", addressID, userID)
	return nil
}
