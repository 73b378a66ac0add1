package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresCourierRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCourierRepository(db *sql.DB, logger *logrus.Logger) domain.CourierRepository {
	return &postgresCourierRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCourierRepository) CreateCourier(courier *domain.Courier) (*domain.Courier, error) {
	query := `INSERT INTO couriers (name, phone, active) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(query, courier.Name, courier.Phone, courier.Active).Scan(&courier.ID)
	if err != nil {
		r.log.Errorf("Failed to create courier '%s': %v", courier.Name, err)
		return nil, fmt.Errorf("could not create courier: %w", err)
	}
	r.log.Infof("Courier created successfully with ID: %d, Name: %s", courier.ID, courier.Name)
	return courier, nil
}

func (r *postgresCourierRepository) GetCourierByID(id int64) (*domain.Courier, error) {
	query := `SELECT id, name, phone, active FROM couriers WHERE id = $1`
	courier := &domain.Courier{}
	err := r.db.QueryRow(query, id).Scan(&courier.ID, &courier.Name, &courier.Phone, &courier.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Courier with ID %d not found", id)
			return nil, fmt.Errorf("courier with id %d not found", id)
		}
		r.log.Errorf("Failed to get courier by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get courier by id: %w", err)
	}
	return courier, nil
}

func (r *postgresCourierRepository) UpdateCourier(courier *domain.Courier) (*domain.Courier, error) {
	query := `
        UPDATE couriers SET name = $1, phone = $2, active = $3
        WHERE id = $4
        RETURNING id, name, phone, active`
	err := r.db.QueryRow(query, courier.Name, courier.Phone, courier.Active, courier.ID).Scan(
		&courier.ID, &courier.Name, &courier.Phone, &courier.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Courier with ID %d not found for update", courier.ID)
			return nil, fmt.Errorf("courier with id %d not found for update", courier.ID)
		}
		r.log.Errorf("Failed to update courier ID %d: %v", courier.ID, err)
		return nil, fmt.Errorf("could not update courier: %w", err)
	}
	r.log.Infof("Courier updated successfully with ID: %d", courier.ID)
	return courier, nil
}

func (r *postgresCourierRepository) DeleteCourier(id int64) error {
	query := `DELETE FROM couriers WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to delete courier %d referenced by existing orders", id)
			return fmt.Errorf("courier with id %d is assigned to existing orders and cannot be deleted", id)
		}
		r.log.Errorf("Failed to delete courier ID %d: %v", id, err)
		return fmt.Errorf("could not delete courier: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting courier ID %d: %v", id, err)
		return fmt.Errorf("could not confirm courier deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent courier ID %d", id)
		return fmt.Errorf("courier with id %d not found for deletion", id)
	}
	r.log.Infof("Courier deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresCourierRepository) ListCouriers() ([]domain.Courier, error) {
	query := `SELECT id, name, phone, active FROM couriers ORDER BY id ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list couriers: %v", err)
		return nil, fmt.Errorf("could not list couriers: %w", err)
	}
	defer rows.Close()

	couriers := []domain.Courier{}
	for rows.Next() {
		var courier domain.Courier
		if err := rows.Scan(&courier.ID, &courier.Name, &courier.Phone, &courier.Active); err != nil {
			r.log.Errorf("Failed to scan courier row: %v", err)
			continue
		}
		couriers = append(couriers, courier)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during couriers list iteration: %v", err)
		return nil, fmt.Errorf("error iterating couriers: %w", err)
	}

	r.log.Infof("Retrieved %d couriers", len(couriers))
	return couriers, nil
}
