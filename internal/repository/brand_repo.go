package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresBrandRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresBrandRepository(db *sql.DB, logger *logrus.Logger) domain.BrandRepository {
	return &postgresBrandRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresBrandRepository) CreateBrand(brand *domain.Brand) (*domain.Brand, error) {
	query := `INSERT INTO brands (name) VALUES ($1) RETURNING id`
	err := r.db.QueryRow(query, brand.Name).Scan(&brand.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create brand with duplicate name: %s", brand.Name)
			return nil, fmt.Errorf("brand with name '%s' already exists", brand.Name)
		}
		r.log.Errorf("Failed to create brand '%s': %v", brand.Name, err)
		return nil, fmt.Errorf("could not create brand: %w", err)
	}
	r.log.Infof("Brand created successfully with ID: %d, Name: %s", brand.ID, brand.Name)
	return brand, nil
}

func (r *postgresBrandRepository) GetBrandByID(id int64) (*domain.Brand, error) {
	query := `SELECT id, name FROM brands WHERE id = $1`
	brand := &domain.Brand{}
	err := r.db.QueryRow(query, id).Scan(&brand.ID, &brand.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Brand with ID %d not found", id)
			return nil, fmt.Errorf("brand with id %d not found", id)
		}
		r.log.Errorf("Failed to get brand by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get brand by id: %w", err)
	}
	return brand, nil
}

func (r *postgresBrandRepository) UpdateBrand(brand *domain.Brand) (*domain.Brand, error) {
	query := `UPDATE brands SET name = $1 WHERE id = $2 RETURNING id, name`
	err := r.db.QueryRow(query, brand.Name, brand.ID).Scan(&brand.ID, &brand.Name)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to update brand ID %d with duplicate name: %s", brand.ID, brand.Name)
			return nil, fmt.Errorf("brand with name '%s' already exists", brand.Name)
		}
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Brand with ID %d not found for update", brand.ID)
			return nil, fmt.Errorf("brand with id %d not found for update", brand.ID)
		}
		r.log.Errorf("Failed to update brand ID %d: %v", brand.ID, err)
		return nil, fmt.Errorf("could not update brand: %w", err)
	}
	r.log.Infof("Brand updated successfully with ID: %d", brand.ID)
	return brand, nil
}

func (r *postgresBrandRepository) DeleteBrand(id int64) error {
	query := `DELETE FROM brands WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		r.log.Errorf("Failed to delete brand ID %d: %v", id, err)
		return fmt.Errorf("could not delete brand: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting brand ID %d: %v", id, err)
		return fmt.Errorf("could not confirm brand deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent brand ID %d", id)
		return fmt.Errorf("brand with id %d not found for deletion", id)
	}
	r.log.Infof("Brand deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresBrandRepository) ListBrands() ([]domain.Brand, error) {
	query := `SELECT id, name FROM brands ORDER BY id ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list brands: %v", err)
		return nil, fmt.Errorf("could not list brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var brand domain.Brand
		if err := rows.Scan(&brand.ID, &brand.Name); err != nil {
			r.log.Errorf("Failed to scan brand row: %v", err)
			continue
		}
		brands = append(brands, brand)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during brands list iteration: %v", err)
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	r.log.Infof("Retrieved %d brands", len(brands))
	return brands, nil
}
