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

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

const productColumns = `
        id, name, description, image, price, discount, discount_price, stock,
        category_id, brand_id, rating_sum, rating_count, created_at, updated_at`

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	product := &domain.Product{}
	var description, image sql.NullString
	var discountPrice sql.NullFloat64
	var categoryID, brandID sql.NullInt64
	var ratingSum, ratingCount int64

	err := row.Scan(
		&product.ID, &product.Name, &description, &image,
		&product.Price, &product.Discount, &discountPrice, &product.Stock,
		&categoryID, &brandID, &ratingSum, &ratingCount,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Description = description.String
	product.Image = image.String
	product.DiscountPrice = discountPrice.Float64
	product.CategoryID = categoryID.Int64
	product.BrandID = brandID.Int64
	product.RatingCount = ratingCount
	if ratingCount > 0 {
		product.Rating = float64(ratingSum) / float64(ratingCount)
	}
	return product, nil
}

func nullableID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func (r *postgresProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, image, price, discount, discount_price, stock, category_id, brand_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	var discountPrice sql.NullFloat64
	if product.Discount > 0 {
		discountPrice = sql.NullFloat64{Float64: product.DiscountPrice, Valid: true}
	}

	err := r.db.QueryRow(query,
		product.Name, product.Description, product.Image,
		product.Price, product.Discount, discountPrice, product.Stock,
		nullableID(product.CategoryID), nullableID(product.BrandID),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create product with non-existent category %d or brand %d", product.CategoryID, product.BrandID)
			return nil, fmt.Errorf("referenced category or brand does not exist")
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Product created successfully with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(id int64) (*domain.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d not found", id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(id int64, updates map[string]interface{}) (*domain.Product, error) {
	if len(updates) == 0 {
		r.log.Infof("Repository: No fields provided for product update ID %d. Returning current product.", id)
		return r.GetProductByID(id)
	}

	queryBase := "UPDATE products SET "
	args := []interface{}{}
	setClauses := []string{}
	argCounter := 1

	for key, value := range updates {
		column := ""
		argValue := value

		switch key {
		case "name", "description", "image", "price", "discount", "discount_price", "stock":
			column = key
		case "category_id", "brand_id":
			column = key
			refID, ok := value.(int64)
			if !ok {
				r.log.Errorf("Repository: Invalid type received for %s for product ID %d: %T", key, id, value)
				return nil, fmt.Errorf("internal error: invalid type for %s in repository", key)
			}
			if refID == 0 {
				argValue = nil
			} else {
				argValue = refID
			}
		default:
			r.log.Warnf("Repository: Skipping unknown field '%s' provided for product update ID %d", key, id)
			continue
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, argValue)
		argCounter++
	}

	if len(setClauses) == 0 {
		r.log.Warnf("Repository: No valid known fields provided for product update ID %d. Returning current product.", id)
		return r.GetProductByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := queryBase + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	r.log.Debugf("Repository: Executing partial update query for ID %d: %s", id, query)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Attempted to update product ID %d with non-existent reference", id)
			return nil, fmt.Errorf("referenced category or brand does not exist")
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Check constraint violation for product update ID %d: %s", id, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Repository: Failed to execute partial update for product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not partially update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after partial update for ID %d: %v", id, err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Product with ID %d not found for update (0 rows affected)", id)
		return nil, fmt.Errorf("product with id %d not found for update", id)
	}

	r.log.Infof("Repository: Partial update successful for product ID %d", id)
	return r.GetProductByID(id)
}

func (r *postgresProductRepository) DeleteProduct(id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		// Historical orders keep their item rows; the FK rejects the delete.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to delete product %d referenced by existing orders", id)
			return fmt.Errorf("product with id %d is referenced by existing orders and cannot be deleted", id)
		}
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("product with id %d not found for deletion", id)
	}
	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	limit := filter.Limit
	offset := filter.Offset
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	conditions := []string{}
	args := []interface{}{}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.BrandID != 0 {
		args = append(args, filter.BrandID)
		conditions = append(conditions, fmt.Sprintf("brand_id = $%d", len(args)))
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
        SELECT`+productColumns+`
        FROM products
        %s
        ORDER BY id ASC
        LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list products (category %d, brand %d): %v", filter.CategoryID, filter.BrandID, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	r.log.Infof("Retrieved %d products (limit: %d, offset: %d)", len(products), limit, offset)
	return products, nil
}
