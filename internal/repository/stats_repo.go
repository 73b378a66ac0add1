package repository

import (
	"database/sql"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresStatsRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresStatsRepository(db *sql.DB, logger *logrus.Logger) domain.StatsRepository {
	return &postgresStatsRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresStatsRepository) CountOrdersByStatus() (map[domain.OrderStatus]int64, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		r.log.Errorf("Failed to count orders by status: %v", err)
		return nil, fmt.Errorf("could not count orders: %w", err)
	}
	defer rows.Close()

	counts := map[domain.OrderStatus]int64{}
	for rows.Next() {
		var status domain.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning order counts: %w", err)
		}
		counts[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order counts: %w", err)
	}
	return counts, nil
}

func (r *postgresStatsRepository) DeliveredRevenue() (float64, error) {
	var revenue float64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status = $1`,
		domain.StatusDelivered,
	).Scan(&revenue)
	if err != nil {
		r.log.Errorf("Failed to compute delivered revenue: %v", err)
		return 0, fmt.Errorf("could not compute revenue: %w", err)
	}
	return revenue, nil
}

func (r *postgresStatsRepository) TopProducts(limit int) ([]domain.ProductSales, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := `
        SELECT oi.product_id, oi.product_name, SUM(oi.quantity) AS sold
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.status <> $1
        GROUP BY oi.product_id, oi.product_name
        ORDER BY sold DESC
        LIMIT $2`
	rows, err := r.db.Query(query, domain.StatusCancelled, limit)
	if err != nil {
		r.log.Errorf("Failed to query top products: %v", err)
		return nil, fmt.Errorf("could not retrieve top products: %w", err)
	}
	defer rows.Close()

	sales := []domain.ProductSales{}
	for rows.Next() {
		var sale domain.ProductSales
		if err := rows.Scan(&sale.Product.ID, &sale.Product.Name, &sale.Quantity); err != nil {
			return nil, fmt.Errorf("error scanning product sales: %w", err)
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sales: %w", err)
	}
	return sales, nil
}
