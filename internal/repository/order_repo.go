package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"mixmall_backend/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

// decrementStockTx applies `stock = stock - quantity` with a floor check in a
// single statement. Zero rows affected means the product either vanished or
// no longer has enough stock; the caller's transaction must roll back.
func (r *postgresOrderRepository) decrementStockTx(tx *sql.Tx, productID int64, quantity int) error {
	result, err := tx.Exec(
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("could not decrement stock for product %d: %w", productID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm stock decrement for product %d: %w", productID, err)
	}
	if affected == 0 {
		var name string
		var available int
		scanErr := tx.QueryRow(`SELECT name, stock FROM products WHERE id = $1`, productID).Scan(&name, &available)
		if scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return fmt.Errorf("product with id %d not found", productID)
			}
			return fmt.Errorf("could not inspect stock for product %d: %w", productID, scanErr)
		}
		return fmt.Errorf("insufficient stock for product %q (requested: %d, available: %d)", name, quantity, available)
	}
	return nil
}

func (r *postgresOrderRepository) restoreStockTx(tx *sql.Tx, productID int64, quantity int) error {
	_, err := tx.Exec(
		`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("could not restore stock for product %d: %w", productID, err)
	}
	return nil
}

func (r *postgresOrderRepository) CreateOrder(order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin checkout transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back checkout transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back checkout transaction: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback checkout transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit checkout transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	seq, err := nextSequence(tx, OrderSequence)
	if err != nil {
		return nil, err
	}
	order.OrderID = strconv.FormatInt(seq, 10)

	orderQuery := `
        INSERT INTO orders (order_id, user_id, status, total_price, stock_reduced,
                            address, apartment, entrance, floor, domofon_code, courier_comment)
        VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $8, $9, $10)
        RETURNING id, status, stock_reduced, created_at, updated_at`
	err = tx.QueryRow(orderQuery,
		order.OrderID, order.User.ID, order.Status, order.TotalPrice,
		order.Address.Address, order.Address.Apartment, order.Address.Entrance,
		order.Address.Floor, order.Address.DomofonCode, order.Address.CourierComment,
	).Scan(&order.ID, &order.Status, &order.StockReduced, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert order for user %d: %v", order.User.ID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}
	r.log.Infof("Order entry created with number %s for user %d", order.OrderID, order.User.ID)

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
        VALUES ($1, $2, $3, $4, $5)`
	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		_, err = stmt.Exec(order.ID, item.Product.ID, item.Product.Name, item.Quantity, item.Price)
		if err != nil {
			r.log.Errorf("Failed to insert order item (product_id: %d) for order %s: %v", item.Product.ID, order.OrderID, err)
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				return nil, fmt.Errorf("invalid item data (product_id: %d): %s", item.Product.ID, pqErr.Message)
			}
			return nil, fmt.Errorf("could not create order item (product_id: %d): %w", item.Product.ID, err)
		}

		if err = r.decrementStockTx(tx, item.Product.ID, item.Quantity); err != nil {
			r.log.Warnf("Stock reservation failed for order %s: %v", order.OrderID, err)
			return nil, err
		}
	}

	if _, err = tx.Exec(
		`DELETE FROM cart_items WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)`,
		order.User.ID,
	); err != nil {
		r.log.Errorf("Failed to clear cart for user %d after order %s: %v", order.User.ID, order.OrderID, err)
		err = fmt.Errorf("could not clear cart: %w", err)
		return nil, err
	}

	r.log.Infof("Order %s created successfully with %d items.", order.OrderID, len(order.Items))
	return order, nil
}

const orderSelectColumns = `
        o.id, o.order_id, o.status, o.total_price, o.stock_reduced,
        o.address, o.apartment, o.entrance, o.floor, o.domofon_code, o.courier_comment,
        o.created_at, o.updated_at,
        u.id, u.name, u.phone,
        c.id, c.name, c.phone`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	order := &domain.Order{}
	var apartment, entrance, floor, domofonCode, courierComment sql.NullString
	var courierID sql.NullInt64
	var courierName, courierPhone sql.NullString

	err := row.Scan(
		&order.ID, &order.OrderID, &order.Status, &order.TotalPrice, &order.StockReduced,
		&order.Address.Address, &apartment, &entrance, &floor, &domofonCode, &courierComment,
		&order.CreatedAt, &order.UpdatedAt,
		&order.User.ID, &order.User.Name, &order.User.Phone,
		&courierID, &courierName, &courierPhone,
	)
	if err != nil {
		return nil, err
	}

	order.Address.Apartment = apartment.String
	order.Address.Entrance = entrance.String
	order.Address.Floor = floor.String
	order.Address.DomofonCode = domofonCode.String
	order.Address.CourierComment = courierComment.String
	if courierID.Valid {
		order.Courier = &domain.CourierRef{
			ID:    courierID.Int64,
			Name:  courierName.String,
			Phone: courierPhone.String,
		}
	}
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByOrderID(orderID string) (*domain.Order, error) {
	query := `
        SELECT` + orderSelectColumns + `
        FROM orders o
        JOIN users u ON u.id = o.user_id
        LEFT JOIN couriers c ON c.id = o.courier_id
        WHERE o.order_id = $1`

	order, err := scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order %s not found", orderID)
			return nil, fmt.Errorf("order %s not found", orderID)
		}
		r.log.Errorf("Failed to get order %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	r.log.Debugf("Order %s retrieved with %d items", order.OrderID, len(order.Items))
	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(orderID int64) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT product_id, product_name, quantity, price, rated, rating, comment
        FROM order_items
        WHERE order_id = $1`
	rows, err := r.db.Query(itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()
	return collectOrderItems(rows)
}

func collectOrderItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var rating sql.NullInt64
		var comment sql.NullString
		if err := rows.Scan(&item.Product.ID, &item.Product.Name, &item.Quantity, &item.Price, &item.Rated, &rating, &comment); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		item.Rating = int(rating.Int64)
		item.Comment = comment.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *postgresOrderRepository) listOrders(whereClause string, args []interface{}, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
        SELECT`+orderSelectColumns+`
        FROM orders o
        JOIN users u ON u.id = o.user_id
        LEFT JOIN couriers c ON c.id = o.courier_id
        %s
        ORDER BY o.created_at DESC
        LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int64{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, *order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemsQuery := `
        SELECT order_id, product_id, product_name, quantity, price, rated, rating, comment
        FROM order_items
        WHERE order_id = ANY($1::bigint[])
        ORDER BY order_id`
	itemRows, err := r.db.Query(itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[int64][]domain.OrderItem)
	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int64
		var rating sql.NullInt64
		var comment sql.NullString
		if err := itemRows.Scan(&orderID, &item.Product.ID, &item.Product.Name, &item.Quantity, &item.Price, &item.Rated, &rating, &comment); err != nil {
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		item.Rating = int(rating.Int64)
		item.Comment = comment.String
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	return orders, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(userID int64, limit, offset int) ([]domain.Order, error) {
	orders, err := r.listOrders("WHERE o.user_id = $1", []interface{}{userID}, limit, offset)
	if err != nil {
		return nil, err
	}
	r.log.Infof("Retrieved %d orders for user %d", len(orders), userID)
	return orders, nil
}

func (r *postgresOrderRepository) ListOrders(status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	var err error
	if status != "" {
		orders, err = r.listOrders("WHERE o.status = $1", []interface{}{status}, limit, offset)
	} else {
		orders, err = r.listOrders("", nil, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	r.log.Infof("Retrieved %d orders (status filter: %q)", len(orders), status)
	return orders, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(orderID string, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin status update transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("UpdateOrderStatus: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit status update transaction: %w", cErr)
				r.log.Errorf("UpdateOrderStatus: %v", err)
			}
		}
	}()

	// Lock the order row so two concurrent transitions serialize.
	var id int64
	var current domain.OrderStatus
	var stockReduced bool
	err = tx.QueryRow(
		`SELECT id, status, stock_reduced FROM orders WHERE order_id = $1 FOR UPDATE`,
		orderID,
	).Scan(&id, &current, &stockReduced)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order %s not found for status update", orderID)
			err = fmt.Errorf("order %s not found", orderID)
		} else {
			r.log.Errorf("Failed to load order %s for status update: %v", orderID, err)
			err = fmt.Errorf("could not load order for update: %w", err)
		}
		return nil, err
	}

	// Re-validate against the locked row. The caller checked the transition
	// against an unlocked read; another transaction may have moved the order
	// since, so the locked status is the one that counts.
	if current == status {
		err = fmt.Errorf("invalid transition: order %s is already %s", orderID, status)
		return nil, err
	}
	if !domain.CanTransition(current, status) {
		r.log.Warnf("Rejected transition %s -> %s for order %s under lock", current, status, orderID)
		err = fmt.Errorf("invalid transition from %s to %s", current, status)
		return nil, err
	}

	items, err := r.getOrderItemsTx(tx, id)
	if err != nil {
		return nil, err
	}

	// Exactly one stock adjustment per crossing of the cancelled boundary.
	// stock_reduced guards against double restore/decrement.
	newStockReduced := stockReduced
	switch {
	case status == domain.StatusCancelled && stockReduced:
		for _, item := range items {
			if err = r.restoreStockTx(tx, item.Product.ID, item.Quantity); err != nil {
				r.log.Errorf("Failed to restore stock for cancelled order %s: %v", orderID, err)
				return nil, err
			}
		}
		newStockReduced = false
	case status != domain.StatusCancelled && !stockReduced:
		for _, item := range items {
			if err = r.decrementStockTx(tx, item.Product.ID, item.Quantity); err != nil {
				r.log.Warnf("Reactivation of order %s failed: %v", orderID, err)
				return nil, err
			}
		}
		newStockReduced = true
	}

	updateQuery := `
        UPDATE orders
        SET status = $1, stock_reduced = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING` + orderSelectReturning
	order, scanErr := r.scanOrderReturning(tx, updateQuery, status, newStockReduced, id)
	if scanErr != nil {
		err = scanErr
		r.log.Errorf("Failed to update status for order %s: %v", orderID, err)
		return nil, err
	}
	order.Items = items

	r.log.Infof("Order %s status updated from %s to %s", orderID, current, status)
	return order, nil
}

// orderSelectReturning mirrors orderSelectColumns for RETURNING clauses on the
// orders table alone; user and courier refs are fetched afterwards.
const orderSelectReturning = `
        id, order_id, user_id, courier_id, status, total_price, stock_reduced,
        address, apartment, entrance, floor, domofon_code, courier_comment,
        created_at, updated_at`

func (r *postgresOrderRepository) scanOrderReturning(tx *sql.Tx, query string, args ...interface{}) (*domain.Order, error) {
	order := &domain.Order{}
	var courierID sql.NullInt64
	var apartment, entrance, floor, domofonCode, courierComment sql.NullString

	err := tx.QueryRow(query, args...).Scan(
		&order.ID, &order.OrderID, &order.User.ID, &courierID, &order.Status, &order.TotalPrice, &order.StockReduced,
		&order.Address.Address, &apartment, &entrance, &floor, &domofonCode, &courierComment,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("could not update order: %w", err)
	}
	order.Address.Apartment = apartment.String
	order.Address.Entrance = entrance.String
	order.Address.Floor = floor.String
	order.Address.DomofonCode = domofonCode.String
	order.Address.CourierComment = courierComment.String

	if err := tx.QueryRow(`SELECT name, phone FROM users WHERE id = $1`, order.User.ID).Scan(&order.User.Name, &order.User.Phone); err != nil {
		return nil, fmt.Errorf("could not load order owner: %w", err)
	}
	if courierID.Valid {
		courier := &domain.CourierRef{ID: courierID.Int64}
		if err := tx.QueryRow(`SELECT name, phone FROM couriers WHERE id = $1`, courierID.Int64).Scan(&courier.Name, &courier.Phone); err != nil {
			return nil, fmt.Errorf("could not load order courier: %w", err)
		}
		order.Courier = courier
	}
	return order, nil
}

func (r *postgresOrderRepository) getOrderItemsTx(tx *sql.Tx, orderID int64) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT product_id, product_name, quantity, price, rated, rating, comment
        FROM order_items
        WHERE order_id = $1`
	rows, err := tx.Query(itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items within tx for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items within tx: %w", err)
	}
	defer rows.Close()
	return collectOrderItems(rows)
}

func (r *postgresOrderRepository) AssignCourier(orderID string, courierID int64) (*domain.Order, error) {
	result, err := r.db.Exec(
		`UPDATE orders SET courier_id = $1, updated_at = NOW() WHERE order_id = $2`,
		courierID, orderID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to assign non-existent courier %d to order %s", courierID, orderID)
			return nil, fmt.Errorf("courier with id %d not found", courierID)
		}
		r.log.Errorf("Failed to assign courier %d to order %s: %v", courierID, orderID, err)
		return nil, fmt.Errorf("could not assign courier: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not confirm courier assignment: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Order %s not found for courier assignment", orderID)
		return nil, fmt.Errorf("order %s not found", orderID)
	}

	r.log.Infof("Courier %d assigned to order %s", courierID, orderID)
	return r.GetOrderByOrderID(orderID)
}

func (r *postgresOrderRepository) RateOrderItem(orderID string, productID int64, rating int, comment string) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	result, err := tx.Exec(`
        UPDATE order_items
        SET rated = TRUE, rating = $1, comment = $2
        WHERE order_id = (SELECT id FROM orders WHERE order_id = $3)
          AND product_id = $4
          AND rated = FALSE`,
		rating, comment, orderID, productID,
	)
	if err != nil {
		_ = tx.Rollback()
		r.log.Errorf("Failed to rate product %d on order %s: %v", productID, orderID, err)
		return nil, fmt.Errorf("could not rate order item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("could not confirm rating update: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		r.log.Warnf("Order item (order %s, product %d) not found or already rated", orderID, productID)
		return nil, fmt.Errorf("order item (order %s, product %d) not found or already rated", orderID, productID)
	}

	if _, err = tx.Exec(`
        UPDATE products
        SET rating_sum = rating_sum + $1, rating_count = rating_count + 1, updated_at = NOW()
        WHERE id = $2`,
		rating, productID,
	); err != nil {
		_ = tx.Rollback()
		r.log.Errorf("Failed to update rating aggregate for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not update product rating aggregate: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rating transaction: %w", err)
	}

	r.log.Infof("Product %d rated %d on order %s", productID, rating, orderID)
	return r.GetOrderByOrderID(orderID)
}
