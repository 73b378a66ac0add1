package repository

import (
	"database/sql"
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

// ensureCart creates the user's cart row on first use and returns its id.
func (r *postgresCartRepository) ensureCart(userID int64) (int64, error) {
	query := `
        INSERT INTO carts (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING id`
	var cartID int64
	err := r.db.QueryRow(query, userID).Scan(&cartID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create cart for non-existent user %d", userID)
			return 0, fmt.Errorf("user with id %d not found", userID)
		}
		r.log.Errorf("Failed to ensure cart for user %d: %v", userID, err)
		return 0, fmt.Errorf("could not create cart: %w", err)
	}
	return cartID, nil
}

func (r *postgresCartRepository) loadCart(cartID, userID int64) (*domain.Cart, error) {
	itemsQuery := `
        SELECT ci.product_id, p.name, ci.quantity,
               CASE WHEN p.discount > 0 AND p.discount_price IS NOT NULL THEN p.discount_price ELSE p.price END
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id = $1
        ORDER BY ci.product_id`
	rows, err := r.db.Query(itemsQuery, cartID)
	if err != nil {
		r.log.Errorf("Failed to query cart items for cart %d: %v", cartID, err)
		return nil, fmt.Errorf("could not retrieve cart items: %w", err)
	}
	defer rows.Close()

	cart := &domain.Cart{ID: cartID, UserID: userID, Items: []domain.CartItem{}}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			r.log.Errorf("Failed to scan cart item row for cart %d: %v", cartID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return cart, nil
}

func (r *postgresCartRepository) GetCartByUserID(userID int64) (*domain.Cart, error) {
	cartID, err := r.ensureCart(userID)
	if err != nil {
		return nil, err
	}
	cart, err := r.loadCart(cartID, userID)
	if err != nil {
		return nil, err
	}
	r.log.Debugf("Cart %d retrieved for user %d with %d items", cartID, userID, len(cart.Items))
	return cart, nil
}

func (r *postgresCartRepository) UpsertItem(userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("invalid quantity %d: quantity must be positive", quantity)
	}
	cartID, err := r.ensureCart(userID)
	if err != nil {
		return nil, err
	}

	query := `
        INSERT INTO cart_items (cart_id, product_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := r.db.Exec(query, cartID, productID, quantity); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to add non-existent product %d to cart of user %d", productID, userID)
			return nil, fmt.Errorf("product with id %d not found", productID)
		}
		r.log.Errorf("Failed to add product %d to cart of user %d: %v", productID, userID, err)
		return nil, fmt.Errorf("could not add item to cart: %w", err)
	}

	r.log.Infof("Product %d added to cart of user %d (quantity: %d)", productID, userID, quantity)
	return r.loadCart(cartID, userID)
}

func (r *postgresCartRepository) SetItemQuantity(userID, productID int64, quantity int) (*domain.Cart, error) {
	cartID, err := r.ensureCart(userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return r.RemoveItem(userID, productID)
	}

	result, err := r.db.Exec(
		`UPDATE cart_items SET quantity = $1 WHERE cart_id = $2 AND product_id = $3`,
		quantity, cartID, productID,
	)
	if err != nil {
		r.log.Errorf("Failed to set quantity for product %d in cart of user %d: %v", productID, userID, err)
		return nil, fmt.Errorf("could not update cart item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not confirm cart item update: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Product %d not found in cart of user %d", productID, userID)
		return nil, fmt.Errorf("product %d not found in cart", productID)
	}

	r.log.Infof("Cart item quantity set for user %d (product %d, quantity %d)", userID, productID, quantity)
	return r.loadCart(cartID, userID)
}

func (r *postgresCartRepository) RemoveItem(userID, productID int64) (*domain.Cart, error) {
	cartID, err := r.ensureCart(userID)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	); err != nil {
		r.log.Errorf("Failed to remove product %d from cart of user %d: %v", productID, userID, err)
		return nil, fmt.Errorf("could not remove cart item: %w", err)
	}

	r.log.Infof("Product %d removed from cart of user %d", productID, userID)
	return r.loadCart(cartID, userID)
}

func (r *postgresCartRepository) ClearCart(userID int64) error {
	cartID, err := r.ensureCart(userID)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.log.Errorf("Failed to clear cart of user %d: %v", userID, err)
		return fmt.Errorf("could not clear cart: %w", err)
	}
	r.log.Infof("Cart cleared for user %d", userID)
	return nil
}
