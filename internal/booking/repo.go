package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentgear/go-rental-store/internal/pricing"
)

type Repo struct{ DB *pgxpool.Pool }

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

const productCols = `id, category_id, title, description, price_per_day, quantity, available, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Title, &p.Description, &p.PricePerDay,
		&p.Quantity, &p.Available, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY category_id, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, err
}

const bookingCols = `id, order_id, product_id, quantity, start_at, end_at, status, total_price,
	customer_name, customer_email, customer_phone, notes, created_at`

func scanBookings(rows pgx.Rows) ([]BookingPeriod, error) {
	defer rows.Close()
	var out []BookingPeriod
	for rows.Next() {
		var b BookingPeriod
		if err := rows.Scan(&b.ID, &b.OrderID, &b.ProductID, &b.Quantity, &b.StartAt, &b.EndAt,
			&b.Status, &b.TotalPrice, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&b.Notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListBookings returns bookings, newest first, optionally filtered by
// product. An empty productID means all products.
func (r *Repo) ListBookings(ctx context.Context, productID string) ([]BookingPeriod, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings`
	args := []any{}
	if productID != "" {
		q += ` WHERE product_id=$1`
		args = append(args, productID)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

// activeBookingsTx reads the pending/confirmed bookings of one product
// inside the checkout transaction, so the availability sum is computed from
// a snapshot no older than the locked product row.
func activeBookingsTx(ctx context.Context, tx pgx.Tx, productID string) ([]BookingPeriod, error) {
	rows, err := tx.Query(ctx, `SELECT `+bookingCols+` FROM bookings
		WHERE product_id=$1 AND status IN ('pending','confirmed')`, productID)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

// FindOrderByExternalID supports idempotent checkout: the external id is
// the client-supplied dedup handle.
func (r *Repo) FindOrderByExternalID(ctx context.Context, externalID string) (string, float64, error) {
	var orderID string
	var total float64
	err := r.DB.QueryRow(ctx, `SELECT order_id, SUM(total_price) FROM bookings
		WHERE external_id=$1 GROUP BY order_id`, externalID).Scan(&orderID, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ErrOrderNotFound
	}
	return orderID, total, err
}

// InsertOrderTx inserts one pending row per line, all sharing orderID, in a
// single transaction. Each product row is locked FOR UPDATE before the
// availability sum, which closes the race between two checkouts passing the
// same availability check. Prices come from the products table, never from
// the client, and are frozen on the row. If any line does not fit, nothing
// is committed and the conflicts are returned.
func (r *Repo) InsertOrderTx(ctx context.Context, orderID, externalID string, cust Customer, lines []LineRequest) ([]BookingPeriod, []Conflict, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var inserted []BookingPeriod
	var conflicts []Conflict

	for _, ln := range lines {
		var p Product
		err := tx.QueryRow(ctx, `SELECT id, title, price_per_day, quantity, available
			FROM products WHERE id=$1 FOR UPDATE`, ln.ProductID).
			Scan(&p.ID, &p.Title, &p.PricePerDay, &p.Quantity, &p.Available)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: %s", ErrProductNotFound, ln.ProductID)
		}
		if err != nil {
			return nil, nil, err
		}

		active, err := activeBookingsTx(ctx, tx, ln.ProductID)
		if err != nil {
			return nil, nil, err
		}
		avail := AvailableQuantity(p, active, ln.StartAt, ln.EndAt)
		if ln.Quantity > avail {
			conflicts = append(conflicts, Conflict{ProductID: ln.ProductID, Requested: ln.Quantity, Available: avail})
			continue
		}

		b := BookingPeriod{
			ID:            uuid.NewString(),
			OrderID:       orderID,
			ProductID:     ln.ProductID,
			Quantity:      ln.Quantity,
			StartAt:       ln.StartAt,
			EndAt:         ln.EndAt,
			Status:        StatusPending,
			TotalPrice:    pricing.CalculateRentalPrice(p.PricePerDay, ln.StartAt, ln.EndAt) * float64(ln.Quantity),
			CustomerName:  cust.Name,
			CustomerEmail: cust.Email,
			CustomerPhone: cust.Phone,
			Notes:         ln.Notes,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO bookings(id, order_id, external_id, product_id, quantity, start_at, end_at,
				status, total_price, customer_name, customer_email, customer_phone, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			b.ID, b.OrderID, externalID, b.ProductID, b.Quantity, b.StartAt, b.EndAt,
			b.Status, b.TotalPrice, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Notes,
		); err != nil {
			return nil, nil, err
		}
		inserted = append(inserted, b)
	}

	if len(conflicts) > 0 {
		return nil, conflicts, nil // rollback via defer
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return inserted, nil, nil
}

// GetOrderStatus reports an order's status. A drifted order reports its
// highest-priority status, matching what reconciliation would apply.
func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	rows, err := r.DB.Query(ctx, `SELECT DISTINCT status FROM bookings WHERE order_id=$1`, orderID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var statuses []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s); err != nil {
			return "", err
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(statuses) == 0 {
		return "", ErrOrderNotFound
	}
	return HighestPriority(statuses), nil
}

// UpdateOrderStatus applies next to every row of the order, all or nothing.
// Each row's current status is validated against the transition table; a
// drifted order therefore fails here and must go through reconciliation
// first.
func (r *Repo) UpdateOrderStatus(ctx context.Context, orderID string, next Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT status FROM bookings WHERE order_id=$1 FOR UPDATE`, orderID)
	if err != nil {
		return err
	}
	seen := map[Status]bool{}
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return err
		}
		seen[s] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(seen) == 0 {
		return ErrOrderNotFound
	}
	for from := range seen {
		if err := ValidateTransition(from, next); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$2 WHERE order_id=$1`, orderID, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ForceOrderStatus bypasses the transition table. Reconciliation only.
func (r *Repo) ForceOrderStatus(ctx context.Context, orderID string, next Status) error {
	ct, err := r.DB.Exec(ctx, `UPDATE bookings SET status=$2 WHERE order_id=$1`, orderID, next)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListGrouped returns every row that carries an order id, for the
// reconciliation scan.
func (r *Repo) ListGrouped(ctx context.Context) ([]BookingPeriod, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+bookingCols+` FROM bookings WHERE order_id <> '' ORDER BY order_id`)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}
