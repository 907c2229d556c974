// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/order"
	"wecamp-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db querier
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.user_id, COALESCE(u.name, ''), o.gear_id, COALESCE(g.name, ''), o.status, o.price,
	       o.public_note, o.private_note, o.shipped_at, o.created_at, o.updated_at
	FROM user_orders o
	LEFT JOIN users u ON u.id = o.user_id
	LEFT JOIN gear g ON g.id = o.gear_id
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*order.UserOrder, error) {
	var o order.UserOrder
	err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.GearID, &o.GearName, &o.Status, &o.Price,
		&o.PublicNote, &o.PrivateNote, &o.ShippedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *order.UserOrder) error {
	query := `
		INSERT INTO user_orders (id, user_id, gear_id, status, price, public_note, private_note, shipped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, o.ID, o.UserID, o.GearID, o.Status, o.Price, o.PublicNote,
		o.PrivateNote, o.ShippedAt).Scan(&o.CreatedAt, &o.UpdatedAt)
	return classify(err, "create order")
}

func (r *OrderRepository) Update(ctx context.Context, o *order.UserOrder) error {
	query := `
		UPDATE user_orders SET
			status = $2, price = $3, public_note = $4, private_note = $5, shipped_at = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, o.ID, o.Status, o.Price, o.PublicNote, o.PrivateNote, o.ShippedAt).
		Scan(&o.UpdatedAt)
	return classify(err, "update order")
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete order: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM user_orders WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete order")
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.UserOrder, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find order: %w", errNotFound)
	}
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find order")
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f order.Filter) ([]*order.UserOrder, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if f.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", argPos))
		args = append(args, f.UserID)
		argPos++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, f.Status)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM user_orders o WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count orders")
	}

	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, orderSelect, where, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "list orders")
	}
	defer rows.Close()

	out := []*order.UserOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, classify(err, "scan order")
		}
		out = append(out, o)
	}
	return out, total, classify(rows.Err(), "list orders")
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_orders WHERE status = $1`, status).Scan(&n)
	return n, classify(err, "count orders")
}
