package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/domain/repository"
)

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool    pool
	timeout time.Duration
	logger  *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

// pool is the subset of pgxpool.Pool the storage uses; tests substitute it.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization. All calls run under the
// provided per-operation timeout; deadline and connection failures are
// reported as retryable ErrUnavailable.
func New(ctx context.Context, dsn string, timeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pgPool, timeout: timeout, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pgPool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Users returns the user repository adapter.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

// Orders returns the order repository adapter.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES users(id),
            courier_id BIGINT REFERENCES users(id),
            product TEXT NOT NULL,
            quantity INT NOT NULL CHECK (quantity > 0),
            location TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_courier ON orders(courier_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(status) WHERE courier_id IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// withDeadline bounds a store call. Zero timeout leaves the context as is.
func (s *Storage) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// mapError translates driver level failures into the domain taxonomy.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domainErrors.ErrAlreadyExists
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("store deadline exceeded: %w", domainErrors.ErrUnavailable)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("store connection failed: %w", domainErrors.ErrUnavailable)
	}
	return err
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, name, login, passwordHash string, role model.Role) (*model.User, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	const query = `INSERT INTO users (name, login, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, name, login, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	u.Name = name
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	const query = `SELECT id, name, login, password_hash, role, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	const query = `SELECT id, name, login, password_hash, role, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `o.id, o.customer_id, o.courier_id, o.product, o.quantity, o.location, o.status,
       COALESCE(c.name, ''), COALESCE(d.name, ''), o.created_at, o.updated_at`

const orderJoins = ` FROM orders o
       LEFT JOIN users c ON c.id = o.customer_id
       LEFT JOIN users d ON d.id = o.courier_id`

func (r *orderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	const query = `INSERT INTO orders (customer_id, product, quantity, location, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at, updated_at`
	order := model.Order{
		CustomerID: draft.CustomerID,
		Product:    draft.Product,
		Quantity:   draft.Quantity,
		Location:   draft.Location,
		Status:     model.OrderStatusPending,
	}
	err := r.storage.pool.QueryRow(ctx, query,
		draft.CustomerID, draft.Product, draft.Quantity, draft.Location, model.OrderStatusPending,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapError(err)
	}
	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.customer_id=$1 ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query, customerID)
}

func (r *orderRepository) ListByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.courier_id=$1 ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query, courierID)
}

func (r *orderRepository) ListUnassignedPending(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.status=$1 AND o.courier_id IS NULL ORDER BY o.created_at`
	return r.queryOrders(ctx, query, model.OrderStatusPending)
}

func (r *orderRepository) ListDeliveredByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.customer_id=$1 AND o.status=$2 ORDER BY o.updated_at DESC`
	return r.queryOrders(ctx, query, customerID, model.OrderStatusDelivered)
}

func (r *orderRepository) ListDeliveredByCourier(ctx context.Context, courierID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.courier_id=$1 AND o.status=$2 ORDER BY o.updated_at DESC`
	return r.queryOrders(ctx, query, courierID, model.OrderStatusDelivered)
}

// CompareAndUpdate is the only mutation path after creation: a single
// conditional UPDATE keyed on the expected status and assignment. A
// zero-row result means either the order vanished or the precondition no
// longer holds; a follow-up read disambiguates NotFound from Conflict.
func (r *orderRepository) CompareAndUpdate(ctx context.Context, orderID int64, expected repository.ExpectedState, update repository.StateUpdate) (*model.Order, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	const returning = ` RETURNING id, customer_id, courier_id, product, quantity, location, status,
               '', '', created_at, updated_at`

	var (
		query string
		args  []any
	)
	switch {
	case update.AssignCourierID != nil:
		// The claim: assignment only applies while the order is still free.
		query = `UPDATE orders SET status=$1, courier_id=$2, updated_at=NOW()
                 WHERE id=$3 AND status=$4 AND courier_id IS NULL` + returning
		args = []any{update.Status, *update.AssignCourierID, orderID, expected.Status}
	case expected.CourierID != nil:
		query = `UPDATE orders SET status=$1, updated_at=NOW()
                 WHERE id=$2 AND status=$3 AND courier_id=$4` + returning
		args = []any{update.Status, orderID, expected.Status, *expected.CourierID}
	case expected.CourierUnassigned:
		query = `UPDATE orders SET status=$1, updated_at=NOW()
                 WHERE id=$2 AND status=$3 AND courier_id IS NULL` + returning
		args = []any{update.Status, orderID, expected.Status}
	default:
		query = `UPDATE orders SET status=$1, updated_at=NOW()
                 WHERE id=$2 AND status=$3` + returning
		args = []any{update.Status, orderID, expected.Status}
	}

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapError(err)
	}

	// Precondition failed or the order does not exist.
	if _, getErr := r.GetByID(ctx, orderID); getErr != nil {
		return nil, getErr
	}
	r.storage.logger.Debug("conditional update lost race", slog.Int64("order_id", orderID))
	return nil, domainErrors.ErrConflict
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	ctx, cancel := r.storage.withDeadline(ctx)
	defer cancel()

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, mapError(err)
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.CourierID, &o.Product, &o.Quantity, &o.Location, &o.Status,
		&o.CustomerName, &o.CourierName, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
