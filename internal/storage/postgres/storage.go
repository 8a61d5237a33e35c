package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/telemart/storefront/internal/domain/errors"
	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on; tests swap in
// a mock implementation.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL. Orders are stored
// as JSONB documents with denormalized columns for the fields queries filter
// and transition on.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type discountRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
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

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Discounts() repository.DiscountRepository {
	return &discountRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            telegram_user_id BIGINT NOT NULL,
            telegram_chat_id BIGINT NOT NULL DEFAULT 0,
            delivery_method TEXT NOT NULL,
            status TEXT NOT NULL,
            verification_required BOOLEAN NOT NULL DEFAULT FALSE,
            verification_status TEXT,
            doc JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS discounts (
            code TEXT PRIMARY KEY,
            type TEXT NOT NULL,
            value DOUBLE PRECISION NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            usage_limit INTEGER,
            used_count INTEGER NOT NULL DEFAULT 0,
            min_order_value DOUBLE PRECISION
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            doc JSONB NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(telegram_user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_verification ON orders(verification_status) WHERE verification_required`,
		`CREATE INDEX IF NOT EXISTS idx_orders_delivery ON orders(delivery_method, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `doc, status, verification_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder rebuilds an order from its document, letting the denormalized
// columns win for the mutable fields.
func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		doc                []byte
		status             string
		verificationStatus *string
		createdAt          time.Time
		updatedAt          time.Time
	)
	if err := row.Scan(&doc, &status, &verificationStatus, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var order model.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("decode order document: %w", err)
	}

	order.Status = model.OrderStatus(status)
	if verificationStatus != nil {
		order.Verification.Status = model.VerificationStatus(*verificationStatus)
	}
	order.CreatedAt = createdAt
	order.UpdatedAt = updatedAt
	return &order, nil
}

func statusStrings(statuses []model.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func verificationStatusStrings(statuses []model.VerificationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, discountCode string) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order document: %w", err)
	}

	var verificationStatus *string
	if order.Verification.Status != "" {
		v := string(order.Verification.Status)
		verificationStatus = &v
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if discountCode != "" {
			if err := consumeDiscountTx(ctx, tx, discountCode); err != nil {
				return err
			}
		}

		const query = `INSERT INTO orders
            (id, telegram_user_id, telegram_chat_id, delivery_method, status,
             verification_required, verification_status, doc, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := tx.Exec(ctx, query,
			order.ID,
			order.Customer.TelegramUserID,
			order.Customer.TelegramChatID,
			string(order.Delivery.Method),
			string(order.Status),
			order.Verification.Required,
			verificationStatus,
			doc,
			order.CreatedAt,
			order.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByTelegramUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE telegram_user_id=$1 ORDER BY created_at DESC`
	return r.storage.queryOrders(ctx, query, userID)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, allowedFrom []model.OrderStatus) (*model.Order, error) {
	query := `UPDATE orders
              SET status=$2,
                  updated_at=NOW(),
                  doc = jsonb_set(doc, '{status}', to_jsonb($2::text))
              WHERE id=$1 AND status = ANY($3)
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, string(status), statusStrings(allowedFrom)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id)
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateVerificationStatus(ctx context.Context, id string, status model.VerificationStatus, allowedFrom []model.VerificationStatus) (*model.Order, error) {
	query := `UPDATE orders
              SET verification_status=$2,
                  updated_at=NOW(),
                  doc = jsonb_set(doc, '{verification,status}', to_jsonb($2::text))
              WHERE id=$1 AND COALESCE(verification_status, '') = ANY($3)
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, string(status), verificationStatusStrings(allowedFrom)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id)
		}
		return nil, err
	}
	return order, nil
}

// transitionFailure tells a missing order apart from a disallowed transition
// after a conditional update matched no rows.
func (r *orderRepository) transitionFailure(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domainErrors.ErrInvalidTransition
}

func (r *orderRepository) ListVerificationQueue(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE verification_required AND verification_status='pending'
              ORDER BY created_at`
	return r.storage.queryOrders(ctx, query)
}

func (r *orderRepository) ListHandToHand(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if from.IsZero() {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE delivery_method='h2h' ORDER BY created_at`
		return r.storage.queryOrders(ctx, query)
	}
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE delivery_method='h2h' AND created_at >= $1 AND created_at < $2
              ORDER BY created_at`
	return r.storage.queryOrders(ctx, query, from, to)
}

func (r *orderRepository) SumQualifyingSpend(ctx context.Context, userID int64, statuses []model.OrderStatus) (float64, error) {
	const query = `SELECT COALESCE(SUM((doc->'payment'->>'total')::double precision), 0)
                   FROM orders WHERE telegram_user_id=$1 AND status = ANY($2)`
	var total float64
	if err := r.storage.pool.QueryRow(ctx, query, userID, statusStrings(statuses)).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Storage) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- DiscountRepository implementation ---

func (r *discountRepository) GetActive(ctx context.Context, code string) (*model.DiscountCode, error) {
	const query = `SELECT code, type, value, is_active, usage_limit, used_count, min_order_value
                   FROM discounts WHERE code=$1 AND is_active`
	var d model.DiscountCode
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(
		&d.Code, &d.Type, &d.Value, &d.IsActive, &d.UsageLimit, &d.UsedCount, &d.MinOrderValue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func consumeDiscountTx(ctx context.Context, tx pgx.Tx, code string) error {
	const update = `UPDATE discounts SET used_count = used_count + 1
                    WHERE code=$1 AND is_active AND (usage_limit IS NULL OR used_count < usage_limit)`
	tag, err := tx.Exec(ctx, update, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	const exists = `SELECT 1 FROM discounts WHERE code=$1 AND is_active`
	var one int
	if err := tx.QueryRow(ctx, exists, code).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrUsageExceeded
}

func (r *discountRepository) Consume(ctx context.Context, code string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return consumeDiscountTx(ctx, tx, code)
	})
}

func (r *discountRepository) Upsert(ctx context.Context, discount *model.DiscountCode) error {
	const query = `INSERT INTO discounts (code, type, value, is_active, usage_limit, used_count, min_order_value)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   ON CONFLICT (code) DO UPDATE
                   SET type = EXCLUDED.type,
                       value = EXCLUDED.value,
                       is_active = EXCLUDED.is_active,
                       usage_limit = EXCLUDED.usage_limit,
                       min_order_value = EXCLUDED.min_order_value`
	_, err := r.storage.pool.Exec(ctx, query,
		discount.Code,
		string(discount.Type),
		discount.Value,
		discount.IsActive,
		discount.UsageLimit,
		discount.UsedCount,
		discount.MinOrderValue,
	)
	return err
}

// --- ProductRepository implementation ---

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT doc FROM products ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p model.Product
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode product document: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT doc FROM products WHERE id=$1`
	var doc []byte
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	var p model.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode product document: %w", err)
	}
	return &p, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
