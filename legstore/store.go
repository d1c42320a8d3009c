// Package legstore persists built legs to PostgreSQL.
package legstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/meenmo/couponleg/leg"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute

	uniqueViolation = "23505"
)

var (
	ErrLegNotFound  = errors.New("leg not found")
	ErrDuplicateLeg = errors.New("leg with this name already exists")
	ErrEmptyLeg     = errors.New("leg has no coupons")
)

const schema = `
CREATE TABLE IF NOT EXISTS legs (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	kind       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS leg_coupons (
	leg_id         BIGINT NOT NULL REFERENCES legs(id) ON DELETE CASCADE,
	seq            INTEGER NOT NULL,
	coupon_type    TEXT NOT NULL,
	nominal        DOUBLE PRECISION NOT NULL,
	accrual_start  DATE NOT NULL,
	accrual_end    DATE NOT NULL,
	ref_start      DATE NOT NULL,
	ref_end        DATE NOT NULL,
	payment_date   DATE NOT NULL,
	day_counter    TEXT NOT NULL,
	index_name     TEXT,
	fixing_date    DATE,
	rate           DOUBLE PRECISION,
	gearing        DOUBLE PRECISION,
	spread         DOUBLE PRECISION,
	cap_rate       DOUBLE PRECISION,
	floor_rate     DOUBLE PRECISION,
	mean_reversion DOUBLE PRECISION,
	in_arrears     BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (leg_id, seq)
);
ALTER TABLE leg_coupons ADD COLUMN IF NOT EXISTS mean_reversion DOUBLE PRECISION;`

// Store wraps a PostgreSQL connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and pings the database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the legs and leg_coupons tables if they are absent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error migrating leg schema: %w", err)
	}
	return nil
}

// SaveLeg stores the leg under a unique name in one transaction and returns its id.
func (s *Store) SaveLeg(ctx context.Context, name, kind string, l leg.Leg) (id int64, err error) {
	rows := Rows(l)
	if len(rows) == 0 {
		return 0, ErrEmptyLeg
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO legs (name, kind) VALUES ($1, $2) RETURNING id`, name, kind,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateLeg, name)
		}
		return 0, fmt.Errorf("error creating leg %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leg_coupons (
		leg_id, seq, coupon_type, nominal, accrual_start, accrual_end, ref_start, ref_end,
		payment_date, day_counter, index_name, fixing_date, rate, gearing, spread,
		cap_rate, floor_rate, mean_reversion, in_arrears)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`)
	if err != nil {
		return 0, fmt.Errorf("error preparing coupon insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.ExecContext(ctx, id, r.Seq, r.Type, r.Nominal,
			r.AccrualStart, r.AccrualEnd, r.RefStart, r.RefEnd, r.PaymentDate, r.DayCounter,
			r.Index, r.FixingDate, r.Rate, r.Gearing, r.Spread, r.Cap, r.Floor, r.MeanReversion, r.InArrears)
		if err != nil {
			return 0, fmt.Errorf("error inserting coupon %d of leg %s: %w", r.Seq, name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing leg %s: %w", name, err)
	}
	return id, nil
}

// LoadCoupons returns the stored coupon rows of a leg in period order.
func (s *Store) LoadCoupons(ctx context.Context, legID int64) ([]CouponRow, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM legs WHERE id = $1)`, legID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("error looking up leg %d: %w", legID, err)
	}
	if !exists {
		return nil, ErrLegNotFound
	}

	rs, err := s.db.QueryContext(ctx, `SELECT seq, coupon_type, nominal, accrual_start, accrual_end,
		ref_start, ref_end, payment_date, day_counter, index_name, fixing_date, rate, gearing,
		spread, cap_rate, floor_rate, mean_reversion, in_arrears
		FROM leg_coupons WHERE leg_id = $1 ORDER BY seq`, legID)
	if err != nil {
		return nil, fmt.Errorf("error loading coupons of leg %d: %w", legID, err)
	}
	defer rs.Close()

	var out []CouponRow
	for rs.Next() {
		var r CouponRow
		if err := rs.Scan(&r.Seq, &r.Type, &r.Nominal, &r.AccrualStart, &r.AccrualEnd,
			&r.RefStart, &r.RefEnd, &r.PaymentDate, &r.DayCounter, &r.Index, &r.FixingDate,
			&r.Rate, &r.Gearing, &r.Spread, &r.Cap, &r.Floor, &r.MeanReversion, &r.InArrears); err != nil {
			return nil, fmt.Errorf("error scanning coupon of leg %d: %w", legID, err)
		}
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons of leg %d: %w", legID, err)
	}
	return out, nil
}
