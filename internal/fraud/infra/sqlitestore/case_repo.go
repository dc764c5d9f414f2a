package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/fraud/app"
	"github.com/dwikikusuma/shoping-voice/internal/fraud/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const caseColumns = `id, user_name, security_identifier, card_ending, merchant, amount, currency,
	location, transaction_time, security_question, security_answer, status, note, updated_at`

type CaseRepo struct {
	db *sql.DB
}

// Open opens (or creates) the case database at path and applies migrations.
// ":memory:" gives a private seeded database.
func Open(ctx context.Context, path string) (*CaseRepo, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &CaseRepo{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	// m.Close would also close db
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (r *CaseRepo) Close() error { return r.db.Close() }

func (r *CaseRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *CaseRepo) FindPendingByUser(ctx context.Context, userName string) (domain.Case, error) {
	query := `SELECT ` + caseColumns + `
		FROM fraud_cases
		WHERE lower(user_name) = lower(?) AND status = ?
		ORDER BY transaction_time DESC, id DESC
		LIMIT 1`

	c, err := scanCase(r.db.QueryRowContext(ctx, query, userName, string(domain.StatusPendingReview)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Case{}, fmt.Errorf("%w: no pending case for %q", app.ErrNotFound, userName)
	}
	if err != nil {
		return domain.Case{}, fmt.Errorf("failed to query fraud case: %w", err)
	}
	return c, nil
}

func (r *CaseRepo) Get(ctx context.Context, id int64) (domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM fraud_cases WHERE id = ?`

	c, err := scanCase(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Case{}, fmt.Errorf("%w: %d", app.ErrNotFound, id)
	}
	if err != nil {
		return domain.Case{}, fmt.Errorf("failed to query fraud case: %w", err)
	}
	return c, nil
}

func (r *CaseRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status, note string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fraud_cases SET status = ?, note = ?, updated_at = ? WHERE id = ?`,
		string(status), note, at.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update fraud case: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update fraud case: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", app.ErrNotFound, id)
	}
	return nil
}

func scanCase(row *sql.Row) (domain.Case, error) {
	var (
		c                 domain.Case
		status            string
		txTime, updatedAt string
	)
	err := row.Scan(
		&c.ID,
		&c.UserName,
		&c.SecurityIdentifier,
		&c.CardEnding,
		&c.Merchant,
		&c.Amount,
		&c.Currency,
		&c.Location,
		&txTime,
		&c.SecurityQuestion,
		&c.SecurityAnswer,
		&status,
		&c.Note,
		&updatedAt,
	)
	if err != nil {
		return domain.Case{}, err
	}

	c.Status = domain.Status(status)
	if c.TransactionTime, err = time.Parse(time.RFC3339, txTime); err != nil {
		return domain.Case{}, fmt.Errorf("bad transaction_time %q: %w", txTime, err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return domain.Case{}, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}
	return c, nil
}
