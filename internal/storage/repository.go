// Package storage implements the persistence ports on SQLite. The schema is
// managed with embedded migrations; all statements are written by hand and
// scoped by user_id.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"plenio/internal/core"
	"plenio/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) UpsertProfile(ctx context.Context, p core.UserProfile) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (uid, email, name, phone, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			phone = excluded.phone,
			photo_url = excluded.photo_url`,
		p.UID, p.Email, p.Name, p.Phone, p.PhotoURL, createdAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, uid string) (core.UserProfile, error) {
	var p core.UserProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT uid, email, name, phone, photo_url, created_at
		FROM users WHERE uid = ?`, uid).
		Scan(&p.UID, &p.Email, &p.Name, &p.Phone, &p.PhotoURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, store.ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) CreatePaymentMethod(ctx context.Context, m core.PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_methods (id, user_id, name, icon, type, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Name, m.Icon, string(m.Type), m.Balance, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment method: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListPaymentMethods(ctx context.Context, userID string) ([]core.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, icon, type, balance, created_at
		FROM payment_methods WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentMethod
	for rows.Next() {
		var m core.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Icon, &m.Type, &m.Balance, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetPaymentMethod(ctx context.Context, userID, id string) (core.PaymentMethod, error) {
	var m core.PaymentMethod
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, type, balance, created_at
		FROM payment_methods WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&m.ID, &m.UserID, &m.Name, &m.Icon, &m.Type, &m.Balance, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.PaymentMethod{}, store.ErrNotFound
	}
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("get payment method: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) UpdatePaymentMethod(ctx context.Context, m core.PaymentMethod) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_methods SET name = ?, icon = ?, type = ?, balance = ?
		WHERE id = ? AND user_id = ?`,
		m.Name, m.Icon, string(m.Type), m.Balance, m.ID, m.UserID)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM payment_methods WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, icon, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Icon, string(c.Type), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, icon, type, created_at
		FROM categories WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, type, created_at
		FROM categories WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Type, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, store.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, icon = ?, type = ?
		WHERE id = ? AND user_id = ?`,
		c.Name, c.Icon, string(c.Type), c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, user_id, type, amount, category_id, payment_method_id,
			 description, date, is_recurring, recurring_frequency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Type), t.Amount, t.CategoryID, t.PaymentMethodID,
		t.Description, t.Date, t.IsRecurring, string(t.Frequency), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", string(t.Type),
		"amount", t.Amount,
		"date", t.Date)
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category_id, payment_method_id,
		       description, date, is_recurring, recurring_frequency, created_at
		FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort on parsed dates rather than ORDER BY on the stored string, so
	// day-only and RFC 3339 dates interleave the same way on every backend.
	if limit <= 0 {
		limit = len(out)
	}
	return core.MostRecent(out, limit), nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, amount, category_id, payment_method_id,
		       description, date, is_recurring, recurring_frequency, created_at
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListRecurringTemplates(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category_id, payment_method_id,
		       description, date, is_recurring, recurring_frequency, created_at
		FROM transactions WHERE is_recurring = 1 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetRecurringLastRun(ctx context.Context, templateID string) (string, error) {
	var day string
	err := r.db.QueryRowContext(ctx,
		`SELECT recurring_last_run FROM transactions WHERE id = ?`, templateID).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get recurring last run: %w", err)
	}
	return day, nil
}

func (r *SQLiteRepository) SetRecurringLastRun(ctx context.Context, templateID, day string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET recurring_last_run = ? WHERE id = ?`, day, templateID)
	if err != nil {
		return fmt.Errorf("set recurring last run: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category_id, amount, period, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.Amount, string(b.Period), b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category_id, amount, period, created_at
		FROM budgets WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, amount, period, created_at
		FROM budgets WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET category_id = ?, amount = ?, period = ?
		WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Amount, string(b.Period), b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.CategoryID,
		&t.PaymentMethodID, &t.Description, &t.Date, &t.IsRecurring,
		&t.Frequency, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, sql.ErrNoRows
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
