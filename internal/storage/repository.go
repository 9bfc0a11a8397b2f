// Package storage implements the persistence ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
	"ledgerly/internal/store"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

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

func (r *SQLiteRepository) ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error) {
	start, end := core.MonthWindow(year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, amount_cents, type, category, notes, version
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, id ASC`,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, amount_cents, type, category, notes, version
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, amount_cents, type, category, notes, version, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		tx.ID, tx.Date.Format(dateLayout), tx.Amount.Cents, string(tx.Type), tx.Category, tx.Notes, tx.Version)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		applog.FieldTransactionID, tx.ID,
		applog.FieldAmountCents, tx.Amount.Cents,
		applog.FieldTxType, tx.Type,
		applog.FieldCategory, tx.Category)
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, amount_cents = ?, type = ?, category = ?, notes = ?,
		    version = ?, synced = 0, sync_error = '', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		tx.Date.Format(dateLayout), tx.Amount.Cents, string(tx.Type), tx.Category, tx.Notes, tx.Version, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, type, is_system
		FROM categories ORDER BY is_system DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		var system int
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &typ, &system); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		c.IsSystem = system != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, type, is_system)
		VALUES (?, ?, ?, ?, 0)`,
		c.ID, c.Name, c.Color, string(c.Type))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateName
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	system, err := r.categoryIsSystem(ctx, c.ID)
	if err != nil {
		return err
	}
	if system {
		return store.ErrSystemCategory
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, type = ? WHERE id = ?`,
		c.Name, c.Color, string(c.Type), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) categoryIsSystem(ctx context.Context, id string) (bool, error) {
	var system int
	err := r.db.QueryRowContext(ctx,
		`SELECT is_system FROM categories WHERE id = ?`, id).Scan(&system)
	if errors.Is(err, sql.ErrNoRows) {
		return false, store.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("lookup category: %w", err)
	}
	return system != 0, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string, t core.TransactionType) error {
	var system int
	err := r.db.QueryRowContext(ctx,
		`SELECT is_system FROM categories WHERE name = ? AND type = ?`, name, string(t)).Scan(&system)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup category: %w", err)
	}
	if system != 0 {
		return store.ErrSystemCategory
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE name = ? AND type = ?`, name, string(t))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FetchBudgets(ctx context.Context, year, month int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, month, year, allocated_cents
		FROM budgets WHERE year = ? AND month = ? ORDER BY category ASC`,
		year, month)
	if err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.Category, &b.Month, &b.Year, &b.Allocated.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SetBudgets(ctx context.Context, year, month int, budgets []core.Budget) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin budget replace: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx,
		`DELETE FROM budgets WHERE year = ? AND month = ?`, year, month); err != nil {
		return fmt.Errorf("clear month budgets: %w", err)
	}
	for _, b := range budgets {
		if _, err := dbtx.ExecContext(ctx, `
			INSERT INTO budgets (category, month, year, allocated_cents)
			VALUES (?, ?, ?, ?)`,
			b.Category, month, year, b.Allocated.Cents); err != nil {
			return fmt.Errorf("insert budget %s: %w", b.Category, err)
		}
	}
	return dbtx.Commit()
}

func (r *SQLiteRepository) FetchSettings(ctx context.Context) (core.UserSettings, error) {
	var (
		s      core.UserSettings
		saving sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT theme, monthly_income_target_cents, emergency_fund_goal_cents,
		       saving_amount_cents, current_savings_cents
		FROM settings WHERE id = 1`).Scan(
		&s.Theme, &s.MonthlyIncomeTarget.Cents, &s.EmergencyFundGoal.Cents,
		&saving, &s.CurrentSavings.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.UserSettings{}, fmt.Errorf("fetch settings: %w", err)
	}

	if saving.Valid {
		s.SavingTarget = core.FixedSavingTarget(core.Money{Cents: saving.Int64})
	} else {
		s.SavingTarget = core.AutoSavingTarget()
	}
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.UserSettings) error {
	var saving sql.NullInt64
	if !s.SavingTarget.Auto {
		saving = sql.NullInt64{Int64: s.SavingTarget.Amount.Cents, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE settings
		SET theme = ?, monthly_income_target_cents = ?, emergency_fund_goal_cents = ?,
		    saving_amount_cents = ?, current_savings_cents = ?
		WHERE id = 1`,
		s.Theme, s.MonthlyIncomeTarget.Cents, s.EmergencyFundGoal.Cents,
		saving, s.CurrentSavings.Cents)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// PendingSyncTransaction is the minimal record the mirror worker needs to
// replay an unsynced row.
type PendingSyncTransaction struct {
	ID        string
	Version   int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns transactions not yet mirrored, oldest
// first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, created_at
		FROM transactions WHERE synced = 0
		ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		var created string
		if err := rows.Scan(&p.ID, &p.Version, &created); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.DateTime, created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful mirror write.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = '' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", applog.FieldTransactionID, id)
	return nil
}

// MarkSyncError records a failed mirror write; the row stays pending.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string, cause string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = ? WHERE id = ?`, cause, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error",
		applog.FieldTransactionID, id,
		applog.FieldError, cause)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx   core.Transaction
		date string
		typ  string
	)
	if err := row.Scan(&tx.ID, &date, &tx.Amount.Cents, &typ, &tx.Category, &tx.Notes, &tx.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	tx.Date = core.Date{Time: parsed}
	tx.Type = core.TransactionType(typ)
	return tx, nil
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

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}
