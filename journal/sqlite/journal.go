// Package sqlite provides a journal driver backed by SQLite via Grove ORM.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/journal"
)

// compile-time interface check
var _ journal.Journal = (*Journal)(nil)

// Journal implements journal.Journal using SQLite via Grove ORM.
type Journal struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite journal backed by Grove ORM.
func New(db *grove.DB) *Journal {
	return &Journal{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (j *Journal) DB() *grove.DB { return j.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (j *Journal) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(j.sdb)
	if err != nil {
		return fmt.Errorf("storefront/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("storefront/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.Ping(ctx)
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) AppendBatch(ctx context.Context, entries []*journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]entryModel, len(entries))
	for i, e := range entries {
		models[i] = *toEntryModel(e)
	}
	_, err := j.sdb.NewInsert(&models).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	return err
}

func (j *Journal) List(ctx context.Context, origin string, opts journal.ListOpts) ([]*journal.Entry, error) {
	var models []entryModel
	q := j.sdb.NewSelect(&models).
		Where("origin = ?", origin)

	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	if !opts.Since.IsZero() {
		q = q.Where("recorded_at >= ?", opts.Since)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("recorded_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*journal.Entry, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (j *Journal) Balance(ctx context.Context, origin string) (int64, error) {
	var total int64
	err := j.sdb.NewRaw(`
		SELECT COALESCE(SUM(CASE WHEN kind = 'SPENT' THEN -amount ELSE amount END), 0)
		FROM storefront_transactions
		WHERE origin = ?
	`, origin).Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (j *Journal) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.sdb.NewDelete((*entryModel)(nil)).
		Where("recorded_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return rows, nil
}

// ==================== Models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:storefront_transactions"`

	ID         string    `grove:"id,pk"`
	Kind       string    `grove:"kind"`
	Origin     string    `grove:"origin"`
	Label      string    `grove:"label"`
	Amount     int64     `grove:"amount"`
	Currency   string    `grove:"currency"`
	RecordedAt time.Time `grove:"recorded_at"`
}

func toEntryModel(e *journal.Entry) *entryModel {
	return &entryModel{
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		Origin:     e.Origin,
		Label:      e.Label,
		Amount:     e.Amount,
		Currency:   e.Currency,
		RecordedAt: e.RecordedAt,
	}
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	entryID, err := id.ParseTransactionID(m.ID)
	if err != nil {
		return nil, err
	}

	return &journal.Entry{
		ID:         entryID,
		Kind:       event.Kind(m.Kind),
		Origin:     m.Origin,
		Label:      m.Label,
		Amount:     m.Amount,
		Currency:   m.Currency,
		RecordedAt: m.RecordedAt,
	}, nil
}
