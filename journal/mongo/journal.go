// Package mongo provides a journal driver backed by MongoDB via Grove ORM.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/journal"
)

// colTransactions is the collection holding journal entries.
const colTransactions = "storefront_transactions"

// compile-time interface check
var _ journal.Journal = (*Journal)(nil)

// Journal implements journal.Journal using MongoDB via Grove ORM.
type Journal struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB journal backed by Grove ORM.
func New(db *grove.DB) *Journal {
	return &Journal{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (j *Journal) DB() *grove.DB { return j.db }

// Migrate creates indexes for the transactions collection.
func (j *Journal) Migrate(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "origin", Value: 1}, {Key: "recorded_at", Value: 1}}},
		{Keys: bson.D{{Key: "origin", Value: 1}, {Key: "kind", Value: 1}}},
		{Keys: bson.D{{Key: "recorded_at", Value: 1}}},
	}
	_, err := j.mdb.Collection(colTransactions).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("storefront/mongo: migrate %s indexes: %w", colTransactions, err)
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
	for _, e := range entries {
		m := toEntryModel(e)
		_, err := j.mdb.NewInsert(m).Exec(ctx)
		if err != nil {
			// Skip duplicates so retried flushes never double-count.
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return fmt.Errorf("storefront/mongo: append entry: %w", err)
		}
	}
	return nil
}

func (j *Journal) List(ctx context.Context, origin string, opts journal.ListOpts) ([]*journal.Entry, error) {
	var models []entryModel

	filter := bson.M{"origin": origin}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	if !opts.Since.IsZero() {
		filter["recorded_at"] = bson.M{"$gte": opts.Since}
	}

	q := j.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "recorded_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list entries: %w", err)
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
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{"origin": origin},
		},
		bson.M{
			"$group": bson.M{
				"_id": nil,
				"total": bson.M{
					"$sum": bson.M{
						"$cond": bson.A{
							bson.M{"$eq": bson.A{"$kind", string(event.Spent)}},
							bson.M{"$multiply": bson.A{"$amount", -1}},
							"$amount",
						},
					},
				},
			},
		},
	}

	cursor, err := j.mdb.Collection(colTransactions).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("storefront/mongo: balance: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("storefront/mongo: balance decode: %w", err)
	}

	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (j *Journal) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.mdb.NewDelete((*entryModel)(nil)).
		Filter(bson.M{"recorded_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("storefront/mongo: purge: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:storefront_transactions"`

	ID         string    `grove:"id,pk"       bson:"_id"`
	Kind       string    `grove:"kind"        bson:"kind"`
	Origin     string    `grove:"origin"      bson:"origin"`
	Label      string    `grove:"label"       bson:"label"`
	Amount     int64     `grove:"amount"      bson:"amount"`
	Currency   string    `grove:"currency"    bson:"currency"`
	RecordedAt time.Time `grove:"recorded_at" bson:"recorded_at"`
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
