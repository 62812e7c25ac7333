package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the storefront journal (SQLite).
var Migrations = migrate.NewGroup("storefront")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_storefront_transactions",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS storefront_transactions (
    id          TEXT PRIMARY KEY,
    kind        TEXT NOT NULL DEFAULT 'EARNED',
    origin      TEXT NOT NULL DEFAULT '',
    label       TEXT NOT NULL DEFAULT '',
    amount      INTEGER NOT NULL DEFAULT 0,
    currency    TEXT NOT NULL DEFAULT 'usd',
    recorded_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_storefront_txn_origin ON storefront_transactions (origin);
CREATE INDEX IF NOT EXISTS idx_storefront_txn_origin_kind ON storefront_transactions (origin, kind);
CREATE INDEX IF NOT EXISTS idx_storefront_txn_recorded ON storefront_transactions (recorded_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS storefront_transactions`)
				return err
			},
		},
	)
}
