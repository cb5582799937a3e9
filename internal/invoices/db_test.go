package invoices

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db"
)

func openLedgerTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  value NUMERIC(12,2) NOT NULL,
  removed INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS invoice_frames (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  total_value NUMERIC(12,2) NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS invoice_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  invoice_id INTEGER NOT NULL,
  item_id INTEGER NOT NULL,
  row_total NUMERIC(12,2) NOT NULL,
  quantity INTEGER NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_invoice_rows_invoice_id ON invoice_rows (invoice_id);`,
	}
	for _, stmt := range statements {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}
	return client
}
