package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salepoint/salepoint-backend/pkg/config"
)

func newMemoryClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DriverSQLite}, nil)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	client := newMemoryClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newMemoryClient(t)
	require.NoError(t, client.DB().Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT)`).Error)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO things (name) VALUES ('a')`).Error; err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM things`).Scan(&count).Error)
	assert.Zero(t, count)
}

func TestWithTxCommits(t *testing.T) {
	client := newMemoryClient(t)
	require.NoError(t, client.DB().Exec(`CREATE TABLE things2 (id INTEGER PRIMARY KEY, name TEXT)`).Error)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO things2 (name) VALUES ('a')`).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM things2`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}
