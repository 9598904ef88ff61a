package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	store "github.com/tsubame-dev/store-api"
)

// setupTestDB opens a private in-memory database with the full schema
// in place.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.CreateSchema(context.Background(), db))

	return db
}

// createTestUser inserts a user with a bcrypt hash of the given password.
func createTestUser(t *testing.T, db *bun.DB, email, password string, role store.UserRole) *store.User {
	t.Helper()

	hash, err := store.HashPassword(password)
	require.NoError(t, err)

	user := &store.User{
		Email:          email,
		HashedPassword: hash,
		Role:           role,
	}
	_, err = db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)

	return user
}
