package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larry/internal/platform/database"
	"larry/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(db, migrations.FS)
	require.NoError(t, err)
	return db
}

func TestClientRepository_ProvisionAndAuthenticate(t *testing.T) {
	repo := NewClientRepository(setupTestDB(t))

	client, secret, err := repo.Provision("ci", []string{"codes:read", "codes:write"})
	require.NoError(t, err)
	assert.Contains(t, client.ID, "cli_")
	assert.Contains(t, secret, clientSecretPrefix)
	assert.NotEqual(t, secret, client.SecretHash)

	got, err := repo.Authenticate(client.ID, secret)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ci", got.Name)
	assert.True(t, got.HasScope("codes:write"))
	assert.False(t, got.HasScope("admin"))

	got, err = repo.Authenticate(client.ID, "wrong")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Authenticate("cli_missing", secret)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClientRepository_RevokeAndLastUsed(t *testing.T) {
	repo := NewClientRepository(setupTestDB(t))

	client, secret, err := repo.Provision("ci", nil)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateLastUsed(client.ID))
	got, err := repo.GetByID(client.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	assert.Empty(t, got.Scopes)

	require.NoError(t, repo.Revoke(client.ID))
	got, err = repo.GetByID(client.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.RevokedAt)

	got, err = repo.Authenticate(client.ID, secret)
	require.NoError(t, err)
	assert.Nil(t, got, "revoked clients cannot authenticate")
}

func TestClientRepository_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbErr := errors.New("database is locked")
	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id = ?").
		WithArgs("cli_1").
		WillReturnError(dbErr)

	repo := NewClientRepository(db)
	_, err = repo.Authenticate("cli_1", "secret")
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
