package audit

import (
	"database/sql"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larry/internal/platform/config"
	"larry/internal/platform/database"
	"larry/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.NewDB(config.DatabaseConfig{URL: ":memory:", MaxConnections: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(db, migrations.FS)
	require.NoError(t, err)
	return db
}

func TestLogger_LogAndList(t *testing.T) {
	l := NewLogger(setupTestDB(t))

	req := httptest.NewRequest("POST", "/api/v1/codes", nil)
	req.RemoteAddr = "192.0.2.7:4321"
	req.Header.Set("User-Agent", "larry-test/1.0")

	l.Log(req, "cli_1", ActionCodeCreate, ResourceCode, "code-1", map[string]interface{}{"bytes": 812})
	l.Log(req, "cli_1", ActionCodeDelete, ResourceCode, "code-1", nil)
	l.Log(req, "cli_2", ActionTokenIssue, ResourceClient, "cli_2", nil)

	entries, err := l.List("cli_1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := []string{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []string{ActionCodeCreate, ActionCodeDelete}, actions)
	for _, e := range entries {
		assert.Equal(t, "192.0.2.7", e.IPAddress)
		assert.Equal(t, "larry-test/1.0", e.UserAgent)
		if e.Action == ActionCodeCreate {
			assert.Equal(t, float64(812), e.Metadata["bytes"])
		}
	}

	entries, err = l.List("cli_1", 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Log(httptest.NewRequest("GET", "/", nil), "cli_1", ActionCodeCreate, ResourceCode, "x", nil)
	})
}

func TestLogger_WriteFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnError(sql.ErrConnDone)

	l := NewLogger(db)
	l.Log(httptest.NewRequest("GET", "/", nil), "cli_1", ActionCodeCreate, ResourceCode, "x", nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}
