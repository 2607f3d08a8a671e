package session

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupRepo(t *testing.T) storage.Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE storage (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return storage.NewSQLiteRepository(db)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// ---- tests ----

func TestCache_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	c1, err := NewCache(ctx, repo, testLogger())
	require.NoError(t, err)
	require.Empty(t, c1.Token())

	c1.SetToken(ctx, "abc")

	c2, err := NewCache(ctx, repo, testLogger())
	require.NoError(t, err)
	require.Equal(t, "abc", c2.Token())
}

func TestCache_ClearDropsDurableSlot(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	c, err := NewCache(ctx, repo, testLogger())
	require.NoError(t, err)
	c.SetToken(ctx, "abc")
	c.Clear(ctx)
	require.Empty(t, c.Token())

	data, err := repo.Get(ctx, common.AccessTokenSlot)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestCache_Expired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{name: "absent token", token: "", expired: true},
		{name: "expired token", token: signedToken(t, now.Add(-time.Hour)), expired: true},
		{name: "valid token", token: signedToken(t, now.Add(time.Hour)), expired: false},
		{name: "opaque token stays server-decided", token: "not-a-jwt", expired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCache(ctx, nil, testLogger())
			require.NoError(t, err)
			if tt.token != "" {
				c.SetToken(ctx, tt.token)
			}
			require.Equal(t, tt.expired, c.Expired(now))
		})
	}
}
