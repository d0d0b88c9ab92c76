package scores

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{DB: db}, mock
}

func TestTopOrdersAndLimits(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"player_initials", "score"}).
		AddRow("ZED", 900).
		AddRow("AAA", 120)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT player_initials, score FROM high_scores ORDER BY score DESC LIMIT ?")).
		WithArgs(5000).
		WillReturnRows(rows)

	got, err := store.Top(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Initials: "ZED", Score: 900}, {Initials: "AAA", Score: 120}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTopEmptyTableReturnsEmptySlice(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT player_initials").
		WithArgs(DefaultLimit).
		WillReturnRows(sqlmock.NewRows([]string{"player_initials", "score"}))

	got, err := store.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInsertReturnsRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO high_scores (player_initials, score) VALUES (?, ?)")).
		WithArgs("AAA", int64(42)).
		WillReturnResult(sqlmock.NewResult(7, 1))

	got, err := store.Insert(context.Background(), NormalizeInitials("toolong1"), 42)
	require.NoError(t, err)
	assert.Equal(t, Entry{ID: 7, Initials: "AAA", Score: 42}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWrapsDriverError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection refused")
	mock.ExpectExec("INSERT INTO high_scores").WillReturnError(boom)

	_, err := store.Insert(context.Background(), "ABC", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestResetCountsRows(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM high_scores").WillReturnResult(sqlmock.NewResult(0, 12))

	n, err := store.Reset(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
}

func TestDegradedStore(t *testing.T) {
	store, err := Open(DBConfig{Host: "db"})
	require.NoError(t, err)
	assert.False(t, store.Available())

	_, err = store.Top(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = store.Insert(context.Background(), "AAA", 1)
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = store.Reset(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.NoError(t, store.Close())
}

func TestNormalizeInitials(t *testing.T) {
	cases := map[string]struct {
		in   any
		want string
	}{
		"lowercase": {"abc", "ABC"},
		"short":     {"q", "Q"},
		"too long":  {"toolong1", "AAA"},
		"empty":     {"", "AAA"},
		"missing":   {nil, "AAA"},
		"number":    {12.0, "AAA"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeInitials(tc.in))
		})
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, ParseLimit(""))
	assert.Equal(t, 10, ParseLimit("abc"))
	assert.Equal(t, 10, ParseLimit("-3"))
	assert.Equal(t, 10, ParseLimit("0"))
	assert.Equal(t, 25, ParseLimit("25"))
	assert.Equal(t, 1000, ParseLimit("1000"))
}

func TestParseScore(t *testing.T) {
	n, err := ParseScore(42.9)
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	n, err = ParseScore(-3.5)
	require.NoError(t, err)
	assert.EqualValues(t, -3, n)

	_, err = ParseScore("42")
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = ParseScore(nil)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestDSNCarriesTimeout(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 3307, User: "u", Password: "p", Database: "game"}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "u:p@tcp(db:3307)/game")
	assert.Contains(t, dsn, "timeout=15s")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_DATABASE", "arcade")
	t.Setenv("DB_ACC", "admin")
	t.Setenv("DB_ACC_PASS", "secret")

	cfg := ConfigFromEnv("DB_ACC", "DB_ACC_PASS")
	assert.Equal(t, DBConfig{Host: "db.local", Port: 3306, User: "admin", Password: "secret", Database: "arcade"}, cfg)
	assert.True(t, cfg.Complete())
}
