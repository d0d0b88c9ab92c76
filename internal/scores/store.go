// Package scores persists the high-score table in MySQL.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	DefaultLimit    = 10
	DefaultInitials = "AAA"

	maxOpenConns   = 10
	connectTimeout = 15 * time.Second
)

var (
	ErrNoDatabase   = errors.New("database not configured")
	ErrInvalidScore = errors.New("score must be a number")
)

// DBConfig holds the connection settings read from the environment.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Complete reports whether enough is set to attempt a connection.
func (c DBConfig) Complete() bool {
	return c.Host != "" && c.User != "" && c.Database != ""
}

// DSN renders the config for the mysql driver.
func (c DBConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.DBName = c.Database
	mc.Timeout = connectTimeout
	mc.ParseTime = true
	return mc.FormatDSN()
}

// ConfigFromEnv reads DB_HOST, DB_PORT, DB_DATABASE and the credential pair
// named by userKey and passKey. Port defaults to 3306.
func ConfigFromEnv(userKey, passKey string) DBConfig {
	cfg := DBConfig{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv(userKey),
		Password: os.Getenv(passKey),
		Database: os.Getenv("DB_DATABASE"),
		Port:     3306,
	}
	if p, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil && p > 0 {
		cfg.Port = p
	}
	return cfg
}

// Entry is one row of the high-score table.
type Entry struct {
	ID       int64  `json:"id,omitempty"`
	Initials string `json:"player_initials"`
	Score    int64  `json:"score"`
}

// Store wraps the connection pool. A Store with a nil DB is degraded: every
// call returns ErrNoDatabase.
type Store struct {
	DB *sql.DB
}

// Open builds the pool. Incomplete configuration is not an error; the
// returned store is degraded so the service can still serve sessions.
func Open(cfg DBConfig) (*Store, error) {
	if !cfg.Complete() {
		log.Printf("scores: database configuration incomplete, running without persistence")
		return &Store{}, nil
	}
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return &Store{}, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Printf("scores: pool created for %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return &Store{DB: db}, nil
}

func (s *Store) Available() bool { return s != nil && s.DB != nil }

func (s *Store) Close() error {
	if !s.Available() {
		return nil
	}
	return s.DB.Close()
}

// Top returns the best scores, highest first. A non-positive limit means
// DefaultLimit.
func (s *Store) Top(ctx context.Context, limit int) ([]Entry, error) {
	if !s.Available() {
		return nil, ErrNoDatabase
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.DB.QueryContext(ctx,
		"SELECT player_initials, score FROM high_scores ORDER BY score DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Initials, &e.Score); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}
	return out, nil
}

// Insert stores one score and returns the stored row.
func (s *Store) Insert(ctx context.Context, initials string, score int64) (Entry, error) {
	if !s.Available() {
		return Entry{}, ErrNoDatabase
	}
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO high_scores (player_initials, score) VALUES (?, ?)", initials, score)
	if err != nil {
		return Entry{}, fmt.Errorf("insert score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("insert score id: %w", err)
	}
	return Entry{ID: id, Initials: initials, Score: score}, nil
}

// Reset deletes every score and returns how many rows went.
func (s *Store) Reset(ctx context.Context) (int64, error) {
	if !s.Available() {
		return 0, ErrNoDatabase
	}
	res, err := s.DB.ExecContext(ctx, "DELETE FROM high_scores")
	if err != nil {
		return 0, fmt.Errorf("delete scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete scores count: %w", err)
	}
	return n, nil
}

// NormalizeInitials accepts a 1 to 3 character string and uppercases it.
// Anything else becomes DefaultInitials.
func NormalizeInitials(v any) string {
	str, ok := v.(string)
	if !ok || str == "" || len([]rune(str)) > 3 {
		return DefaultInitials
	}
	return strings.ToUpper(str)
}

// ParseLimit reads the limit query value. Missing, non-numeric and
// non-positive values give DefaultLimit.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	return n
}

// ParseScore accepts a JSON number and truncates it toward zero.
func ParseScore(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != n || n > 9e18 || n < -9e18 {
			return 0, ErrInvalidScore
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, ErrInvalidScore
}
