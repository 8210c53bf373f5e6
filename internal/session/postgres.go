package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenDB opens a PostgreSQL connection pool using DATABASE_URL.
func OpenDB(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	// Session lookups are tiny; a small pool is plenty for one editor.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// PostgresStore keeps sessions in the sessions table created by the
// migrations in internal/db, so logins survive restarts and can be shared by
// several editor instances.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, bool, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `
		SELECT logged_in
		FROM sessions
		WHERE id = $1 AND expires_at > $2
	`, id, s.now()).Scan(&rec.LoggedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("session get: %w", err)
	}
	return rec, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, logged_in, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET logged_in = EXCLUDED.logged_in, expires_at = EXCLUDED.expires_at
	`, id, rec.LoggedIn, s.now().Add(s.ttl))
	if err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *PostgresStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("session purge: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
