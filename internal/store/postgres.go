package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"ddns53/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore is the relational alternative to DynamoStore: one users table
// with the domain set serialized as JSON.
type PostgresStore struct {
	conn *sql.DB
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &PostgresStore{conn: conn}, nil
}

func runMigrations(conn *sql.DB) error {
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("an error occurred while syncing the database: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

func (s *PostgresStore) GetUser(ctx context.Context, username string) (model.User, error) {
	var user model.User
	var domainsJSON string
	err := s.conn.QueryRowContext(ctx,
		"SELECT username, password_hash, domains FROM users WHERE username = $1",
		username,
	).Scan(&user.Username, &user.PasswordHash, &domainsJSON)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if err := json.Unmarshal([]byte(domainsJSON), &user.Domains); err != nil {
		return model.User{}, fmt.Errorf("decode domains for %q: %w", username, err)
	}
	return user, nil
}

func (s *PostgresStore) PutUser(ctx context.Context, user model.User) error {
	domainsJSON, err := json.Marshal(user.Domains)
	if err != nil {
		return fmt.Errorf("encode domains for %q: %w", user.Username, err)
	}
	res, err := s.conn.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, domains) VALUES ($1, $2, $3) ON CONFLICT (username) DO NOTHING",
		user.Username, user.PasswordHash, string(domainsJSON),
	)
	if err != nil {
		return fmt.Errorf("put user %q: %w", user.Username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrExists
	}
	return nil
}
