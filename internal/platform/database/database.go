// Package database opens the relational connection pools used by the
// password-history stores.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"pwpolicy/internal/platform/config"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// OpenMySQL opens a pool against the legacy MySQL history database.
func OpenMySQL(ctx context.Context, cfg config.History) (*sql.DB, error) {
	dsn := MySQLDSN(cfg)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return ping(ctx, db, cfg.DialTimeout)
}

// MySQLDSN renders the driver DSN. The connect timeout mirrors the legacy
// JDBC connectTimeout of five seconds unless overridden.
func MySQLDSN(cfg config.History) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = cfg.Addr()
	mc.DBName = cfg.Name
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Timeout = cfg.DialTimeout
	mc.ReadTimeout = cfg.QueryTimeout
	mc.WriteTimeout = cfg.QueryTimeout
	mc.ParseTime = true
	return mc.FormatDSN()
}

// OpenPostgres opens a pool against a PostgreSQL history database using pgx.
func OpenPostgres(ctx context.Context, cfg config.History) (*sql.DB, error) {
	db, err := sql.Open("pgx", PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return ping(ctx, db, cfg.DialTimeout)
}

// PostgresDSN renders a postgres:// URL for cfg.
func PostgresDSN(cfg config.History) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Addr(),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	if cfg.DialTimeout > 0 {
		q.Set("connect_timeout", fmt.Sprintf("%d", int(cfg.DialTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) (*sql.DB, error) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	return db, nil
}
