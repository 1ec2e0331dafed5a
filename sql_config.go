package blog

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver
)

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type SQLConfig struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Options  map[string]string
}

func NewSQLConfig() *SQLConfig {
	return &SQLConfig{
		Driver:  DriverPostgres,
		Host:    "localhost",
		Port:    5432,
		Options: map[string]string{"sslmode": "disable"},
	}
}

func (c *SQLConfig) WithDriver(driver string) *SQLConfig {
	c.Driver = driver
	return c
}

func (c *SQLConfig) WithCredentials(username, password string) *SQLConfig {
	c.Username = username
	c.Password = password
	return c
}

func (c *SQLConfig) WithHost(host string, port int) *SQLConfig {
	c.Host = host
	c.Port = port
	return c
}

func (c *SQLConfig) WithDatabase(database string) *SQLConfig {
	c.Database = database
	return c
}

func (c *SQLConfig) WithOption(key, value string) *SQLConfig {
	c.Options[key] = value
	return c
}

// BuildDSN renders a postgres:// URL. lib/pq and pgx both accept it, and
// credentials and options are escaped so empty or spaced values survive.
func (c *SQLConfig) BuildDSN() string {
	switch c.Driver {
	case DriverPostgres, DriverPgx:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:   "/" + c.Database,
		}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}

		query := url.Values{}
		for key, value := range c.Options {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
		return u.String()
	default:
		return ""
	}
}

func (c *SQLConfig) Connect(ctx context.Context) (*sql.DB, error) {
	dsn := c.BuildDSN()
	if dsn == "" {
		return nil, fmt.Errorf("unsupported sql driver %q", c.Driver)
	}

	db, err := sql.Open(c.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
