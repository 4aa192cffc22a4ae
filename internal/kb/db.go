package kb

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps a knowledge-base connection. SQLite is the default backing store;
// a Postgres mirror of the same schema can be used instead.
type DB struct {
	conn   *sql.DB
	driver string
	dsn    string
}

// Open opens a knowledge base for the given driver. dsn is a file path for
// SQLite and a connection URL for Postgres.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite, "":
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		if dsn == ":memory:" {
			// every pooled connection would get its own empty database
			conn.SetMaxOpenConns(1)
		}
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
		return &DB{conn: conn, driver: DriverSQLite, dsn: dsn}, nil
	case DriverPostgres:
		conn, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return &DB{conn: conn, driver: DriverPostgres, dsn: dsn}, nil
	default:
		return nil, fmt.Errorf("unknown kb driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Driver reports which storage driver backs this knowledge base.
func (d *DB) Driver() string { return d.driver }

// Location is the knowledge base's path, or its connection URL with the
// password masked. Safe to print.
func (d *DB) Location() string {
	return redactDSN(d.driver, d.dsn)
}

func redactDSN(driver, dsn string) string {
	if driver != DriverPostgres {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		// keyword/value DSNs may carry password=...; show nothing of them
		return DriverPostgres
	}
	return u.Redacted()
}

// q adapts a query written with ? placeholders to the active driver.
func (d *DB) q(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	return rebind(query)
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
// Query texts in this package never contain a literal '?'.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
