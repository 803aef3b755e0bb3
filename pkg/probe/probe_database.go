package probe

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// databaseProbe checks the relational store through a scoped connection
// taken from the shared pool.
type databaseProbe struct {
	db      *sql.DB
	timeout time.Duration
}

func NewDatabaseProbe(db *sql.DB, timeout time.Duration) *databaseProbe {
	return &databaseProbe{db: db, timeout: timeout}
}

func (d *databaseProbe) Exec(ctx context.Context) Result {
	if d.db == nil {
		return failed(KindConnectivity, ErrNoHandle)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	conn, err := d.db.Conn(ctx)
	if err != nil {
		return failed(KindConnectivity, errors.Wrap(err, "failed to acquire database connection"))
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		if ctx.Err() != nil {
			return failed(KindConnectivity, errors.Wrap(err, "database did not answer in time"))
		}
		return failed(KindQuery, errors.Wrap(err, "round-trip query failed"))
	}

	return passed("Connected")
}
