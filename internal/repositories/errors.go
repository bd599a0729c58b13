package repositories

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/stocktrail/backend/internal/models"
)

// mysqlDuplicateEntry is the MySQL error number for unique-constraint violations
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a unique-constraint violation on
// the named key
func isDuplicateEntry(err error, key string) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlDuplicateEntry && strings.Contains(mysqlErr.Message, key)
}

// isStorageUnavailable reports whether err is a connection-level failure
// rather than a statement-level one
func isStorageUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// wrapDBError attaches the operation context and classifies connection
// failures under models.ErrStorageUnavailable so the boundary can answer 503
// instead of a generic 500
func wrapDBError(op string, err error) error {
	if isStorageUnavailable(err) {
		return fmt.Errorf("%s: %w", op, models.ErrStorageUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
