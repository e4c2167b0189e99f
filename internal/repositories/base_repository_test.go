// internal/repositories/base_repository_test.go
package repositories

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// BeginTx deliberately hides the *sql.TxOptions argument of the underlying
// database manager; all repositories call it with the context alone.
var _ func(context.Context) (*sql.Tx, error) = (&BaseRepository{}).BeginTx

func TestTruncateQuery(t *testing.T) {
	short := "SELECT 1"
	assert.Equal(t, short, truncateQuery(short))

	long := strings.Repeat("x", 500)
	truncated := truncateQuery(long)
	assert.Len(t, truncated, 203)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
