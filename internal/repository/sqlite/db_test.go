package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDatabase(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Ping())
}

func TestOpenUnusablePathReturnsError(t *testing.T) {
	// a directory is not a valid database file; the pragma setup fails and
	// Open must surface the error without leaving a handle behind
	_, err := Open(t.TempDir())
	require.Error(t, err)
}
