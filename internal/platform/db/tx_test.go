package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsSerializationFailure(t *testing.T) {
	serErr := &pgconn.PgError{Code: "40001"}
	require.True(t, IsSerializationFailure(serErr))

	// Commit errors are wrapped before they reach the retry check.
	require.True(t, IsSerializationFailure(fmt.Errorf("platform/db: commit tx: %w", serErr)))

	require.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsSerializationFailure(errors.New("40001")))
	require.False(t, IsSerializationFailure(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505"}
	require.True(t, IsUniqueViolation(uniqueErr))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert user: %w", uniqueErr)))

	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "40001"}))
	require.False(t, IsUniqueViolation(nil))
}
