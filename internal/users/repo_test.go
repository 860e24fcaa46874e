package users

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortOrderWhitelist(t *testing.T) {
	require.Equal(t, "created_at DESC", sortOrder("", ""))
	require.Equal(t, "name ASC", sortOrder("name", "asc"))
	require.Equal(t, "email DESC", sortOrder("email", "desc"))

	require.Equal(t, "created_at ASC", sortOrder("password_hash", "asc"))
	require.Equal(t, "created_at DESC", sortOrder("1; DROP TABLE users", "desc"))
}
