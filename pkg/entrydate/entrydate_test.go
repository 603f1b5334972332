package entrydate

import (
	"testing"

	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	date, err := Resolve(database.RoleAdmin, "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", date)

	// Empty input means today for every role
	date, err = Resolve(database.RoleAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, Today(), date)

	// Non-admin supplied dates are ignored, not rejected
	date, err = Resolve(database.RoleStaff, "2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, Today(), date)

	date, err = Resolve(database.RoleStaffCash, "garbage")
	require.NoError(t, err)
	assert.Equal(t, Today(), date)

	_, err = Resolve(database.RoleAdmin, "2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Resolve(database.RoleAdmin, "01/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("2026-03-10"))
	assert.True(t, Valid("2024-02-29"))
	assert.False(t, Valid("2023-02-29"))
	assert.False(t, Valid("2026-3-1"))
	assert.False(t, Valid(""))
}
