package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "status").
		From("bookings").
		Where(squirrel.Eq{"parent_booking_id": "root-1"}).
		Where(squirrel.Eq{"id": []string{"a", "b"}}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM bookings WHERE parent_booking_id = $1 AND id IN ($2,$3)", query)
	assert.Equal(t, []interface{}{"root-1", "a", "b"}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Update("bookings").
		Set("status", "cancelled").
		Where(squirrel.Eq{"id": "x"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET status = $1 WHERE id = $2", query)
	assert.Equal(t, []interface{}{"cancelled", "x"}, args)
}
