package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

func TestFromCascadeResult(t *testing.T) {
	assert.Nil(t, FromCascadeResult(nil))

	resp := FromCascadeResult(&cascade.Result{
		Scope:          cascade.ScopeGroup,
		CommitmentID:   "g1",
		TargetID:       "g1",
		Status:         domain.StatusCancelled,
		AlreadyApplied: true,
	})
	require.NotNil(t, resp)
	assert.Equal(t, "group", resp.Scope)
	assert.NotNil(t, resp.UpdatedIDs)
	assert.Empty(t, resp.UpdatedIDs)
	assert.Nil(t, resp.Skipped)
	assert.True(t, resp.AlreadyApplied)

	resp = FromCascadeResult(&cascade.Result{
		Scope:      cascade.ScopeParentChildren,
		Status:     domain.StatusCancelled,
		UpdatedIDs: []string{"b1"},
		Skipped:    []cascade.SkippedBooking{{ID: "b2", Status: domain.StatusCompleted}},
	})
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "b2", resp.Skipped[0].ID)
	assert.Equal(t, "completed", resp.Skipped[0].Status)
}
