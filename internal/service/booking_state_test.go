package service

import (
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyApproval(t *testing.T) {
	t.Run("ApproveWaiting", func(t *testing.T) {
		b := &models.Booking{Status: models.StatusWaiting}
		require.NoError(t, applyApproval(b, true))
		assert.Equal(t, models.StatusApproved, b.Status)
	})

	t.Run("RejectWaiting", func(t *testing.T) {
		b := &models.Booking{Status: models.StatusWaiting}
		require.NoError(t, applyApproval(b, false))
		assert.Equal(t, models.StatusRejected, b.Status)
	})

	t.Run("ApproveApprovedFails", func(t *testing.T) {
		b := &models.Booking{Status: models.StatusApproved}
		err := applyApproval(b, true)
		require.Error(t, err)
		assert.Equal(t, KindInvalidTransition, KindOf(err))
		assert.Equal(t, models.StatusApproved, b.Status)
	})

	// Отклонение принимается из любого статуса
	t.Run("RejectApproved", func(t *testing.T) {
		b := &models.Booking{Status: models.StatusApproved}
		require.NoError(t, applyApproval(b, false))
		assert.Equal(t, models.StatusRejected, b.Status)
	})

	t.Run("RejectRejected", func(t *testing.T) {
		b := &models.Booking{Status: models.StatusRejected}
		require.NoError(t, applyApproval(b, false))
		assert.Equal(t, models.StatusRejected, b.Status)
	})

	t.Run("ApproveRejected", func(t *testing.T) {
		b := &models.Booking{Status: models.StatusRejected}
		require.NoError(t, applyApproval(b, true))
		assert.Equal(t, models.StatusApproved, b.Status)
	})
}
