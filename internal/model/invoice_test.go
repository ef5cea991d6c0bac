package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusDraft))
	assert.True(t, ValidStatus(StatusSent))
	assert.True(t, ValidStatus(StatusPaid))
	assert.True(t, ValidStatus(StatusCancelled))

	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("draft"))
	assert.False(t, ValidStatus("Overdue"))
}

func TestCanTransition(t *testing.T) {
	t.Run("legal transitions", func(t *testing.T) {
		assert.True(t, CanTransition(StatusDraft, StatusSent))
		assert.True(t, CanTransition(StatusDraft, StatusCancelled))
		assert.True(t, CanTransition(StatusSent, StatusPaid))
		assert.True(t, CanTransition(StatusSent, StatusCancelled))
	})

	t.Run("same state is always allowed", func(t *testing.T) {
		for _, status := range []string{StatusDraft, StatusSent, StatusPaid, StatusCancelled} {
			assert.True(t, CanTransition(status, status), status)
		}
	})

	t.Run("illegal transitions", func(t *testing.T) {
		assert.False(t, CanTransition(StatusDraft, StatusPaid), "cannot pay an unsent invoice")
		assert.False(t, CanTransition(StatusSent, StatusDraft), "cannot unsend")
	})

	t.Run("terminal states", func(t *testing.T) {
		assert.False(t, CanTransition(StatusPaid, StatusDraft))
		assert.False(t, CanTransition(StatusPaid, StatusSent))
		assert.False(t, CanTransition(StatusPaid, StatusCancelled))
		assert.False(t, CanTransition(StatusCancelled, StatusDraft))
		assert.False(t, CanTransition(StatusCancelled, StatusSent))
		assert.False(t, CanTransition(StatusCancelled, StatusPaid))
	})
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleInvoiceCreator))
	assert.True(t, ValidRole(RoleViewOnly))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}
