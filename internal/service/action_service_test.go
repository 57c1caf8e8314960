package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

func TestActionAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults category and date", func(t *testing.T) {
		env := newTestEnv()
		ticket, err := env.tickets.Create(ctx, TicketCreateInput{
			Title: "Bitacora", RequesterName: "Hector Pino",
		})
		require.NoError(t, err)

		action, err := env.actions.Append(ctx, ActionCreateInput{
			TicketID:    ticket.ID,
			Description: "Visita en terreno",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultActionCategory, action.Category)
		assert.False(t, action.ActionDate.IsZero())
	})

	t.Run("rejects empty description", func(t *testing.T) {
		env := newTestEnv()
		ticket, err := env.tickets.Create(ctx, TicketCreateInput{
			Title: "Bitacora", RequesterName: "Hector Pino",
		})
		require.NoError(t, err)

		_, err = env.actions.Append(ctx, ActionCreateInput{TicketID: ticket.ID, Description: "   "})
		require.Error(t, err)
	})

	t.Run("rejects unknown ticket", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.actions.Append(ctx, ActionCreateInput{TicketID: "missing", Description: "x"})
		require.Error(t, err)
	})
}

func TestActionEdit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ticket, err := env.tickets.Create(ctx, TicketCreateInput{
		Title: "Editable", RequesterName: "Hector Pino",
	})
	require.NoError(t, err)
	when := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	action, err := env.actions.Append(ctx, ActionCreateInput{
		TicketID:    ticket.ID,
		Description: "Primer intento",
		ActionDate:  &when,
	})
	require.NoError(t, err)

	t.Run("edits description and category only", func(t *testing.T) {
		edited, err := env.actions.Edit(ctx, ActionUpdateInput{
			ID:          action.ID,
			Description: optional.Set("Primer intento, escalado"),
			Category:    optional.Set("soporte"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Primer intento, escalado", edited.Description)
		assert.Equal(t, "soporte", edited.Category)
		// The original timestamp survives the edit.
		assert.True(t, edited.ActionDate.Equal(when))
	})

	t.Run("rejects blanking the description", func(t *testing.T) {
		_, err := env.actions.Edit(ctx, ActionUpdateInput{
			ID:          action.ID,
			Description: optional.Set("  "),
		})
		require.Error(t, err)
	})
}

func TestActionListByTicket(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	ticket, err := env.tickets.Create(ctx, TicketCreateInput{
		Title: "Historial", RequesterName: "Hector Pino",
	})
	require.NoError(t, err)

	older := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	_, err = env.actions.Append(ctx, ActionCreateInput{TicketID: ticket.ID, Description: "antigua", ActionDate: &older})
	require.NoError(t, err)
	_, err = env.actions.Append(ctx, ActionCreateInput{TicketID: ticket.ID, Description: "reciente", ActionDate: &newer})
	require.NoError(t, err)

	actions, err := env.actions.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	// Initial system entry plus the two appended, newest first.
	require.Len(t, actions, 3)
	assert.Equal(t, "reciente", actions[1].Description)
	assert.Equal(t, "antigua", actions[2].Description)
}
