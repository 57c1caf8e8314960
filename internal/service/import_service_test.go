package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
)

func ticketRow(title string) ImportRow {
	return ImportRow{
		TipoRegistro:      "TICKET",
		Titulo:            title,
		FechaCreacion:     "2024-03-15 10:30:00",
		SolicitanteNombre: "Carolina Reyes",
		Pais:              "Chile",
		Region:            "Metropolitana",
		Provincia:         "Santiago",
		Comuna:            "Providencia",
		Calle:             "Av. Providencia",
		Numero:            "1208",
		NombreSucursal:    "Casa Matriz",
	}
}

func TestImportRun(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a clean batch and reuses resolved entities", func(t *testing.T) {
		env := newTestEnv()

		first := ticketRow("Servidor caido")
		second := ticketRow("UPS en alarma")
		// Same place spelled differently; the resolver must not duplicate it.
		second.Pais = "CHILE"
		second.Comuna = "providencia"
		action := ImportRow{
			TipoRegistro: "ACCION",
			Descripcion:  "Se reinicia el servidor",
			NumeroCaso:   1,
			FechaAccion:  "2024-03-15 11:00:00",
			Categoria:    "soporte",
		}

		result, err := env.importer.Run(ctx, []ImportRow{first, second, action})
		require.NoError(t, err)
		assert.Equal(t, 3, result.SuccessfulCount)
		assert.Equal(t, 0, result.FailedCount)
		assert.Empty(t, result.Errors)

		assert.Len(t, env.store.countries, 1)
		assert.Len(t, env.store.regions, 1)
		assert.Len(t, env.store.provinces, 1)
		assert.Len(t, env.store.comunas, 1)
		assert.Len(t, env.store.addresses, 1)
		assert.Len(t, env.store.branches, 1)
		assert.Len(t, env.store.tickets, 2)

		ticket, err := env.tickets.List(ctx, TicketListFilter{})
		require.NoError(t, err)
		require.Len(t, ticket, 2)
		assert.Equal(t, int64(2), ticket[0].CaseNumber)

		// Case 1 carries the initial system entry plus the imported action.
		caseOne := ticket[1]
		actions, err := env.actions.ListByTicket(ctx, caseOne.ID)
		require.NoError(t, err)
		require.Len(t, actions, 2)
		assert.Equal(t, "Se reinicia el servidor", actions[0].Description)
		assert.Equal(t, "soporte", actions[0].Category)
		assert.Equal(t, initialImportAction, actions[1].Description)
	})

	t.Run("padded names match geography persisted by an earlier run", func(t *testing.T) {
		env := newTestEnv()

		// Two separate runs, so the second cannot hit the first's memo and
		// must find the stored rows by name.
		_, err := env.importer.Run(ctx, []ImportRow{ticketRow("Limpia")})
		require.NoError(t, err)

		padded := ticketRow("Con espacios")
		padded.Pais = " Chile "
		padded.Region = " Metropolitana"
		padded.Provincia = "Santiago "
		padded.Comuna = " Providencia "

		result, err := env.importer.Run(ctx, []ImportRow{padded})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulCount)
		assert.Len(t, env.store.countries, 1)
		assert.Len(t, env.store.regions, 1)
		assert.Len(t, env.store.provinces, 1)
		assert.Len(t, env.store.comunas, 1)
	})

	t.Run("honors the export timestamp", func(t *testing.T) {
		env := newTestEnv()
		result, err := env.importer.Run(ctx, []ImportRow{ticketRow("Con fecha historica")})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulCount)

		tickets, err := env.tickets.List(ctx, TicketListFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, 2024, tickets[0].CreatedAt.Year())
	})

	t.Run("links preloaded company and technician by name", func(t *testing.T) {
		env := newTestEnv()
		env.seedContact(t)

		row := ticketRow("Asociado a empresa")
		row.EmpresaNombre = "acme" // lowercased on purpose
		row.ContactoNombre = "JUAN SOTO"

		result, err := env.importer.Run(ctx, []ImportRow{row})
		require.NoError(t, err)
		require.Equal(t, 1, result.SuccessfulCount)

		tickets, err := env.tickets.List(ctx, TicketListFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		require.NotNil(t, tickets[0].CompanyID)
		require.NotNil(t, tickets[0].ContactID)
	})
}

func TestImportRunAtomicity(t *testing.T) {
	ctx := context.Background()

	t.Run("one bad row rolls back the whole batch", func(t *testing.T) {
		env := newTestEnv()

		bad := ticketRow("")
		bad.Titulo = "" // fails validation
		rows := []ImportRow{ticketRow("ok-1"), ticketRow("ok-2"), bad}

		result, err := env.importer.Run(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, 0, result.SuccessfulCount)
		assert.Equal(t, 3, result.FailedCount)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 3, result.Errors[0].Row)
		assert.Contains(t, result.Errors[0].Error, "Titulo")
		// The report carries the offending row itself.
		assert.Equal(t, bad, result.Errors[0].Data)

		// Nothing leaked out of the transaction.
		assert.Empty(t, env.store.tickets)
		assert.Empty(t, env.store.actions)
		assert.Empty(t, env.store.countries)
		assert.Empty(t, env.store.addresses)
		assert.Empty(t, env.store.branches)
		assert.Equal(t, int64(0), env.store.caseCounter)
	})

	t.Run("an action for an unknown case aborts the batch", func(t *testing.T) {
		env := newTestEnv()
		rows := []ImportRow{
			ticketRow("valido"),
			{TipoRegistro: "ACCION", Descripcion: "huerfana", NumeroCaso: 999},
		}

		result, err := env.importer.Run(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, 0, result.SuccessfulCount)
		assert.Equal(t, 2, result.FailedCount)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 2, result.Errors[0].Row)
		assert.Empty(t, env.store.tickets)
	})

	t.Run("unparseable timestamp is reported with the row number", func(t *testing.T) {
		env := newTestEnv()
		bad := ticketRow("fecha rota")
		bad.FechaCreacion = "15/03/2024"

		result, err := env.importer.Run(ctx, []ImportRow{bad})
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 1, result.Errors[0].Row)
		assert.Contains(t, result.Errors[0].Error, "fechaCreacion")
	})
}

func TestImportRunLimits(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty batch", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.importer.Run(ctx, nil)
		require.Error(t, err)
	})

	t.Run("rejects batches over the configured limit", func(t *testing.T) {
		env := newTestEnv()
		rows := make([]ImportRow, 101)
		for i := range rows {
			rows[i] = ticketRow(fmt.Sprintf("fila-%d", i))
		}
		_, err := env.importer.Run(ctx, rows)
		require.Error(t, err)
	})
}

func TestImportRowValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("accion row does not require geography", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.tickets.Create(ctx, TicketCreateInput{
			Title:         "Preexistente",
			RequesterName: "Alguien",
		})
		require.NoError(t, err)

		result, err := env.importer.Run(ctx, []ImportRow{
			{TipoRegistro: "ACCION", Descripcion: "Seguimiento", NumeroCaso: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulCount)
	})

	t.Run("action defaults to the comment category", func(t *testing.T) {
		env := newTestEnv()
		ticket, err := env.tickets.Create(ctx, TicketCreateInput{
			Title:         "Para comentar",
			RequesterName: "Alguien",
		})
		require.NoError(t, err)

		_, err = env.importer.Run(ctx, []ImportRow{
			{TipoRegistro: "ACCION", Descripcion: "Sin categoria", NumeroCaso: ticket.CaseNumber},
		})
		require.NoError(t, err)

		actions, err := env.actions.ListByTicket(ctx, ticket.ID)
		require.NoError(t, err)
		require.Len(t, actions, 2)
		found := false
		for _, a := range actions {
			if a.Description == "Sin categoria" {
				found = true
				assert.Equal(t, domain.DefaultActionCategory, a.Category)
			}
		}
		assert.True(t, found)
	})
}
