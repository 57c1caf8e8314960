package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/events"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

func openLoan(t *testing.T, env *testEnv, equipmentID, contactID string) *domain.EquipmentLoan {
	t.Helper()
	loan, err := env.loans.Create(context.Background(), LoanCreateInput{
		EquipmentID:         equipmentID,
		ContactID:           contactID,
		ResponsibleOnSite:   "Recepcion",
		LoanDate:            time.Now(),
		EstimatedReturnDate: time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return loan
}

func TestLoanCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the equipment as loaned", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-01")

		loan := openLoan(t, env, equipment.ID, contact.ID)
		assert.Equal(t, domain.LoanStatusLoaned, loan.Status)

		updated, err := env.equipment.GetByID(ctx, equipment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusLoaned, updated.Status)
	})

	t.Run("rejects equipment that is not available", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-02")
		openLoan(t, env, equipment.ID, contact.ID)

		_, err := env.loans.Create(ctx, LoanCreateInput{
			EquipmentID:         equipment.ID,
			ContactID:           contact.ID,
			ResponsibleOnSite:   "Otro",
			LoanDate:            time.Now(),
			EstimatedReturnDate: time.Now().Add(24 * time.Hour),
		})
		require.Error(t, err)
		var domainErr *errorutil.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BUSINESS_RULE", domainErr.Code)
	})

	t.Run("collects every missing field in one error", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.loans.Create(ctx, LoanCreateInput{})
		require.Error(t, err)
		var domainErr *errorutil.DomainError
		require.ErrorAs(t, err, &domainErr)
		for _, field := range []string{"equipo_id", "contacto_id", "responsable_en_sitio", "fecha_devolucion_estimada"} {
			assert.Contains(t, domainErr.Message, field)
		}
	})

	t.Run("omitted loan date defaults to now", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-08")

		before := time.Now()
		loan, err := env.loans.Create(ctx, LoanCreateInput{
			EquipmentID:         equipment.ID,
			ContactID:           contact.ID,
			ResponsibleOnSite:   "Recepcion",
			EstimatedReturnDate: time.Now().Add(24 * time.Hour),
		})
		require.NoError(t, err)
		assert.False(t, loan.LoanDate.IsZero())
		assert.False(t, loan.LoanDate.Before(before))
		assert.Equal(t, domain.LoanStatusLoaned, loan.Status)
	})

	t.Run("rejects unknown contact", func(t *testing.T) {
		env := newTestEnv()
		equipment := env.seedEquipment(t, "nb-03")
		_, err := env.loans.Create(ctx, LoanCreateInput{
			EquipmentID:         equipment.ID,
			ContactID:           "missing",
			ResponsibleOnSite:   "Nadie",
			LoanDate:            time.Now(),
			EstimatedReturnDate: time.Now().Add(24 * time.Hour),
		})
		require.Error(t, err)

		// The equipment was not touched.
		updated, getErr := env.equipment.GetByID(ctx, equipment.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.EquipmentStatusAvailable, updated.Status)
	})
}

func TestLoanReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("closing the loan frees the equipment", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-04")
		loan := openLoan(t, env, equipment.ID, contact.ID)

		var returned []events.Event
		env.dispatcher.Subscribe(events.EventLoanReturned, func(ctx context.Context, e events.Event) error {
			returned = append(returned, e)
			return nil
		})

		updated, err := env.loans.Update(ctx, LoanUpdateInput{
			ID:               loan.ID,
			Status:           optional.Set(domain.LoanStatusReturned),
			ActualReturnDate: optional.Set(time.Now()),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusReturned, updated.Status)

		freed, err := env.equipment.GetByID(ctx, equipment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusAvailable, freed.Status)
		require.Len(t, returned, 1)
	})

	t.Run("editing notes does not free the equipment", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-05")
		loan := openLoan(t, env, equipment.ID, contact.ID)

		_, err := env.loans.Update(ctx, LoanUpdateInput{
			ID:        loan.ID,
			LoanNotes: optional.Set("cargador incluido"),
		})
		require.NoError(t, err)

		still, err := env.equipment.GetByID(ctx, equipment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusLoaned, still.Status)
	})

	t.Run("overdue loans can still be returned", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-06")
		loan := openLoan(t, env, equipment.ID, contact.ID)

		_, err := env.loans.Update(ctx, LoanUpdateInput{
			ID:     loan.ID,
			Status: optional.Set(domain.LoanStatusOverdue),
		})
		require.NoError(t, err)

		_, err = env.loans.Update(ctx, LoanUpdateInput{
			ID:               loan.ID,
			Status:           optional.Set(domain.LoanStatusReturned),
			ActualReturnDate: optional.Set(time.Now()),
		})
		require.NoError(t, err)

		freed, err := env.equipment.GetByID(ctx, equipment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusAvailable, freed.Status)
	})
}

func TestLoanDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record without touching equipment status", func(t *testing.T) {
		env := newTestEnv()
		contact := env.seedContact(t)
		equipment := env.seedEquipment(t, "nb-07")
		loan := openLoan(t, env, equipment.ID, contact.ID)

		require.NoError(t, env.loans.Delete(ctx, loan.ID))

		_, err := env.loans.GetByID(ctx, loan.ID)
		require.Error(t, err)

		still, err := env.equipment.GetByID(ctx, equipment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EquipmentStatusLoaned, still.Status)
	})
}
