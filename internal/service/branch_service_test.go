package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

func seedComuna(t *testing.T, env *testEnv) *domain.Comuna {
	t.Helper()
	ctx := context.Background()
	geo := &fakeGeographyRepo{store: env.store}
	country := &domain.Country{Name: "Chile"}
	require.NoError(t, geo.CreateCountry(ctx, country))
	region := &domain.Region{Name: "Metropolitana", CountryID: country.ID}
	require.NoError(t, geo.CreateRegion(ctx, region))
	province := &domain.Province{Name: "Santiago", RegionID: region.ID}
	require.NoError(t, geo.CreateProvince(ctx, province))
	comuna := &domain.Comuna{Name: "Nunoa", ProvinceID: province.ID}
	require.NoError(t, geo.CreateComuna(ctx, comuna))
	return comuna
}

func seedBranch(t *testing.T, env *testEnv, name string) *domain.Branch {
	t.Helper()
	comuna := seedComuna(t, env)
	branch, err := env.branches.Create(context.Background(), BranchCreateInput{
		Name:     name,
		ComunaID: comuna.ID,
		Street:   "Irarrazaval",
		Number:   "3000",
	})
	require.NoError(t, err)
	return branch
}

func TestBranchCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses an address with the same natural key", func(t *testing.T) {
		env := newTestEnv()
		comuna := seedComuna(t, env)

		first, err := env.branches.Create(ctx, BranchCreateInput{
			Name: "Sucursal Norte", ComunaID: comuna.ID, Street: "Irarrazaval", Number: "3000",
		})
		require.NoError(t, err)
		second, err := env.branches.Create(ctx, BranchCreateInput{
			Name: "Sucursal Sur", ComunaID: comuna.ID, Street: "Irarrazaval", Number: "3000",
		})
		require.NoError(t, err)

		assert.Equal(t, first.AddressID, second.AddressID)
		assert.Len(t, env.store.addresses, 1)
	})

	t.Run("different number gets its own address", func(t *testing.T) {
		env := newTestEnv()
		comuna := seedComuna(t, env)

		_, err := env.branches.Create(ctx, BranchCreateInput{
			Name: "Uno", ComunaID: comuna.ID, Street: "Irarrazaval", Number: "3000",
		})
		require.NoError(t, err)
		_, err = env.branches.Create(ctx, BranchCreateInput{
			Name: "Dos", ComunaID: comuna.ID, Street: "Irarrazaval", Number: "3400",
		})
		require.NoError(t, err)
		assert.Len(t, env.store.addresses, 2)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.branches.Create(ctx, BranchCreateInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nombre")
		assert.Contains(t, err.Error(), "comuna_id")
		assert.Contains(t, err.Error(), "calle")
		assert.Contains(t, err.Error(), "numero")
	})
}

func TestBranchDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes branch and its locations when unreferenced", func(t *testing.T) {
		env := newTestEnv()
		branch := seedBranch(t, env, "Vacia")
		_, err := env.locations.Create(ctx, LocationCreateInput{BranchID: branch.ID})
		require.NoError(t, err)

		result, err := env.branches.Delete(ctx, branch.ID)
		require.NoError(t, err)
		assert.True(t, result.Deleted)
		assert.Empty(t, env.store.branches)
		assert.Empty(t, env.store.locations)
	})

	t.Run("refuses while equipment remains at a location", func(t *testing.T) {
		env := newTestEnv()
		branch := seedBranch(t, env, "Ocupada")
		location, err := env.locations.Create(ctx, LocationCreateInput{BranchID: branch.ID})
		require.NoError(t, err)
		_, err = env.equipment.Create(ctx, EquipmentCreateInput{
			Name:             "Switch de borde",
			UniqueIdentifier: "SW-01",
			LocationID:       &location.ID,
		})
		require.NoError(t, err)

		result, err := env.branches.Delete(ctx, branch.ID)
		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.Contains(t, result.Message, "still referenced")
		// Nothing was removed.
		assert.Len(t, env.store.branches, 1)
		assert.Len(t, env.store.locations, 1)
	})
}

func TestLocationDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while a contact sits at the location", func(t *testing.T) {
		env := newTestEnv()
		branch := seedBranch(t, env, "Con gente")
		location, err := env.locations.Create(ctx, LocationCreateInput{BranchID: branch.ID})
		require.NoError(t, err)

		company, err := env.companies.Create(ctx, CompanyCreateInput{Name: "Beta", RUT: "77.000.000-2"})
		require.NoError(t, err)
		_, err = env.contacts.Create(ctx, ContactCreateInput{
			CompanyID:  company.ID,
			Name:       "Paula Ortiz",
			LocationID: &location.ID,
		})
		require.NoError(t, err)

		result, err := env.locations.Delete(ctx, location.ID)
		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.Len(t, env.store.locations, 1)
	})

	t.Run("deletes an unreferenced location", func(t *testing.T) {
		env := newTestEnv()
		branch := seedBranch(t, env, "Libre")
		location, err := env.locations.Create(ctx, LocationCreateInput{BranchID: branch.ID})
		require.NoError(t, err)

		result, err := env.locations.Delete(ctx, location.ID)
		require.NoError(t, err)
		assert.True(t, result.Deleted)
	})
}

func TestLocationCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("blank reference name becomes the anonymous default", func(t *testing.T) {
		env := newTestEnv()
		branch := seedBranch(t, env, "Anonima")
		blank := "   "
		location, err := env.locations.Create(ctx, LocationCreateInput{
			BranchID:      branch.ID,
			ReferenceName: &blank,
		})
		require.NoError(t, err)
		assert.Nil(t, location.ReferenceName)
	})

	t.Run("requires an existing branch", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.locations.Create(ctx, LocationCreateInput{BranchID: "missing"})
		require.Error(t, err)
	})
}

func TestCompanyLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	company, err := env.companies.Create(ctx, CompanyCreateInput{Name: "Gamma", RUT: "78.000.000-3"})
	require.NoError(t, err)
	assert.Equal(t, domain.LifecycleActive, company.State)

	renamed, err := env.companies.Update(ctx, CompanyUpdateInput{
		ID:   company.ID,
		Name: optional.Set("Gamma SpA"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gamma SpA", renamed.Name)
	assert.Equal(t, "78.000.000-3", renamed.RUT)

	require.NoError(t, env.companies.Deactivate(ctx, company.ID))
	got, err := env.companies.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LifecycleInactive, got.State)
}
