package businessflow

import (
	"testing"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogoFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := NewCatalogoFlow(
			repository.NewCatalogoRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
		)
		ctx := testingutil.CreateTestContext()

		admin, err := fixtures.CreateTestUser(models.RoleAdmin)
		require.NoError(t, err)
		metadata := NewClientMetadata("127.0.0.1", "catalogo-test")

		t.Run("CreateAndList", func(t *testing.T) {
			created, err := flow.CreateCatalogo(ctx, &dto.CreateCatalogoRequest{
				UserID: admin.ID,
				Kind:   models.CatalogoClase,
				Nombre: "VERBAL SUMARIO",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, created.Item.Activo)

			listing, err := flow.ListCatalogos(ctx, &dto.ListCatalogosRequest{Kind: models.CatalogoClase})
			require.NoError(t, err)
			assert.Equal(t, models.CatalogoClase, listing.Kind)
			require.Len(t, listing.Items, 1)
			assert.Equal(t, "VERBAL SUMARIO", listing.Items[0].Nombre)
		})

		t.Run("DuplicateNameRejected", func(t *testing.T) {
			_, err := flow.CreateCatalogo(ctx, &dto.CreateCatalogoRequest{
				UserID: admin.ID,
				Kind:   models.CatalogoClase,
				Nombre: "VERBAL SUMARIO",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCatalogoAlreadyExists(err))
		})

		t.Run("SameNameAllowedAcrossKinds", func(t *testing.T) {
			_, err := flow.CreateCatalogo(ctx, &dto.CreateCatalogoRequest{
				UserID: admin.ID,
				Kind:   models.CatalogoEstado,
				Nombre: "VERBAL SUMARIO",
			}, metadata)
			require.NoError(t, err)
		})

		t.Run("UnknownKindRejected", func(t *testing.T) {
			_, err := flow.ListCatalogos(ctx, &dto.ListCatalogosRequest{Kind: "juzgado"})
			require.Error(t, err)
			assert.True(t, IsInvalidCatalogoKind(err))

			_, err = flow.CreateCatalogo(ctx, &dto.CreateCatalogoRequest{
				UserID: admin.ID,
				Kind:   "juzgado",
				Nombre: "NO IMPORTA",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidCatalogoKind(err))
		})

		t.Run("ToggleHidesFromActiveListing", func(t *testing.T) {
			created, err := flow.CreateCatalogo(ctx, &dto.CreateCatalogoRequest{
				UserID: admin.ID,
				Kind:   models.CatalogoUbicacion,
				Nombre: "ARCHIVO CENTRAL",
			}, metadata)
			require.NoError(t, err)

			toggled, err := flow.ToggleCatalogo(ctx, &dto.ToggleCatalogoRequest{
				UserID: admin.ID,
				ID:     created.Item.ID,
				Activo: utils.ToPtr(false),
			}, metadata)
			require.NoError(t, err)
			assert.False(t, toggled.Activo)

			active, err := flow.ListCatalogos(ctx, &dto.ListCatalogosRequest{
				Kind:       models.CatalogoUbicacion,
				ActiveOnly: true,
			})
			require.NoError(t, err)
			assert.Empty(t, active.Items)

			// The entry stays visible on the unfiltered listing
			all, err := flow.ListCatalogos(ctx, &dto.ListCatalogosRequest{Kind: models.CatalogoUbicacion})
			require.NoError(t, err)
			require.Len(t, all.Items, 1)
			assert.False(t, all.Items[0].Activo)
		})

		t.Run("ToggleUnknownEntryFails", func(t *testing.T) {
			_, err := flow.ToggleCatalogo(ctx, &dto.ToggleCatalogoRequest{
				UserID: admin.ID,
				ID:     99999,
				Activo: utils.ToPtr(true),
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCatalogoNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
