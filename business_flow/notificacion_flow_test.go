package businessflow

import (
	"testing"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificacionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := NewNotificacionFlow(repository.NewNotificacionRepository(testDB.DB))
		ctx := testingutil.CreateTestContext()

		gestor, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)
		otro, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)
		catalogos, err := fixtures.CreateTestCatalogos()
		require.NoError(t, err)
		expediente, err := fixtures.CreateTestExpediente(catalogos, gestor, models.PriorityMedia)
		require.NoError(t, err)

		first, err := fixtures.CreateTestNotificacion(gestor.ID, expediente.ID, models.NotificacionAsignacion)
		require.NoError(t, err)
		_, err = fixtures.CreateTestNotificacion(gestor.ID, expediente.ID, models.NotificacionActualizacion)
		require.NoError(t, err)
		ajena, err := fixtures.CreateTestNotificacion(otro.ID, expediente.ID, models.NotificacionAsignacion)
		require.NoError(t, err)

		t.Run("ListOwnNotifications", func(t *testing.T) {
			response, err := flow.ListNotificaciones(ctx, &dto.ListNotificacionesRequest{UserID: gestor.ID})
			require.NoError(t, err)

			assert.Len(t, response.Items, 2)
			assert.EqualValues(t, 2, response.Unread)
			assert.Equal(t, 1, response.Page)
			assert.Equal(t, 20, response.PageSize)
			for _, item := range response.Items {
				assert.False(t, item.Leida)
			}
		})

		t.Run("PaginationClamp", func(t *testing.T) {
			response, err := flow.ListNotificaciones(ctx, &dto.ListNotificacionesRequest{
				UserID:   gestor.ID,
				Page:     -3,
				PageSize: 500,
			})
			require.NoError(t, err)
			assert.Equal(t, 1, response.Page)
			assert.Equal(t, 20, response.PageSize)
		})

		t.Run("MarkRead", func(t *testing.T) {
			_, err := flow.MarkRead(ctx, first.ID, gestor.ID)
			require.NoError(t, err)

			response, err := flow.ListNotificaciones(ctx, &dto.ListNotificacionesRequest{UserID: gestor.ID})
			require.NoError(t, err)
			assert.EqualValues(t, 1, response.Unread)
		})

		t.Run("MarkReadGuardsOwnership", func(t *testing.T) {
			_, err := flow.MarkRead(ctx, ajena.ID, gestor.ID)
			require.Error(t, err)
			assert.True(t, IsNotificacionNotFound(err))
		})

		t.Run("MarkAllRead", func(t *testing.T) {
			_, err := flow.MarkAllRead(ctx, gestor.ID)
			require.NoError(t, err)

			response, err := flow.ListNotificaciones(ctx, &dto.ListNotificacionesRequest{UserID: gestor.ID})
			require.NoError(t, err)
			assert.Zero(t, response.Unread)

			// The other user's notification is untouched
			ajenas, err := flow.ListNotificaciones(ctx, &dto.ListNotificacionesRequest{UserID: otro.ID})
			require.NoError(t, err)
			assert.EqualValues(t, 1, ajenas.Unread)
		})

		return nil
	})
	require.NoError(t, err)
}
