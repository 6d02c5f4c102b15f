package businessflow

import (
	"testing"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActuacionFlowForTest(testDB *testingutil.TestDB) ActuacionFlow {
	return NewActuacionFlow(
		repository.NewActuacionRepository(testDB.DB),
		repository.NewExpedienteRepository(testDB.DB),
		repository.NewAppUserRepository(testDB.DB),
		repository.NewNotificacionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
	)
}

func TestActuacionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newActuacionFlowForTest(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := NewClientMetadata("127.0.0.1", "actuacion-test")

		admin, err := fixtures.CreateTestUser(models.RoleAdmin)
		require.NoError(t, err)
		gestor, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)
		catalogos, err := fixtures.CreateTestCatalogos()
		require.NoError(t, err)
		expediente, err := fixtures.CreateTestExpediente(catalogos, gestor, models.PriorityMedia)
		require.NoError(t, err)

		t.Run("CreateWithAttachments", func(t *testing.T) {
			fecha := utils.UTCNow().AddDate(0, 0, -1)
			result, err := flow.CreateActuacion(ctx, &dto.CreateActuacionRequest{
				UserID:         gestor.ID,
				ExpedienteUUID: expediente.UUID.String(),
				Fecha:          &fecha,
				Tipo:           utils.ToPtr("memorial"),
				Anotacion:      "Se radica memorial solicitando desembargo",
				Adjuntos:       []string{"actuaciones/abc/memorial.pdf"},
				AdjuntoNombres: []string{"memorial.pdf"},
			}, metadata)
			require.NoError(t, err)
			assert.NotZero(t, result.ID)
			assert.NotEmpty(t, result.UUID)

			parsed, err := time.Parse(time.RFC3339, result.Fecha)
			require.NoError(t, err)
			assert.WithinDuration(t, fecha, parsed, time.Second)

			// Self-logged activity produces no notification
			notifRepo := repository.NewNotificacionRepository(testDB.DB)
			unread, err := notifRepo.CountUnread(ctx, gestor.ID)
			require.NoError(t, err)
			assert.Zero(t, unread)
		})

		t.Run("OthersActivityNotifiesAssignee", func(t *testing.T) {
			_, err := flow.CreateActuacion(ctx, &dto.CreateActuacionRequest{
				UserID:         admin.ID,
				ExpedienteUUID: expediente.UUID.String(),
				Anotacion:      "Auto admite la demanda",
			}, metadata)
			require.NoError(t, err)

			notifRepo := repository.NewNotificacionRepository(testDB.DB)
			tipo := models.NotificacionActualizacion
			count, err := notifRepo.Count(ctx, models.NotificacionFilter{
				UserID: &gestor.ID,
				Tipo:   &tipo,
			})
			require.NoError(t, err)
			assert.EqualValues(t, 1, count)
		})

		t.Run("EmptyAnotacionRejected", func(t *testing.T) {
			_, err := flow.CreateActuacion(ctx, &dto.CreateActuacionRequest{
				UserID:         gestor.ID,
				ExpedienteUUID: expediente.UUID.String(),
				Anotacion:      "",
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAnotacionRequired)
		})

		t.Run("AttachmentLimits", func(t *testing.T) {
			tooMany := make([]string, utils.MaxAttachmentsPerEntry+1)
			names := make([]string, utils.MaxAttachmentsPerEntry+1)
			for i := range tooMany {
				tooMany[i] = "actuaciones/x/archivo.pdf"
				names[i] = "archivo.pdf"
			}

			_, err := flow.CreateActuacion(ctx, &dto.CreateActuacionRequest{
				UserID:         gestor.ID,
				ExpedienteUUID: expediente.UUID.String(),
				Anotacion:      "Con demasiados adjuntos",
				Adjuntos:       tooMany,
				AdjuntoNombres: names,
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTooManyAttachments)

			_, err = flow.CreateActuacion(ctx, &dto.CreateActuacionRequest{
				UserID:         gestor.ID,
				ExpedienteUUID: expediente.UUID.String(),
				Anotacion:      "Adjunto sin nombre",
				Adjuntos:       []string{"actuaciones/x/archivo.pdf"},
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAttachmentNameRequired)
		})

		t.Run("UnknownExpedienteRejected", func(t *testing.T) {
			_, err := flow.CreateActuacion(ctx, &dto.CreateActuacionRequest{
				UserID:         gestor.ID,
				ExpedienteUUID: uuid.New().String(),
				Anotacion:      "No existe",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsExpedienteNotFound(err))
		})

		t.Run("ListNewestFirst", func(t *testing.T) {
			response, err := flow.ListActuaciones(ctx, &dto.ListActuacionesRequest{
				UserID:         gestor.ID,
				Rol:            models.RoleGestor,
				ExpedienteUUID: expediente.UUID.String(),
			})
			require.NoError(t, err)

			require.EqualValues(t, 2, response.Total)
			require.Len(t, response.Items, 2)
			assert.Equal(t, "Auto admite la demanda", response.Items[0].Anotacion)
			assert.Equal(t, admin.DisplayName, response.Items[0].Usuario)
			require.Len(t, response.Items[1].Adjuntos, 1)
			assert.Equal(t, "memorial.pdf", response.Items[1].AdjuntoNombres[0])
		})

		t.Run("ListDeniedForUnrelatedRestrictedUser", func(t *testing.T) {
			otro, err := fixtures.CreateTestUser(models.RoleLectura)
			require.NoError(t, err)

			_, err = flow.ListActuaciones(ctx, &dto.ListActuacionesRequest{
				UserID:         otro.ID,
				Rol:            models.RoleLectura,
				ExpedienteUUID: expediente.UUID.String(),
			})
			require.Error(t, err)
			assert.True(t, IsAccessDenied(err))
		})

		return nil
	})
	require.NoError(t, err)
}
