package businessflow

import (
	"context"
	"testing"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/app/services"
	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpedienteFlowForTest(testDB *testingutil.TestDB) ExpedienteFlow {
	counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
	radicacion := NewRadicacionFlow(counterRepo, config.DefaultOriginPrefixes())

	return NewExpedienteFlow(
		repository.NewExpedienteRepository(testDB.DB),
		repository.NewCatalogoRepository(testDB.DB),
		repository.NewAppUserRepository(testDB.DB),
		repository.NewNotificacionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		radicacion,
		services.NewNotificationService(services.NewMockEmailProvider()),
		testDB.DB,
	)
}

func TestExpedienteFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newExpedienteFlowForTest(testDB)
		ctx := testingutil.CreateTestContext()

		admin, err := fixtures.CreateTestUser(models.RoleAdmin)
		require.NoError(t, err)
		gestor, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)
		catalogos, err := fixtures.CreateTestCatalogos()
		require.NoError(t, err)

		createReq := func(responsableID uint) *dto.CreateExpedienteRequest {
			return &dto.CreateExpedienteRequest{
				UserID:            admin.ID,
				ClaseID:           catalogos.Clase.ID,
				EstadoID:          catalogos.Estado.ID,
				OrigenID:          catalogos.Origen.ID,
				DespachoID:        catalogos.Despacho.ID,
				UbicacionID:       catalogos.Ubicacion.ID,
				Demandante:        utils.ToPtr("BANCO DE PRUEBA S.A."),
				Demandado:         utils.ToPtr("PEDRO PEREZ"),
				Prioridad:         models.PriorityMedia,
				ResponsableUserID: responsableID,
			}
		}

		t.Run("CreateGeneratesBothIdentifiers", func(t *testing.T) {
			result, err := flow.CreateExpediente(ctx, createReq(gestor.ID), NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)
			require.NotNil(t, result)

			year := utils.CurrentYear()
			assert.Equal(t, FormatRadicacionUnica(year, 1), result.RadicacionUnica)
			// The fixture origin maps to prefix C3
			require.NotNil(t, result.RadicadoInterno)
			assert.Equal(t, FormatRadicadoInterno("C3", year, 1), *result.RadicadoInterno)

			// The assignee differs from the creator, so a notification exists
			notifRepo := repository.NewNotificacionRepository(testDB.DB)
			unread, err := notifRepo.CountUnread(ctx, gestor.ID)
			require.NoError(t, err)
			assert.EqualValues(t, 1, unread)
		})

		t.Run("SecondCreateAdvancesCounters", func(t *testing.T) {
			result, err := flow.CreateExpediente(ctx, createReq(admin.ID), NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			year := utils.CurrentYear()
			assert.Equal(t, FormatRadicacionUnica(year, 2), result.RadicacionUnica)
			require.NotNil(t, result.RadicadoInterno)
			assert.Equal(t, FormatRadicadoInterno("C3", year, 2), *result.RadicadoInterno)
		})

		t.Run("UnmappedOriginSkipsInternalNumber", func(t *testing.T) {
			otros, err := fixtures.CreateTestCatalogosWithOrigin("TRIBUNAL SUPERIOR SALA CIVIL")
			require.NoError(t, err)

			req := createReq(admin.ID)
			req.OrigenID = otros.Origen.ID

			result, err := flow.CreateExpediente(ctx, req, NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)
			assert.Nil(t, result.RadicadoInterno)
		})

		t.Run("InvalidPriorityRejected", func(t *testing.T) {
			req := createReq(admin.ID)
			req.Prioridad = "Urgente"

			_, err := flow.CreateExpediente(ctx, req, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidPriority(err))
		})

		t.Run("InactiveResponsableRejected", func(t *testing.T) {
			inactive, err := fixtures.CreateTestUser(models.RoleGestor)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(inactive).Update("is_active", false).Error)

			_, err = flow.CreateExpediente(ctx, createReq(inactive.ID), nil)
			require.Error(t, err)
			assert.True(t, IsResponsableInactive(err))
		})

		t.Run("WrongKindCatalogReferenceRejected", func(t *testing.T) {
			req := createReq(admin.ID)
			req.ClaseID = catalogos.Estado.ID // estado entry used as clase

			_, err := flow.CreateExpediente(ctx, req, nil)
			require.Error(t, err)
			assert.True(t, IsCatalogoNotFound(err))
		})

		t.Run("GetHonorsRoleRestrictions", func(t *testing.T) {
			result, err := flow.CreateExpediente(ctx, createReq(gestor.ID), nil)
			require.NoError(t, err)
			id := uuid.MustParse(result.UUID)

			// The assignee and unrestricted roles can read it
			_, err = flow.GetExpediente(ctx, id, gestor.ID, models.RoleGestor)
			require.NoError(t, err)
			_, err = flow.GetExpediente(ctx, id, admin.ID, models.RoleAdmin)
			require.NoError(t, err)

			// Another restricted user cannot
			otro, err := fixtures.CreateTestUser(models.RoleLectura)
			require.NoError(t, err)
			_, err = flow.GetExpediente(ctx, id, otro.ID, models.RoleLectura)
			require.Error(t, err)
			assert.True(t, IsAccessDenied(err))
		})

		t.Run("ListRestrictsToOwnCasesForGestor", func(t *testing.T) {
			listing, err := flow.ListExpedientes(ctx, &dto.ListExpedientesRequest{
				UserID: gestor.ID,
				Rol:    models.RoleGestor,
			})
			require.NoError(t, err)
			for _, item := range listing.Items {
				assert.Equal(t, gestor.ID, item.ResponsableUserID)
			}

			all, err := flow.ListExpedientes(ctx, &dto.ListExpedientesRequest{
				UserID: admin.ID,
				Rol:    models.RoleAdmin,
			})
			require.NoError(t, err)
			assert.Greater(t, all.Total, listing.Total)
		})

		t.Run("UpdateEscalationNotifiesAssignee", func(t *testing.T) {
			result, err := flow.CreateExpediente(ctx, createReq(gestor.ID), nil)
			require.NoError(t, err)

			notifRepo := repository.NewNotificacionRepository(testDB.DB)
			before, err := notifRepo.CountUnread(ctx, gestor.ID)
			require.NoError(t, err)

			_, err = flow.UpdateExpediente(ctx, &dto.UpdateExpedienteRequest{
				UserID:    admin.ID,
				UUID:      result.UUID,
				Prioridad: utils.ToPtr(models.PriorityAlta),
			}, nil)
			require.NoError(t, err)

			after, err := notifRepo.CountUnread(ctx, gestor.ID)
			require.NoError(t, err)
			assert.Equal(t, before+1, after)
		})

		t.Run("ReassignMovesCaseAndNotifies", func(t *testing.T) {
			result, err := flow.CreateExpediente(ctx, createReq(admin.ID), nil)
			require.NoError(t, err)

			reassigned, err := flow.ReassignExpediente(ctx, &dto.ReassignExpedienteRequest{
				UserID:             admin.ID,
				UUID:               result.UUID,
				NuevoResponsableID: gestor.ID,
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, gestor.ID, reassigned.NuevoResponsableID)

			item, err := flow.GetExpediente(ctx, uuid.MustParse(result.UUID), gestor.ID, models.RoleGestor)
			require.NoError(t, err)
			assert.Equal(t, gestor.ID, item.ResponsableUserID)
		})

		t.Run("UpdateUnknownCaseFails", func(t *testing.T) {
			_, err := flow.UpdateExpediente(ctx, &dto.UpdateExpedienteRequest{
				UserID: admin.ID,
				UUID:   uuid.New().String(),
			}, nil)
			require.Error(t, err)
			assert.True(t, IsExpedienteNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestExpedienteFlowAuditTrail(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newExpedienteFlowForTest(testDB)
		ctx := context.Background()

		admin, err := fixtures.CreateTestUser(models.RoleAdmin)
		require.NoError(t, err)
		catalogos, err := fixtures.CreateTestCatalogos()
		require.NoError(t, err)

		_, err = flow.CreateExpediente(ctx, &dto.CreateExpedienteRequest{
			UserID:            admin.ID,
			ClaseID:           catalogos.Clase.ID,
			EstadoID:          catalogos.Estado.ID,
			OrigenID:          catalogos.Origen.ID,
			DespachoID:        catalogos.Despacho.ID,
			UbicacionID:       catalogos.Ubicacion.ID,
			Prioridad:         models.PriorityBaja,
			ResponsableUserID: admin.ID,
		}, NewClientMetadata("10.0.0.9", "test-agent"))
		require.NoError(t, err)

		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		entries, err := auditRepo.ByFilter(ctx, models.AuditLogFilter{
			UserID: &admin.ID,
			Action: utils.ToPtr(models.AuditActionExpedienteCreated),
		}, "", 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, utils.IsTrue(entries[0].Success))
		require.NotNil(t, entries[0].IPAddress)
		assert.Equal(t, "10.0.0.9", *entries[0].IPAddress)

		return nil
	})
	require.NoError(t, err)
}
