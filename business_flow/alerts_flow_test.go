package businessflow

import (
	"testing"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlertsFlowForTest(testDB *testingutil.TestDB) AlertsFlow {
	tables := &config.DomainTables{
		SLA:            config.DefaultSLAPolicy(),
		Inactivity:     config.DefaultInactivityThresholds(),
		OriginPrefixes: config.DefaultOriginPrefixes(),
	}

	return NewAlertsFlow(
		repository.NewExpedienteRepository(testDB.DB),
		repository.NewActuacionRepository(testDB.DB),
		repository.NewCatalogoRepository(testDB.DB),
		repository.NewAppUserRepository(testDB.DB),
		repository.NewNotificacionRepository(testDB.DB),
		tables,
		&config.CacheConfig{Enabled: false},
		nil,
	)
}

func alertaFor(t *testing.T, items []dto.ExpedienteAlertaDTO, radicacion string) dto.ExpedienteAlertaDTO {
	t.Helper()
	for _, item := range items {
		if item.RadicacionUnica == radicacion {
			return item
		}
	}
	t.Fatalf("case %s not present in alert listing", radicacion)
	return dto.ExpedienteAlertaDTO{}
}

func TestAlertsFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newAlertsFlowForTest(testDB)
		ctx := testingutil.CreateTestContext()
		now := utils.UTCNow()

		admin, err := fixtures.CreateTestUser(models.RoleAdmin)
		require.NoError(t, err)
		gestor, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)
		catalogos, err := fixtures.CreateTestCatalogos()
		require.NoError(t, err)

		// A fresh Alta case, an overdue Alta case, one nearing its deadline
		// and one dormant for over two years
		fresh, err := fixtures.CreateTestExpediente(catalogos, gestor, models.PriorityAlta)
		require.NoError(t, err)
		overdue, err := fixtures.CreateTestExpedienteCreatedAt(catalogos, gestor, models.PriorityAlta, now.AddDate(0, 0, -45))
		require.NoError(t, err)
		approaching, err := fixtures.CreateTestExpedienteCreatedAt(catalogos, admin, models.PriorityMedia, now.AddDate(0, 0, -55))
		require.NoError(t, err)
		dormant, err := fixtures.CreateTestExpedienteCreatedAt(catalogos, admin, models.PriorityBaja, now.AddDate(0, 0, -800))
		require.NoError(t, err)

		t.Run("LabelsFollowEvaluation", func(t *testing.T) {
			response, err := flow.ListAlertas(ctx, &dto.ListAlertasRequest{UserID: admin.ID, Rol: models.RoleAdmin})
			require.NoError(t, err)
			require.Equal(t, 4, response.Total)

			assert.Equal(t, string(AlertNone), alertaFor(t, response.Items, fresh.RadicacionUnica).Alerta)
			assert.Equal(t, string(AlertOverdue), alertaFor(t, response.Items, overdue.RadicacionUnica).Alerta)
			assert.Equal(t, string(AlertApproaching), alertaFor(t, response.Items, approaching.RadicacionUnica).Alerta)
			assert.Equal(t, string(AlertDormant2Y), alertaFor(t, response.Items, dormant.RadicacionUnica).Alerta)

			vencido := alertaFor(t, response.Items, overdue.RadicacionUnica)
			assert.Equal(t, string(SLAOverdue), vencido.SLAState)
			assert.Equal(t, 45, vencido.ElapsedDays)
			assert.Equal(t, 30, vencido.DeadlineDays)
		})

		t.Run("RecentActuacionClearsDormancy", func(t *testing.T) {
			_, err := fixtures.CreateTestActuacion(dormant.ID, admin.ID, now.AddDate(0, 0, -3))
			require.NoError(t, err)

			response, err := flow.ListAlertas(ctx, &dto.ListAlertasRequest{UserID: admin.ID, Rol: models.RoleAdmin})
			require.NoError(t, err)

			item := alertaFor(t, response.Items, dormant.RadicacionUnica)
			assert.Equal(t, string(InactivityActive), item.InactivityState)
			// The SLA clock still runs from creation
			assert.Equal(t, string(AlertOverdue), item.Alerta)
			require.NotNil(t, item.UltimaActuacion)
		})

		t.Run("OnlyAttentionDropsHealthyCases", func(t *testing.T) {
			response, err := flow.ListAlertas(ctx, &dto.ListAlertasRequest{
				UserID:        admin.ID,
				Rol:           models.RoleAdmin,
				OnlyAttention: true,
			})
			require.NoError(t, err)

			for _, item := range response.Items {
				assert.NotEqual(t, fresh.RadicacionUnica, item.RadicacionUnica)
			}
		})

		t.Run("RestrictedRoleSeesOwnCasesOnly", func(t *testing.T) {
			response, err := flow.ListAlertas(ctx, &dto.ListAlertasRequest{UserID: gestor.ID, Rol: models.RoleGestor})
			require.NoError(t, err)

			assert.Equal(t, 2, response.Total)
			for _, item := range response.Items {
				assert.NotEqual(t, approaching.RadicacionUnica, item.RadicacionUnica)
				assert.NotEqual(t, dormant.RadicacionUnica, item.RadicacionUnica)
			}
		})

		t.Run("ClosedEstadoExcluded", func(t *testing.T) {
			cerrado := &models.Catalogo{
				Kind:   models.CatalogoEstado,
				Nombre: "CERRADO POR DESISTIMIENTO",
				Activo: utils.ToPtr(true),
			}
			require.NoError(t, testDB.DB.Create(cerrado).Error)
			require.NoError(t, testDB.DB.Model(overdue).Update("estado_id", cerrado.ID).Error)

			response, err := flow.ListAlertas(ctx, &dto.ListAlertasRequest{UserID: admin.ID, Rol: models.RoleAdmin})
			require.NoError(t, err)

			assert.Equal(t, 3, response.Total)
			for _, item := range response.Items {
				assert.NotEqual(t, overdue.RadicacionUnica, item.RadicacionUnica)
			}

			// Reopen for the sweep tests below
			require.NoError(t, testDB.DB.Model(overdue).Update("estado_id", catalogos.Estado.ID).Error)
		})

		t.Run("DashboardKPIs", func(t *testing.T) {
			kpis, err := flow.DashboardKPIs(ctx)
			require.NoError(t, err)

			assert.EqualValues(t, 4, kpis.TotalAbiertos)
			assert.EqualValues(t, 2, kpis.TotalVencidos) // overdue case plus the reactivated dormant one
			assert.EqualValues(t, 1, kpis.TotalProximos)
			assert.Zero(t, kpis.TotalInactivos2Y)
			assert.EqualValues(t, 3, kpis.RequierenAtencion)
			assert.EqualValues(t, 2, kpis.PorPrioridad[models.PriorityAlta])
			assert.NotEmpty(t, kpis.GeneratedAt)
		})

		t.Run("NotifyOverdueCreatesAndDeduplicates", func(t *testing.T) {
			notifRepo := repository.NewNotificacionRepository(testDB.DB)

			created, err := flow.NotifyOverdue(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, created)

			tipo := models.NotificacionVencimiento
			count, err := notifRepo.Count(ctx, models.NotificacionFilter{Tipo: &tipo})
			require.NoError(t, err)
			assert.EqualValues(t, 2, count)

			// A second sweep finds the unread notifications and stays quiet
			created, err = flow.NotifyOverdue(ctx)
			require.NoError(t, err)
			assert.Zero(t, created)
		})

		return nil
	})
	require.NoError(t, err)
}
