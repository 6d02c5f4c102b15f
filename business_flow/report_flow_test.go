package businessflow

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReportFlowForTest(testDB *testingutil.TestDB) ReportFlow {
	return NewReportFlow(
		newAlertsFlowForTest(testDB),
		repository.NewActuacionRepository(testDB.DB),
		repository.NewExpedienteRepository(testDB.DB),
		repository.NewAppUserRepository(testDB.DB),
	)
}

func parseCSVReport(t *testing.T, file *dto.ReportFile) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestReportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newReportFlowForTest(testDB)
		ctx := testingutil.CreateTestContext()
		now := utils.UTCNow()

		admin, err := fixtures.CreateTestUser(models.RoleAdmin)
		require.NoError(t, err)
		gestor, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)
		catalogos, err := fixtures.CreateTestCatalogos()
		require.NoError(t, err)

		expediente, err := fixtures.CreateTestExpediente(catalogos, gestor, models.PriorityAlta)
		require.NoError(t, err)
		_, err = fixtures.CreateTestActuacion(expediente.ID, gestor.ID, now.AddDate(0, 0, -10))
		require.NoError(t, err)
		_, err = fixtures.CreateTestActuacion(expediente.ID, gestor.ID, now.AddDate(0, 0, -2))
		require.NoError(t, err)

		t.Run("AlertsReportCSV", func(t *testing.T) {
			file, err := flow.AlertsReport(ctx, &dto.AlertsReportRequest{
				UserID: admin.ID,
				Rol:    models.RoleAdmin,
				Format: dto.ReportFormatCSV,
			})
			require.NoError(t, err)

			assert.Equal(t, "text/csv", file.ContentType)
			assert.True(t, strings.HasPrefix(file.FileName, "informe_alertas_"))
			assert.True(t, strings.HasSuffix(file.FileName, ".csv"))

			records := parseCSVReport(t, file)
			require.Len(t, records, 2) // header plus one open case
			assert.Equal(t, "Radicación única", records[0][0])
			assert.Equal(t, expediente.RadicacionUnica, records[1][0])
			assert.Equal(t, models.PriorityAlta, records[1][2])
		})

		t.Run("ActuacionesReportCSV", func(t *testing.T) {
			file, err := flow.ActuacionesReport(ctx, &dto.ActuacionesReportRequest{
				UserID: admin.ID,
				Rol:    models.RoleAdmin,
				Format: dto.ReportFormatCSV,
			})
			require.NoError(t, err)

			records := parseCSVReport(t, file)
			require.Len(t, records, 3)
			assert.Equal(t, expediente.RadicacionUnica, records[1][0])
			assert.Equal(t, gestor.DisplayName, records[1][4])

			// Rows come back in chronological order
			first, err := time.Parse(time.RFC3339, records[1][1])
			require.NoError(t, err)
			second, err := time.Parse(time.RFC3339, records[2][1])
			require.NoError(t, err)
			assert.True(t, first.Before(second))
		})

		t.Run("ActuacionesReportDateRangeFilters", func(t *testing.T) {
			desde := now.AddDate(0, 0, -5)
			file, err := flow.ActuacionesReport(ctx, &dto.ActuacionesReportRequest{
				UserID:     admin.ID,
				Rol:        models.RoleAdmin,
				Format:     dto.ReportFormatCSV,
				FechaDesde: &desde,
			})
			require.NoError(t, err)

			records := parseCSVReport(t, file)
			assert.Len(t, records, 2) // only the entry from two days ago
		})

		t.Run("ActuacionesReportRejectsInvertedRange", func(t *testing.T) {
			desde := now
			hasta := now.AddDate(0, 0, -30)
			_, err := flow.ActuacionesReport(ctx, &dto.ActuacionesReportRequest{
				UserID:     admin.ID,
				Rol:        models.RoleAdmin,
				Format:     dto.ReportFormatCSV,
				FechaDesde: &desde,
				FechaHasta: &hasta,
			})
			require.Error(t, err)

			var businessErr *BusinessError
			require.ErrorAs(t, err, &businessErr)
			assert.Equal(t, "INVALID_DATE_RANGE", businessErr.Code)
		})

		t.Run("ProductivityReportXLSX", func(t *testing.T) {
			file, err := flow.ProductivityReport(ctx, &dto.ProductivityReportRequest{
				UserID: admin.ID,
				Rol:    models.RoleAdmin,
				Format: dto.ReportFormatXLSX,
			})
			require.NoError(t, err)

			assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)
			assert.True(t, strings.HasSuffix(file.FileName, ".xlsx"))

			workbook, err := excelize.OpenReader(bytes.NewReader(file.Content))
			require.NoError(t, err)
			defer workbook.Close()

			rows, err := workbook.GetRows("Productividad")
			require.NoError(t, err)
			require.Len(t, rows, 3) // header plus both active users

			byName := make(map[string][]string)
			for _, row := range rows[1:] {
				byName[row[0]] = row
			}
			gestorRow, ok := byName[gestor.DisplayName]
			require.True(t, ok)
			assert.Equal(t, "1", gestorRow[3]) // assigned cases
			assert.Equal(t, "2", gestorRow[4]) // logged actuaciones
		})

		t.Run("UnsupportedFormatRejected", func(t *testing.T) {
			_, err := flow.AlertsReport(ctx, &dto.AlertsReportRequest{
				UserID: admin.ID,
				Rol:    models.RoleAdmin,
				Format: "pdf",
			})
			require.Error(t, err)
			assert.True(t, IsUnsupportedReportFormat(err))
		})

		return nil
	})
	require.NoError(t, err)
}
