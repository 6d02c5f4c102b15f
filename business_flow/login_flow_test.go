package businessflow

import (
	"testing"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/app/services"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginFlowForTest(t *testing.T, testDB *testingutil.TestDB) LoginFlow {
	tokenService, err := services.NewTokenService(
		15*time.Minute, 7*24*time.Hour,
		"expedientes-test", "expedientes-api",
		false, "", "",
		"test-secret-key-that-is-long-enough",
	)
	require.NoError(t, err)

	return NewLoginFlow(
		repository.NewAppUserRepository(testDB.DB),
		repository.NewUserSessionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		tokenService,
		testDB.DB,
	)
}

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newLoginFlowForTest(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := NewClientMetadata("192.168.1.50", "login-test")

		user, err := fixtures.CreateTestUser(models.RoleGestor)
		require.NoError(t, err)

		t.Run("SuccessfulLogin", func(t *testing.T) {
			response, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, user.Email, response.User.Email)
			assert.Equal(t, models.RoleGestor, response.User.Rol)
			assert.NotEmpty(t, response.Session.SessionToken)
			assert.NotEmpty(t, response.Session.RefreshToken)
			assert.NotEqual(t, response.Session.SessionToken, response.Session.RefreshToken)

			// A session row exists for the issued token
			sessionRepo := repository.NewUserSessionRepository(testDB.DB)
			session, err := sessionRepo.BySessionToken(ctx, response.Session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, user.ID, session.UserID)

			// The attempt lands in the audit trail
			auditRepo := repository.NewAuditLogRepository(testDB.DB)
			entries, err := auditRepo.ByFilter(ctx, models.AuditLogFilter{
				UserID: &user.ID,
			}, "", 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, entries)
			assert.Equal(t, models.AuditActionLoginSuccess, entries[0].Action)
		})

		t.Run("UnknownEmailFails", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    "nadie@example.com",
				Password: testingutil.TestPassword,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsUserNotFound(err))
		})

		t.Run("WrongPasswordFails", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "not-the-password",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsIncorrectPassword(err))

			auditRepo := repository.NewAuditLogRepository(testDB.DB)
			failed, err := auditRepo.ListFailedActions(ctx, 10, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, failed)
		})

		t.Run("InactiveAccountFails", func(t *testing.T) {
			inactive, err := fixtures.CreateTestUser(models.RoleLectura)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(inactive).Update("is_active", false).Error)

			_, err = flow.Login(ctx, &dto.LoginRequest{
				Email:    inactive.Email,
				Password: testingutil.TestPassword,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsAccountInactive(err))
		})

		t.Run("RefreshRotatesSession", func(t *testing.T) {
			login, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)

			refreshed, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: login.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, refreshed.Session.SessionToken)
			assert.NotEqual(t, login.Session.SessionToken, refreshed.Session.SessionToken)

			// The old session is expired and cannot be refreshed again
			_, err = flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: login.Session.RefreshToken,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("RefreshWithGarbageTokenFails", func(t *testing.T) {
			_, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "no-such-token",
			}, metadata)
			require.Error(t, err)
		})

		t.Run("LogoutExpiresSession", func(t *testing.T) {
			login, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)

			_, err = flow.Logout(ctx, login.Session.SessionToken, metadata)
			require.NoError(t, err)

			sessionRepo := repository.NewUserSessionRepository(testDB.DB)
			session, err := sessionRepo.BySessionToken(ctx, login.Session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.False(t, utils.IsTrue(session.IsActive))
			assert.True(t, session.IsExpired())
		})

		t.Run("LogoutWithUnknownTokenFails", func(t *testing.T) {
			_, err := flow.Logout(ctx, "no-such-session", metadata)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
