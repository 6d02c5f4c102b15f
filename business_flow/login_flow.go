// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/app/services"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles user authentication operations
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) (*dto.LogoutResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.AppUserRepository
	sessionRepo  repository.UserSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.AppUserRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user with email and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	var user *models.AppUser
	var session *models.UserSession

	err := repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		var err error
		user, err = lf.userRepo.ByEmail(txCtx, request.Email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if !utils.IsTrue(user.IsActive) {
			return ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
			return ErrIncorrectPassword
		}

		session, err = lf.createSession(txCtx, user, metadata)
		return err
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = lf.logLoginAttempt(ctx, user, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("User logged in successfully: %d", user.ID)
	_ = lf.logLoginAttempt(ctx, user, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    ToUserDTO(*user),
		Session: ToSessionDTO(*session),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new session
func (lf *LoginFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	var session *models.UserSession

	err := repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		existing, err := lf.sessionRepo.ByRefreshToken(txCtx, request.RefreshToken)
		if err != nil {
			return err
		}
		if existing == nil || !utils.IsTrue(existing.IsActive) {
			return ErrSessionNotFound
		}
		if existing.IsExpired() {
			return ErrSessionExpired
		}

		user, err := lf.userRepo.ByID(txCtx, existing.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if !utils.IsTrue(user.IsActive) {
			return ErrAccountInactive
		}

		if err := lf.sessionRepo.ExpireSession(txCtx, existing.ID); err != nil {
			return err
		}

		session, err = lf.createSession(txCtx, user, metadata)
		return err
	})

	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	return &dto.RefreshTokenResponse{
		Message: "Token refreshed successfully",
		Session: ToSessionDTO(*session),
	}, nil
}

// Logout terminates the session behind the presented access token
func (lf *LoginFlowImpl) Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) (*dto.LogoutResponse, error) {
	session, err := lf.sessionRepo.BySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if session == nil {
		return nil, NewBusinessError("SESSION_NOT_FOUND", "Session not found", ErrSessionNotFound)
	}

	if err := lf.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
		return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	user, _ := lf.userRepo.ByID(ctx, session.UserID)
	msg := fmt.Sprintf("User logged out: %d", session.UserID)
	_ = lf.logLoginAttempt(ctx, user, models.AuditActionLogout, msg, true, nil, metadata)

	return &dto.LogoutResponse{Message: "Logout successful"}, nil
}

func (lf *LoginFlowImpl) createSession(ctx context.Context, user *models.AppUser, metadata *ClientMetadata) (*models.UserSession, error) {
	accessToken, refreshToken, err := lf.tokenService.GenerateTokens(user.ID, user.Rol)
	if err != nil {
		return nil, err
	}

	expiresAt := utils.UTCNowAdd(utils.AccessTokenTTL)

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.UserSession{
		UserID:       user.ID,
		SessionToken: accessToken,
		RefreshToken: &refreshToken,
		ExpiresAt:    expiresAt,
		IsActive:     utils.ToPtr(true),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		CreatedAt:    utils.UTCNow(),
	}

	if err := lf.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (lf *LoginFlowImpl) logLoginAttempt(ctx context.Context, user *models.AppUser, action, description string, success bool, errorMessage *string, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		Action:       action,
		Description:  &description,
		Success:      &success,
		ErrorMessage: errorMessage,
		CreatedAt:    utils.UTCNow(),
	}
	if user != nil {
		audit.UserID = &user.ID
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}

	return lf.auditRepo.Save(ctx, audit)
}
