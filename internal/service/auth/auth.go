// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/user"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/jwt"
	"wecamp-service/internal/pkg/session"
	"wecamp-service/internal/service/email"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgTooManyAttempts    = "Too many login attempts, please try again in 15 minutes"
)

// Mailer sends transactional mail. *email.EmailSender satisfies it.
type Mailer interface {
	Enabled() bool
	Send(to, subject, bodyHTML string) error
}

type AuthService struct {
	users       user.Repository
	jwtManager  *jwt.Manager
	sessions    *session.Manager
	throttle    *session.LoginThrottle
	mailer      Mailer
	frontendURL string
	logger      *zap.Logger
}

func NewAuthService(
	users user.Repository,
	jwtManager *jwt.Manager,
	sessions *session.Manager,
	throttle *session.LoginThrottle,
	mailer Mailer,
	frontendURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		jwtManager:  jwtManager,
		sessions:    sessions,
		throttle:    throttle,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register creates a user account. No session is started; the client logs
// in separately.
func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	addr := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, addr); err == nil {
		return nil, xerrors.Conflict("Email is already registered")
	} else if xerrors.KindOf(err) != xerrors.KindNotFound {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:       uuid.NewString(),
		Email:    addr,
		Name:     strings.TrimSpace(req.Name),
		Password: string(hash),
		Role:     user.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			return nil, xerrors.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID))
	subject, body := email.WelcomeEmail(u.Name, s.frontendURL)
	s.sendAsync(u.Email, subject, body)

	if fresh, err := s.users.FindByID(ctx, u.ID); err == nil {
		return fresh, nil
	}
	return u, nil
}

// ========== Login ==========

// Login checks credentials under the per-(IP, email) throttle and issues a
// fresh token pair.
func (s *AuthService) Login(ctx context.Context, ip string, req *user.LoginRequest) (*auth.Session, error) {
	addr := normalizeEmail(req.Email)

	allowed, remaining, err := s.throttle.Allowed(ctx, ip, addr)
	if err != nil {
		return nil, fmt.Errorf("login throttle: %w", err)
	}
	if !allowed {
		s.logger.Warn("login locked out", zap.String("ip", ip))
		return nil, xerrors.New(xerrors.KindRateLimited, msgTooManyAttempts)
	}

	u, err := s.users.FindByEmail(ctx, addr)
	if err != nil {
		if xerrors.KindOf(err) != xerrors.KindNotFound {
			return nil, err
		}
		// compare anyway so unknown emails cost the same as bad passwords
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, s.loginFailed(ctx, ip, addr, remaining)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, s.loginFailed(ctx, ip, addr, remaining)
	}

	if err := s.throttle.Reset(ctx, ip, addr); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	tokens, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("ip", ip))
	return &auth.Session{User: u, Tokens: tokens}, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("wecamp-timing-guard"), bcrypt.DefaultCost)

func (s *AuthService) loginFailed(ctx context.Context, ip, addr string, remaining int64) error {
	if _, err := s.throttle.RecordFailure(ctx, ip, addr); err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
	}
	if remaining-1 <= 0 {
		return xerrors.New(xerrors.KindRateLimited, msgTooManyAttempts)
	}
	return xerrors.Unauthorized(msgInvalidCredentials)
}

// issueTokens signs an access and refresh token and registers the refresh jti.
func (s *AuthService) issueTokens(ctx context.Context, u *user.User) (auth.TokenPair, error) {
	id := jwt.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}

	access, accessClaims, err := s.jwtManager.Generator.GenerateAccessToken(id)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, refreshClaims, err := s.jwtManager.Generator.GenerateRefreshToken(id)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshExp := refreshClaims.ExpiresAt.Time
	if err := s.sessions.StoreRefreshToken(ctx, u.ID, refreshClaims.ID, time.Until(refreshExp)); err != nil {
		return auth.TokenPair{}, err
	}

	return auth.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ========== Refresh ==========

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	if refreshToken == "" {
		return nil, xerrors.Unauthorized("Refresh token required")
	}

	claims, err := s.jwtManager.Verifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, xerrors.Unauthorized("Refresh token has expired")
		}
		return nil, xerrors.Unauthorized("Invalid refresh token").WithCause(err)
	}

	active, err := s.sessions.IsRefreshTokenActive(ctx, claims.UserID, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		s.logger.Warn("revoked refresh token presented", zap.String("user_id", claims.UserID))
		return nil, xerrors.Unauthorized("Refresh token has been revoked")
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.Unauthorized("User no longer exists")
		}
		return nil, err
	}

	if err := s.sessions.RevokeRefreshToken(ctx, claims.UserID, claims.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	tokens, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	return &auth.Session{User: u, Tokens: tokens}, nil
}

// ========== Logout ==========

// Logout blacklists the access token for the rest of its lifetime and
// revokes the refresh token. Either may be absent.
func (s *AuthService) Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error {
	if access != nil {
		if err := s.sessions.BlacklistToken(ctx, access.ID, access.Remaining(time.Now())); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}

	if refreshToken != "" {
		if claims, err := s.jwtManager.Verifier.VerifyRefreshToken(refreshToken); err == nil {
			if err := s.sessions.RevokeRefreshToken(ctx, claims.UserID, claims.ID); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}

	if access != nil {
		s.logger.Info("user logged out", zap.String("user_id", access.UserID))
	}
	return nil
}

// ========== Profile ==========

func (s *AuthService) Profile(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Avatar != nil {
		if v := strings.TrimSpace(*req.Avatar); v != "" {
			u.Avatar = &v
		} else {
			u.Avatar = nil
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Profile(ctx, userID)
}

// ChangePassword verifies the current password, stores the new hash and
// signs the user out everywhere else.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *user.ChangePasswordRequest) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return xerrors.Invalid("Current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return xerrors.Validation("validation failed", map[string]string{"new_password": "must differ from the current password"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.sessions.RevokeAllRefreshTokens(ctx, u.ID); err != nil {
		s.logger.Error("failed to revoke refresh tokens", zap.String("user_id", u.ID), zap.Error(err))
	}

	s.logger.Info("password changed", zap.String("user_id", u.ID))
	subject, body := email.PasswordChangedEmail(u.Name)
	s.sendAsync(u.Email, subject, body)
	return nil
}

func (s *AuthService) sendAsync(to, subject, body string) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	go func() {
		if err := s.mailer.Send(to, subject, body); err != nil {
			s.logger.Warn("failed to send email", zap.String("subject", subject), zap.Error(err))
		}
	}()
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
