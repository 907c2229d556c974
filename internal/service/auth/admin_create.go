// internal/service/auth/admin_create.go
package auth

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/user"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdminExists creates the bootstrap admin account, or promotes the
// account if it already exists with another role. Called on startup and by
// the create-admin command.
func (s *AuthService) EnsureAdminExists(ctx context.Context, addr, password, name string) error {
	addr = normalizeEmail(addr)
	if addr == "" {
		s.logger.Info("no bootstrap admin configured, skipping creation")
		return nil
	}

	existing, err := s.users.FindByEmail(ctx, addr)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			s.logger.Info("admin already exists, skipping creation", zap.String("email", addr))
			return nil
		}
		existing.Role = user.RoleAdmin
		if err := s.users.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		s.logger.Info("existing user promoted to admin", zap.String("user_id", existing.ID))
		return nil
	case xerrors.KindOf(err) != xerrors.KindNotFound:
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	if len(password) < 6 {
		return fmt.Errorf("admin password must be provided and at least 6 characters")
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &user.User{
		ID:       uuid.NewString(),
		Email:    addr,
		Name:     strings.TrimSpace(name),
		Password: string(hash),
		Role:     user.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin account created", zap.String("user_id", admin.ID), zap.String("email", addr))
	return nil
}
