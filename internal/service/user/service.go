// internal/service/user/service.go
package user

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/user"
	xerrors "wecamp-service/internal/pkg/errors"

	"go.uber.org/zap"
)

const msgNotFound = "User not found"

// SessionRevoker signs a user out of every device.
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID string) error
}

// UserService is the admin-side account management.
type UserService struct {
	repo     user.Repository
	sessions SessionRevoker
	logger   *zap.Logger
}

func NewUserService(repo user.Repository, sessions SessionRevoker, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, sessions: sessions, logger: logger}
}

func (s *UserService) List(ctx context.Context, f user.ListFilter) ([]*user.User, int64, error) {
	f.Params = f.Params.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id string) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	return u, nil
}

// Update changes profile fields or the role. A role change signs the user
// out so the next token carries the new role.
func (s *UserService) Update(ctx context.Context, actor auth.Actor, id string, req *user.AdminUpdateRequest) (*user.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	roleChanged := false
	if req.Role != nil && *req.Role != u.Role {
		if u.ID == actor.UserID {
			return nil, xerrors.Invalid("You cannot change your own role")
		}
		u.Role = *req.Role
		roleChanged = true
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

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if roleChanged {
		if err := s.sessions.RevokeUserSessions(ctx, u.ID); err != nil {
			s.logger.Warn("failed to revoke sessions after role change", zap.String("user_id", u.ID), zap.Error(err))
		}
		s.logger.Info("user role changed",
			zap.String("user_id", u.ID),
			zap.String("role", u.Role),
			zap.String("actor", actor.UserID),
		)
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if id == actor.UserID {
		return xerrors.Invalid("You cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch xerrors.KindOf(err) {
		case xerrors.KindNotFound:
			return xerrors.NotFound(msgNotFound)
		case xerrors.KindInvalid:
			return xerrors.Conflict("User still has orders referencing gear and cannot be deleted")
		}
		return err
	}
	if err := s.sessions.RevokeUserSessions(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions of deleted user", zap.String("user_id", id), zap.Error(err))
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("actor", actor.UserID))
	return nil
}
