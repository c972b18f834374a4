package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tipsy/config"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/jwt"
	"tipsy/pkg/metrics"
)

var (
	ErrAuthRequired      = pkgerrors.ErrAuthRequired
	ErrInvalidCredential = pkgerrors.ErrInvalidToken
	ErrIdentityConflict  = pkgerrors.Conflict("IDENTITY_CONFLICT", "Email is already linked to another account")
)

// IdentityService maps a bearer credential to a stored user, creating the
// user on first sight.
type IdentityService interface {
	Resolve(ctx context.Context, credential string) (*model.User, error)
}

// identity is what a verified credential tells us about its holder.
type identity struct {
	subject string
	name    string
	email   string
}

type identityService struct {
	mode    string
	jwtMgr  *jwt.Manager
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewIdentityService creates an IdentityService for cfg.Mode.
func NewIdentityService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	m *metrics.Metrics,
	logger *zap.Logger,
) IdentityService {
	return &identityService{
		mode:    cfg.Mode,
		jwtMgr:  jwtMgr,
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

func (s *identityService) Resolve(ctx context.Context, credential string) (*model.User, error) {
	id, err := s.verify(credential)
	if err != nil {
		return nil, err
	}
	return s.getOrProvision(ctx, id)
}

func (s *identityService) verify(credential string) (*identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrAuthRequired
	}
	if s.mode != config.AuthModeJWT {
		return &identity{subject: credential}, nil
	}
	if s.jwtMgr == nil {
		s.logger.Error("jwt auth mode without a token manager")
		return nil, ErrInvalidCredential
	}
	claims, err := s.jwtMgr.ParseToken(credential)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	return &identity{subject: claims.Subject, name: claims.Name, email: claims.Email}, nil
}

func (s *identityService) getOrProvision(ctx context.Context, id *identity) (*model.User, error) {
	user, err := s.repo.User.GetByAuthUserID(ctx, id.subject)
	if err == nil {
		return user, nil
	}
	if !repository.IsNotFound(err) {
		s.logger.Error("lookup user by credential failed", zap.Error(err))
		return nil, err
	}

	user = &model.User{
		AuthUserID: id.subject,
		Role:       model.RoleWorker,
		Name:       id.name,
		Email:      id.email,
	}
	if user.Name == "" {
		user.Name = "User " + id.subject
	}
	if user.Email == "" {
		user.Email = id.subject + "@example.com"
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if !repository.IsUniqueViolation(err) {
			s.logger.Error("provision user failed", zap.Error(err))
			return nil, err
		}
		// A concurrent request created the row first.
		existing, rerr := s.repo.User.GetByAuthUserID(ctx, id.subject)
		if rerr != nil {
			if repository.IsNotFound(rerr) {
				return nil, errors.Join(ErrIdentityConflict, err)
			}
			return nil, rerr
		}
		return existing, nil
	}

	s.metrics.ObserveProvisioned()
	s.logger.Info("provisioned user", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}
