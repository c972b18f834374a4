package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

var (
	ErrAdminRoleRequired = ErrInsufficientPermissions.WithMessage("Access denied. Admin role required.")
	ErrInvalidBodyFormat = pkgerrors.Validation("INVALID_BODY_FORMAT", "Request body must be an array of feature toggles")
	ErrEmptyToggleArray  = pkgerrors.Validation("EMPTY_ARRAY", "At least one feature toggle is required")
	ErrInvalidToggleKey  = pkgerrors.Validation("INVALID_KEY", "Invalid key for feature toggle")
	ErrInvalidToggleName = pkgerrors.Validation("INVALID_NAME", "Invalid name for feature toggle")
	ErrInvalidEnabled    = pkgerrors.Validation("INVALID_ENABLED", "Enabled field must be boolean")
	ErrDuplicateFeature  = pkgerrors.Conflict("DUPLICATE_FEATURE_KEY", "A feature toggle with this key was created concurrently")
)

// Upsert outcomes.
const (
	ToggleCreated = "created"
	ToggleUpdated = "updated"
)

// FeatureService admin management of feature flags.
type FeatureService interface {
	List(ctx context.Context, caller *model.User) ([]model.Feature, error)
	// Upsert validates every element first, then creates or updates each
	// flag by key in a single transaction.
	Upsert(ctx context.Context, caller *model.User, inputs []dto.FeatureToggleInput) (*dto.FeatureToggleResponse, error)
}

type featureService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFeatureService creates a FeatureService.
func NewFeatureService(repo *repository.Repository, logger *zap.Logger) FeatureService {
	return &featureService{repo: repo, logger: logger}
}

func (s *featureService) List(ctx context.Context, caller *model.User) ([]model.Feature, error) {
	if !IsAdmin(caller) {
		return nil, ErrAdminRoleRequired
	}
	features, err := s.repo.Feature.List(ctx)
	if err != nil {
		return nil, err
	}
	if features == nil {
		features = []model.Feature{}
	}
	return features, nil
}

func (s *featureService) Upsert(ctx context.Context, caller *model.User, inputs []dto.FeatureToggleInput) (*dto.FeatureToggleResponse, error) {
	if !IsAdmin(caller) {
		return nil, ErrAdminRoleRequired
	}
	if len(inputs) == 0 {
		return nil, ErrEmptyToggleArray
	}
	toggles := make([]dto.FeatureToggle, 0, len(inputs))
	for i := range inputs {
		t, err := ParseFeatureToggle(&inputs[i])
		if err != nil {
			return nil, err
		}
		toggles = append(toggles, *t)
	}

	results := make([]dto.FeatureToggleResult, 0, len(toggles))
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, t := range toggles {
			existing, err := tx.Feature.GetByKey(ctx, t.Key)
			if err != nil && !repository.IsNotFound(err) {
				return err
			}
			if existing != nil {
				existing.Name = t.Name
				existing.Description = t.Description
				if t.Enabled != nil {
					existing.Enabled = *t.Enabled
				}
				if err := tx.Feature.Update(ctx, existing); err != nil {
					return err
				}
				results = append(results, dto.FeatureToggleResult{Action: ToggleUpdated, Feature: *existing})
				continue
			}

			f := &model.Feature{Key: t.Key, Name: t.Name, Description: t.Description, Enabled: true}
			if t.Enabled != nil {
				f.Enabled = *t.Enabled
			}
			if err := tx.Feature.Create(ctx, f); err != nil {
				return err
			}
			results = append(results, dto.FeatureToggleResult{Action: ToggleCreated, Feature: *f})
		}
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateFeature
		}
		s.logger.Error("upsert feature toggles failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("feature toggles updated", zap.Uint("admin_id", caller.ID), zap.Int("count", len(results)))
	return &dto.FeatureToggleResponse{
		Message: fmt.Sprintf("Processed %d feature toggles", len(results)),
		Results: results,
	}, nil
}

// ParseFeatureToggle type-checks one raw element.
func ParseFeatureToggle(in *dto.FeatureToggleInput) (*dto.FeatureToggle, error) {
	key, ok := rawString(in.Key)
	if !ok || key == "" {
		return nil, ErrInvalidToggleKey.WithMessage(fmt.Sprintf("Invalid key for feature toggle: %s", rawOrNull(in.Key)))
	}
	name, ok := rawString(in.Name)
	if !ok || name == "" {
		return nil, ErrInvalidToggleName.WithMessage(fmt.Sprintf("Invalid name for feature toggle with key '%s'", key))
	}
	t := &dto.FeatureToggle{Key: key, Name: name}
	if d, ok := rawString(in.Description); ok && d != "" {
		t.Description = &d
	}
	if len(in.Enabled) > 0 {
		var enabled bool
		if err := json.Unmarshal(in.Enabled, &enabled); err != nil || string(in.Enabled) == "null" {
			return nil, ErrInvalidEnabled.WithMessage(fmt.Sprintf("Enabled field must be boolean for feature toggle with key '%s'", key))
		}
		t.Enabled = &enabled
	}
	return t, nil
}

// rawString decodes a JSON string and trims it. ok is false for absent or
// non-string values.
func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
