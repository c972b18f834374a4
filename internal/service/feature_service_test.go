package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tipsy/internal/dto"
	"tipsy/internal/model"
	"tipsy/internal/repository"
	pkgerrors "tipsy/pkg/errors"
)

func toggle(t *testing.T, raw string) dto.FeatureToggleInput {
	t.Helper()
	var in dto.FeatureToggleInput
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

func TestFeatureService_Upsert(t *testing.T) {
	f := newFixture(t)
	svc := NewFeatureService(f.repo, f.logger)
	ctx := context.Background()

	resp, err := svc.Upsert(ctx, f.admin, []dto.FeatureToggleInput{
		toggle(t, `{"key":"reviews","name":"Reviews"}`),
		toggle(t, `{"key":"stripe","name":"Stripe","enabled":false,"description":"Card payments"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Processed 2 feature toggles", resp.Message)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, ToggleCreated, resp.Results[0].Action)
	assert.True(t, resp.Results[0].Feature.Enabled)
	assert.False(t, resp.Results[1].Feature.Enabled)

	resp, err = svc.Upsert(ctx, f.admin, []dto.FeatureToggleInput{
		toggle(t, `{"key":"reviews","name":"Reviews v2","enabled":false}`),
	})
	require.NoError(t, err)
	assert.Equal(t, ToggleUpdated, resp.Results[0].Action)
	assert.False(t, resp.Results[0].Feature.Enabled)

	features, err := svc.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, features, 2)
}

func TestFeatureService_UpsertIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewFeatureService(f.repo, f.logger)

	_, err := svc.Upsert(context.Background(), f.admin, []dto.FeatureToggleInput{
		toggle(t, `{"key":"reviews","name":"Reviews"}`),
		toggle(t, `{"key":"stripe","name":"Stripe","enabled":"yes"}`),
	})
	assert.True(t, errors.Is(err, ErrInvalidEnabled))
	assert.Equal(t, int64(0), f.count(t, &model.Feature{}))
}

func TestFeatureService_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewFeatureService(f.repo, f.logger)
	ctx := context.Background()

	_, err := svc.List(ctx, f.owner)
	assert.True(t, errors.Is(err, ErrAdminRoleRequired))

	_, err = svc.Upsert(ctx, f.admin, nil)
	assert.True(t, errors.Is(err, ErrEmptyToggleArray))

	tests := []struct {
		raw  string
		want error
	}{
		{`{"name":"No key"}`, ErrInvalidToggleKey},
		{`{"key":42,"name":"Numeric"}`, ErrInvalidToggleKey},
		{`{"key":"k"}`, ErrInvalidToggleName},
		{`{"key":"k","name":"  "}`, ErrInvalidToggleName},
		{`{"key":"k","name":"K","enabled":null}`, ErrInvalidEnabled},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			in := toggle(t, tt.raw)
			_, err := ParseFeatureToggle(&in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

// racingFeatureRepo sees no row on read but loses the insert to another writer.
type racingFeatureRepo struct {
	repository.FeatureRepository
}

func (racingFeatureRepo) GetByKey(context.Context, string) (*model.Feature, error) {
	return nil, gorm.ErrRecordNotFound
}

func (racingFeatureRepo) Create(context.Context, *model.Feature) error {
	return gorm.ErrDuplicatedKey
}

func TestFeatureService_UpsertConcurrentInsertIsConflict(t *testing.T) {
	repo := &repository.Repository{Feature: racingFeatureRepo{}}
	svc := NewFeatureService(repo, zap.NewNop())
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	_, err := svc.Upsert(context.Background(), admin, []dto.FeatureToggleInput{
		toggle(t, `{"key":"reviews","name":"Reviews"}`),
	})

	require.ErrorIs(t, err, ErrDuplicateFeature)
	assert.Equal(t, pkgerrors.KindConflict, pkgerrors.KindOf(err))
}
