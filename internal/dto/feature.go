package dto

import (
	"encoding/json"

	"tipsy/internal/model"
)

// FeatureToggleInput one element of the PATCH /feature-toggles array.
// Fields stay raw so each can be type-checked with its own code.
type FeatureToggleInput struct {
	Key         json.RawMessage `json:"key"`
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Enabled     json.RawMessage `json:"enabled"`
}

// FeatureToggle a validated upsert.
type FeatureToggle struct {
	Key         string
	Name        string
	Description *string
	Enabled     *bool
}

// FeatureToggleResult outcome for one key.
type FeatureToggleResult struct {
	Action  string        `json:"action"`
	Feature model.Feature `json:"feature"`
}

// FeatureToggleResponse PATCH /feature-toggles
type FeatureToggleResponse struct {
	Message string                `json:"message"`
	Results []FeatureToggleResult `json:"results"`
}
