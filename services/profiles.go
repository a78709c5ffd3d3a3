// ABOUTME: CRUD service for model profiles (suggested VRAM/batch size per model)
// ABOUTME: Profile names are unique; the placement path looks them up by name

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

// ProfileService manages model profiles.
type ProfileService struct {
	store store.Store
}

// NewProfileService creates a profile service over the given store.
func NewProfileService(s store.Store) *ProfileService {
	return &ProfileService{store: s}
}

// Create adds a new profile. Names must be unique.
func (p *ProfileService) Create(ctx context.Context, name string, minVRAMGB float64, batchSize int, category string) (*models.ModelProfile, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: profile name is required", ErrValidation)
	}
	if minVRAMGB <= 0 {
		return nil, fmt.Errorf("%w: suggested_min_vram_gb must be positive", ErrValidation)
	}

	if _, err := p.store.GetProfileByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: model profile %q already exists", ErrValidation, name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &models.ModelProfile{
		ID:                 uuid.NewString(),
		Name:               name,
		SuggestedMinVRAMGB: minVRAMGB,
		SuggestedBatchSize: batchSize,
		Category:           category,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := p.store.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("persisting profile: %w", err)
	}
	return profile, nil
}

// Get returns one profile by ID.
func (p *ProfileService) Get(ctx context.Context, id string) (*models.ModelProfile, error) {
	return p.store.GetProfile(ctx, id)
}

// List returns all profiles.
func (p *ProfileService) List(ctx context.Context) ([]*models.ModelProfile, error) {
	return p.store.ListProfiles(ctx)
}

// Update applies the non-nil fields of the update to a profile.
func (p *ProfileService) Update(ctx context.Context, id string, update models.ModelProfileUpdate) (*models.ModelProfile, error) {
	profile, err := p.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.SuggestedMinVRAMGB != nil {
		if *update.SuggestedMinVRAMGB <= 0 {
			return nil, fmt.Errorf("%w: suggested_min_vram_gb must be positive", ErrValidation)
		}
		profile.SuggestedMinVRAMGB = *update.SuggestedMinVRAMGB
	}
	if update.SuggestedBatchSize != nil {
		profile.SuggestedBatchSize = *update.SuggestedBatchSize
	}
	if update.Category != nil {
		profile.Category = *update.Category
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := p.store.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("persisting profile update: %w", err)
	}
	return profile, nil
}

// Delete removes a profile.
func (p *ProfileService) Delete(ctx context.Context, id string) error {
	return p.store.DeleteProfile(ctx, id)
}
