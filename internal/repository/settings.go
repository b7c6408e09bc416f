package repository

import (
	"context"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// SaveSettings stores the user's settings.
func (r *StateRepository) SaveSettings(ctx context.Context, identityID string, settings entities.UserSettings) error {
	return r.write(ctx, identityID, KeySettings, settings)
}

// SaveSubscription stores the user's entitlements.
func (r *StateRepository) SaveSubscription(ctx context.Context, identityID string, sub entities.SubscriptionState) error {
	return r.write(ctx, identityID, KeySubscription, sub)
}
