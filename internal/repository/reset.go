package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// ResetProgress removes progress, archive and today's lesson of identityID.
// Settings and entitlements are kept.
func (r *StateRepository) ResetProgress(ctx context.Context, identityID string, today entities.Day) error {
	removes := []string{
		r.ns.NamespaceKey(KeyProgress, identityID),
		r.ns.NamespaceKey(KeyArchive, identityID),
		r.ns.NamespaceKey(LessonKey(today), identityID),
	}

	if err := r.store.Batch(ctx, nil, removes); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}

	return nil
}
