package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// SaveCompletion stores the completed lesson, progress and archive in one batch.
func (r *StateRepository) SaveCompletion(ctx context.Context, identityID string, c entities.Completion) error {
	if c.Lesson == nil {
		return nil
	}

	records := map[string]any{
		LessonKey(c.Lesson.ID): c.Lesson,
		KeyProgress:            c.Progress,
		KeyArchive:             c.Archive,
	}

	sets := make(map[string]string, len(records))
	for base, v := range records {
		raw, err := encode(v)
		if err != nil {
			return err
		}
		sets[r.ns.NamespaceKey(base, identityID)] = raw
	}

	if err := r.store.Batch(ctx, sets, nil); err != nil {
		return fmt.Errorf("save completion: %w", err)
	}

	return nil
}
