package repository

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// ErrNotFound is returned by a KVStore when the key has no value.
var ErrNotFound = errors.New("key not found")

// KVStore is a string key-value store. Batch applies all sets and removes
// together when the backend supports transactions.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Batch(ctx context.Context, sets map[string]string, removes []string) error
}

// Namespacer scopes a base key to an identity.
type Namespacer interface {
	NamespaceKey(baseKey, identityID string) string
}

// Base keys of the stored records.
const (
	KeySettings     = "calearner_settings"
	KeyProgress     = "calearner_progress"
	KeyArchive      = "calearner_archive"
	KeySubscription = "calearner_subscription"
	keyLessonPrefix = "calearner_lesson_"
)

// LessonKey is the base key of the lesson generated on day.
func LessonKey(day entities.Day) string {
	return keyLessonPrefix + day.String()
}

// State is everything stored for one identity.
type State struct {
	Settings     entities.UserSettings
	Progress     entities.UserProgress
	Archive      entities.LessonArchive
	Subscription entities.SubscriptionState
	TodayLesson  *entities.DailyLesson
}

// StateRepository stores JSON snapshots of user state under namespaced keys.
type StateRepository struct {
	store  KVStore
	ns     Namespacer
	logger *zap.Logger
}

// NewStateRepository creates a StateRepository.
func NewStateRepository(store KVStore, ns Namespacer, logger *zap.Logger) *StateRepository {
	return &StateRepository{store: store, ns: ns, logger: logger}
}

// Load reads all records of identityID. Missing or corrupt records fall back
// to their defaults; Load never fails.
func (r *StateRepository) Load(ctx context.Context, identityID string, today entities.Day) State {
	st := State{
		Settings:     read(ctx, r, identityID, KeySettings, entities.NewUserSettings()),
		Progress:     read(ctx, r, identityID, KeyProgress, entities.NewUserProgress()),
		Archive:      read(ctx, r, identityID, KeyArchive, entities.NewLessonArchive()),
		Subscription: read(ctx, r, identityID, KeySubscription, entities.NewSubscriptionState()),
	}

	if st.Progress.History == nil {
		st.Progress.History = map[entities.Day]bool{}
	}
	if st.Archive == nil {
		st.Archive = entities.NewLessonArchive()
	}

	if lesson, ok := r.LoadLesson(ctx, identityID, today); ok {
		st.TodayLesson = lesson
	}

	return st
}

// read decodes the record at base, returning def when it is absent or corrupt.
func read[T any](ctx context.Context, r *StateRepository, identityID, base string, def T) T {
	key := r.ns.NamespaceKey(base, identityID)

	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("failed to read stored record", zap.String("key", key), zap.Error(err))
		}
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		r.logger.Warn("corrupt stored record, using default", zap.String("key", key), zap.Error(err))
		return def
	}

	return v
}

func (r *StateRepository) write(ctx context.Context, identityID, base string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, r.ns.NamespaceKey(base, identityID), raw); err != nil {
		return fmt.Errorf("save %s: %w", base, err)
	}

	return nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return string(b), nil
}
