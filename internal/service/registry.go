package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/repository"
)

// Registry keeps one Session per chat. Each chat gets its own key prefix in
// the shared store and so its own guest.
type Registry struct {
	mu       sync.Mutex
	store    repository.KVStore
	ns       repository.Namespacer
	deps     SessionDeps
	sessions map[int64]*Session
}

func NewRegistry(store repository.KVStore, ns repository.Namespacer, deps SessionDeps) *Registry {
	return &Registry{
		store:    store,
		ns:       ns,
		deps:     deps,
		sessions: make(map[int64]*Session),
	}
}

// Session returns the session of chatID, loading it on first use.
func (r *Registry) Session(ctx context.Context, chatID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[chatID]; ok {
		return s
	}

	deps := r.deps
	deps.Logger = r.deps.Logger.With(zap.Int64("chat_id", chatID))

	repo := repository.NewStateRepository(
		repository.NewPrefixed(r.store, chatPrefix(chatID)),
		r.ns,
		deps.Logger,
	)
	s := NewSession(ctx, repo, deps)
	r.sessions[chatID] = s

	return s
}

// ChatIDs lists the chats with a loaded session.
func (r *Registry) ChatIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func chatPrefix(chatID int64) string {
	return fmt.Sprintf("chat:%d:", chatID)
}
