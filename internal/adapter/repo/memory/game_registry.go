package memory

import (
	"context"
	"fmt"

	"agentbridge/internal/app/agent"
	"agentbridge/internal/app/ports"
	"agentbridge/internal/domain/game"
)

type GameRegistry struct {
	store *Store
}

func NewGameRegistry(store *Store) GameRegistry {
	return GameRegistry{store: store}
}

func (r GameRegistry) Table(_ context.Context, gameID string) (game.Table, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.tables[gameID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return t, nil
}

// Register makes a started game reachable. Games with an agent on both sides
// are refused.
func (r GameRegistry) Register(t game.Table) error {
	if err := agent.Validate(t.Snapshot()); err != nil {
		return fmt.Errorf("register game %s: %w", t.ID(), err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.tables[t.ID()]; exists {
		return ports.ErrConflict
	}
	r.store.tables[t.ID()] = t
	return nil
}
