package memory

import (
	"context"

	"agentbridge/internal/app/ports"
)

type LobbyRepo struct {
	store *Store
}

func NewLobbyRepo(store *Store) LobbyRepo {
	return LobbyRepo{store: store}
}

func (r LobbyRepo) ActiveGame(_ context.Context, username string) (ports.LobbyBinding, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.lobby[username]
	if !ok {
		return ports.LobbyBinding{}, ports.ErrNotFound
	}
	return b, nil
}

// Join binds the user to a game, replacing any earlier binding.
func (r LobbyRepo) Join(_ context.Context, b ports.LobbyBinding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.lobby[b.Username] = b
	return nil
}
