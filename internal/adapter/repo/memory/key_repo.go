package memory

import (
	"context"

	"agentbridge/internal/app/ports"

	"github.com/google/uuid"
)

type KeyRepo struct {
	store *Store
}

func NewKeyRepo(store *Store) KeyRepo {
	return KeyRepo{store: store}
}

func (r KeyRepo) UsernameForKey(_ context.Context, key uuid.UUID) (string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	username, ok := r.store.keys[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return username, nil
}

func (r KeyRepo) PutKey(_ context.Context, key uuid.UUID, username string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if owner, ok := r.store.keys[key]; ok && owner != username {
		return ports.ErrConflict
	}
	r.store.keys[key] = username
	return nil
}
