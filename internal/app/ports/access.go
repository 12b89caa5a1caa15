package ports

import (
	"context"
	"errors"

	"agentbridge/internal/domain/game"

	"github.com/google/uuid"
)

// Store lookups return ErrNotFound for a missing row and ErrConflict when a
// write collides with an existing one.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn in one transaction. Repos called with the ctx passed to
// fn join it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type KeyStore interface {
	UsernameForKey(ctx context.Context, key uuid.UUID) (string, error)
}

type LobbyBinding struct {
	Username  string
	GameID    string
	APIAccess bool
}

type Lobby interface {
	ActiveGame(ctx context.Context, username string) (LobbyBinding, error)
}

type GameRegistry interface {
	Table(ctx context.Context, gameID string) (game.Table, error)
}

// KeyWriter and LobbyWriter are the provisioning side of KeyStore and Lobby.
type KeyWriter interface {
	PutKey(ctx context.Context, key uuid.UUID, username string) error
}

type LobbyWriter interface {
	Join(ctx context.Context, binding LobbyBinding) error
}
