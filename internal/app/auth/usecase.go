package auth

import (
	"context"
	"errors"
	"strings"

	"agentbridge/internal/app/agent"
	"agentbridge/internal/app/ports"
	"agentbridge/internal/domain/game"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredential = errors.New("missing or malformed api key")
	ErrUnknownCredential = errors.New("unknown api key")
	ErrNoAccessibleGame  = errors.New("no game with api access for this key")
	ErrGameNotStarted    = errors.New("game not started")
	ErrNotParticipant    = errors.New("not a participant in this game")
)

type ResolveRequest struct {
	Credential string
}

// Grant is the outcome of a successful resolution: who is calling, which game
// they reach and which side they act as.
type Grant struct {
	Username string
	GameID   string
	Side     game.Side
	Table    game.Table
}

type ResolveUseCase struct {
	Keys  ports.KeyStore
	Lobby ports.Lobby
	Games ports.GameRegistry
}

func ParseCredential(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ErrInvalidCredential
	}
	key, err := uuid.Parse(raw)
	if err != nil || key == uuid.Nil {
		return uuid.Nil, ErrInvalidCredential
	}
	return key, nil
}

func (u ResolveUseCase) Execute(ctx context.Context, req ResolveRequest) (Grant, error) {
	key, err := ParseCredential(req.Credential)
	if err != nil {
		return Grant{}, err
	}
	if u.Keys == nil || u.Lobby == nil || u.Games == nil {
		return Grant{}, ErrUnknownCredential
	}

	username, err := u.Keys.UsernameForKey(ctx, key)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Grant{}, ErrUnknownCredential
		}
		return Grant{}, err
	}

	binding, err := u.Lobby.ActiveGame(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Grant{}, ErrNoAccessibleGame
		}
		return Grant{}, err
	}
	if !binding.APIAccess || binding.GameID == "" {
		return Grant{}, ErrNoAccessibleGame
	}

	table, err := u.Games.Table(ctx, binding.GameID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Grant{}, ErrGameNotStarted
		}
		return Grant{}, err
	}

	side, ok := SideOf(table.Snapshot(), username)
	if !ok {
		return Grant{}, ErrNotParticipant
	}
	return Grant{
		Username: username,
		GameID:   binding.GameID,
		Side:     side,
		Table:    table,
	}, nil
}

// SideOf finds the side owned by username, either directly or as the
// controller of the game's agent player.
func SideOf(st game.State, username string) (game.Side, bool) {
	if strings.TrimSpace(username) == "" {
		return "", false
	}
	for _, side := range []game.Side{game.Corp, game.Runner} {
		p := st.SideState(side).Player
		if p.Username == username {
			return side, true
		}
		if agent.IsAgent(p) && p.Controller == username {
			return side, true
		}
	}
	return "", false
}
