package memory

import (
	"sync"

	"agentbridge/internal/app/ports"
	"agentbridge/internal/domain/game"

	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	keys   map[uuid.UUID]string
	lobby  map[string]ports.LobbyBinding
	tables map[string]game.Table
}

func NewStore() *Store {
	return &Store{
		keys:   make(map[uuid.UUID]string),
		lobby:  make(map[string]ports.LobbyBinding),
		tables: make(map[string]game.Table),
	}
}
