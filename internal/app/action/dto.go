package action

import (
	"agentbridge/internal/app/actions"
	"agentbridge/internal/domain/game"
)

type Request struct {
	Table   game.Table
	Side    game.Side
	Command string
	Args    map[string]any
}

// ChoiceRequest answers the open prompt. Choice is either a literal value or
// a map holding the chosen option's "uuid".
type ChoiceRequest struct {
	Table  game.Table
	Side   game.Side
	Choice any
}

type SelectRequest struct {
	Table game.Table
	Side  game.Side
	CID   string
}

type Response struct {
	Success          bool               `json:"success"`
	Command          string             `json:"command"`
	Side             game.Side          `json:"side"`
	AvailableActions actions.Descriptor `json:"availableActions"`
}
