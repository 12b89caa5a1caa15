package sandbox

import "agentbridge/internal/domain/game"

// Hooks receives game-loop moments. notify.Notifier implements it.
type Hooks interface {
	GameStarted(st game.State) bool
	TurnStarted(st game.State) bool
	Prompt(st game.State) bool
	Checkpoint(st game.State) bool
	Waiting(st game.State, message string) bool
	OpponentActed(st game.State) bool
	RunStarted(st game.State) bool
	RunEnded(st game.State, successful bool) bool
	GameEnded(st game.State) bool
}

type noHooks struct{}

func (noHooks) GameStarted(game.State) bool     { return false }
func (noHooks) TurnStarted(game.State) bool     { return false }
func (noHooks) Prompt(game.State) bool          { return false }
func (noHooks) Checkpoint(game.State) bool      { return false }
func (noHooks) Waiting(game.State, string) bool { return false }
func (noHooks) OpponentActed(game.State) bool   { return false }
func (noHooks) RunStarted(game.State) bool      { return false }
func (noHooks) RunEnded(game.State, bool) bool  { return false }
func (noHooks) GameEnded(game.State) bool       { return false }

type eventKind int

const (
	evGameStarted eventKind = iota
	evTurnStarted
	evRunStarted
	evRunEnded
	evWaiting
	evGameEnded
)

type event struct {
	kind       eventKind
	successful bool
	message    string
}
