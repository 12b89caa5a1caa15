package notify

import (
	"agentbridge/internal/app/actions"
	"agentbridge/internal/app/agent"
	"agentbridge/internal/domain/game"
)

type EventKind string

const (
	EventGameStarted   EventKind = "game-started"
	EventTurnStarted   EventKind = "turn-started"
	EventPrompt        EventKind = "prompt"
	EventCheckpoint    EventKind = "checkpoint"
	EventWaiting       EventKind = "waiting"
	EventOpponentActed EventKind = "opponent-acted"
	EventRunStarted    EventKind = "run-started"
	EventRunEnded      EventKind = "run-ended"
	EventGameEnded     EventKind = "game-ended"
)

// Poster is the part of Dispatcher the Notifier needs.
type Poster interface {
	Notify(st game.State, kind EventKind, payload map[string]any) bool
}

// Notifier turns game-loop moments into agent events. Every method reports
// whether an event was handed to the dispatcher.
type Notifier struct {
	Poster Poster
}

func (n Notifier) GameStarted(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok {
		return false
	}
	opp := st.SideState(side.Opponent())
	return n.post(st, EventGameStarted, map[string]any{
		"agentSide":        side,
		"turn":             st.Turn,
		"opponentIdentity": opp.Identity.Title,
	})
}

// TurnStarted fires only when the agent's own turn begins.
func (n Notifier) TurnStarted(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok || st.ActivePlayer != side {
		return false
	}
	ss := st.SideState(side)
	return n.post(st, EventTurnStarted, map[string]any{
		"turn":             st.Turn,
		"clicks":           ss.Clicks,
		"credits":          ss.Credits,
		"handSize":         len(ss.Hand),
		"availableActions": actions.Available(st, side),
	})
}

func (n Notifier) Prompt(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok {
		return false
	}
	prompt := st.SideState(side).Prompt
	if prompt == nil {
		return false
	}
	return n.post(st, EventPrompt, map[string]any{
		"prompt":           actions.FormatPrompt(prompt),
		"availableActions": actions.Available(st, side),
	})
}

// Checkpoint offers the agent a chance to act. It is skipped when the agent
// has nothing it can do.
func (n Notifier) Checkpoint(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok {
		return false
	}
	avail := actions.Available(st, side)
	if !avail.CanAct {
		return false
	}
	return n.post(st, EventCheckpoint, map[string]any{
		"availableActions": avail,
		"turn":             st.Turn,
		"activePlayer":     st.ActivePlayer,
	})
}

func (n Notifier) Waiting(st game.State, message string) bool {
	if !agent.IsAgentGame(st) {
		return false
	}
	return n.post(st, EventWaiting, map[string]any{"message": message})
}

func (n Notifier) OpponentActed(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok {
		return false
	}
	return n.post(st, EventOpponentActed, map[string]any{
		"availableActions": actions.Available(st, side),
		"turn":             st.Turn,
		"activePlayer":     st.ActivePlayer,
	})
}

func (n Notifier) RunStarted(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok || st.Run == nil {
		return false
	}
	return n.post(st, EventRunStarted, map[string]any{
		"server":           append([]string(nil), st.Run.Server...),
		"position":         st.Run.Position,
		"phase":            st.Run.Phase,
		"isRunner":         side == st.Run.Attacker(),
		"availableActions": actions.Available(st, side),
	})
}

func (n Notifier) RunEnded(st game.State, successful bool) bool {
	side, ok := agent.Side(st)
	if !ok {
		return false
	}
	return n.post(st, EventRunEnded, map[string]any{
		"successful":       successful,
		"availableActions": actions.Available(st, side),
	})
}

func (n Notifier) GameEnded(st game.State) bool {
	side, ok := agent.Side(st)
	if !ok {
		return false
	}
	return n.post(st, EventGameEnded, map[string]any{
		"winner":   st.Winner,
		"reason":   st.Reason,
		"agentWon": st.Winner != "" && st.Winner == side,
		"finalScores": map[string]any{
			"corp":   st.Corp.AgendaPoints,
			"runner": st.Runner.AgendaPoints,
		},
	})
}

func (n Notifier) post(st game.State, kind EventKind, payload map[string]any) bool {
	if n.Poster == nil {
		return false
	}
	return n.Poster.Notify(st, kind, payload)
}
