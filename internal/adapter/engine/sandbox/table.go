// Package sandbox is a small serialized rules engine used for local play and
// tests. It models the click economy, prompts, runs and turn passing closely
// enough to drive agents end to end, not the full card pool.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"agentbridge/internal/app/agent"
	"agentbridge/internal/domain/game"

	"github.com/charmbracelet/log"
)

const (
	corpClicks       = 3
	runnerClicks     = 4
	pointsToWin      = 7
	advancesToScore  = 3
	purgeClickCost   = 3
	removeTagCredits = 2
)

var (
	ErrGameOver       = errors.New("game is over")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNoClicks       = errors.New("no clicks left")
	ErrNotEnoughMoney = errors.New("not enough credits")
	ErrUnknownCommand = errors.New("unknown command")
)

type Options struct {
	Hooks  Hooks
	Logger *log.Logger
}

type Table struct {
	mu      sync.Mutex
	st      game.State
	hooks   Hooks
	logger  *log.Logger
	pending map[string]pendingPrompt
	events  []event
	remotes int
	started bool
}

// New wraps an initial state. The state is copied; call Start to begin play.
func New(initial game.State, opts Options) *Table {
	hooks := opts.Hooks
	if hooks == nil {
		hooks = noHooks{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	st := initial.Clone()
	if st.Servers == nil {
		st.Servers = map[string]game.Server{}
	}
	for _, name := range []string{"hq", "rd", "archives"} {
		if _, ok := st.Servers[name]; !ok {
			st.Servers[name] = game.Server{}
		}
	}
	t := &Table{
		st:      st,
		hooks:   hooks,
		logger:  logger.WithPrefix("sandbox").With("game", st.GameID),
		pending: map[string]pendingPrompt{},
	}
	for name := range st.Servers {
		var n int
		if _, err := fmt.Sscanf(name, "remote%d", &n); err == nil && n > t.remotes {
			t.remotes = n
		}
	}
	t.refreshPlayable()
	return t
}

func (t *Table) ID() string {
	return t.st.GameID
}

func (t *Table) Snapshot() game.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.Clone()
}

// Start opens the corp's first turn. It is a no-op after the first call.
func (t *Table) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	if t.st.Turn == 0 {
		t.st.Turn = 1
	}
	t.emit(event{kind: evGameStarted})
	t.beginTurn(game.Corp)
	t.flush("")
}

// Dispatch applies one command for side. Commands are serialized per table.
func (t *Table) Dispatch(ctx context.Context, side game.Side, command string, args map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if !side.Valid() {
		return game.ErrUnknownSide
	}
	if !t.started {
		return errors.New("game has not started")
	}
	if t.st.Winner != "" {
		return ErrGameOver
	}
	handler, ok := commands[command]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	if err := handler(t, side, args); err != nil {
		t.events = t.events[:0]
		t.logger.Debug("command rejected", "side", side, "command", command, "err", err)
		return err
	}
	t.refreshPlayable()
	t.flush(side)
	return nil
}

func (t *Table) emit(ev event) {
	t.events = append(t.events, ev)
}

// flush delivers queued events in order, then tells the agent what changed.
func (t *Table) flush(actor game.Side) {
	snap := t.st.Clone()
	agentSide, isAgentGame := agent.Side(snap)
	directed := false
	for _, ev := range t.events {
		switch ev.kind {
		case evGameStarted:
			t.hooks.GameStarted(snap)
		case evTurnStarted:
			directed = t.hooks.TurnStarted(snap) || directed
		case evRunStarted:
			t.hooks.RunStarted(snap)
		case evRunEnded:
			t.hooks.RunEnded(snap, ev.successful)
		case evWaiting:
			directed = t.hooks.Waiting(snap, ev.message) || directed
		case evGameEnded:
			t.hooks.GameEnded(snap)
		}
	}
	t.events = t.events[:0]
	if !isAgentGame || snap.Winner != "" {
		return
	}
	if actor != "" && actor != agentSide {
		t.hooks.OpponentActed(snap)
	}
	if snap.SideState(agentSide).Prompt != nil {
		t.hooks.Prompt(snap)
		return
	}
	if !directed {
		t.hooks.Checkpoint(snap)
	}
}

func (t *Table) logf(side game.Side, format string, args ...any) {
	user := t.st.SideState(side).Player.Username
	t.st.Log = append(t.st.Log, game.LogEntry{User: user, Text: fmt.Sprintf(format, args...)})
}

func (t *Table) refreshPlayable() {
	for _, side := range []game.Side{game.Corp, game.Runner} {
		ss := t.st.SideState(side)
		canSpend := t.st.ActivePlayer == side && ss.Clicks > 0 && t.st.Run == nil &&
			!t.st.PhaseStartPending(side) && ss.Prompt == nil
		for i := range ss.Hand {
			c := &ss.Hand[i]
			c.Playable = canSpend && c.Cost <= ss.Credits && handTypeUsable(side, c.Type)
		}
	}
}

func (t *Table) checkWinner() {
	switch {
	case t.st.Corp.AgendaPoints >= pointsToWin:
		t.finish(game.Corp, "agenda")
	case t.st.Runner.AgendaPoints >= pointsToWin:
		t.finish(game.Runner, "agenda")
	}
}

func (t *Table) finish(winner game.Side, reason string) {
	if t.st.Winner != "" {
		return
	}
	t.st.Winner = winner
	t.st.Reason = reason
	t.st.Run = nil
	t.st.Encounters = nil
	t.logf(winner, "wins the game (%s)", reason)
	t.logger.Info("game ended", "winner", winner, "reason", reason)
	t.emit(event{kind: evGameEnded})
}
