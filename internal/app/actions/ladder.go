package actions

import "agentbridge/internal/domain/game"

// Rung is one step of the availability ladder. Rungs are evaluated in order
// and the first one whose Applies returns true builds the descriptor.
type Rung struct {
	Kind    Kind
	Applies func(st game.State, side game.Side) bool
	Build   func(st game.State, side game.Side) Descriptor
}

var ladder = []Rung{
	{Kind: KindPrompt, Applies: hasPrompt, Build: promptDescriptor},
	{Kind: KindPhaseStart, Applies: phaseStartPending, Build: phaseStartDescriptor},
	{Kind: KindWaiting, Applies: notActive, Build: waitingDescriptor},
	{Kind: KindRunDefend, Applies: defendingRun, Build: runDefendDescriptor},
	{Kind: KindRunAttack, Applies: attackingRun, Build: runAttackDescriptor},
	{Kind: KindMain, Applies: hasClicks, Build: mainDescriptor},
	{Kind: KindEndTurn, Applies: always, Build: endTurnDescriptor},
}

func Ladder() []Rung {
	return append([]Rung(nil), ladder...)
}

// Available derives what side may currently do in st. It never mutates st.
func Available(st game.State, side game.Side) Descriptor {
	if !side.Valid() {
		return Descriptor{Kind: KindWaiting}
	}
	for _, r := range ladder {
		if r.Applies(st, side) {
			return r.Build(st, side)
		}
	}
	return endTurnDescriptor(st, side)
}

func hasPrompt(st game.State, side game.Side) bool {
	return st.SideState(side).Prompt != nil
}

func phaseStartPending(st game.State, side game.Side) bool {
	return st.PhaseStartPending(side)
}

func notActive(st game.State, side game.Side) bool {
	return st.ActivePlayer != side
}

func defendingRun(st game.State, side game.Side) bool {
	return st.Run != nil && st.Run.Defender() == side
}

func attackingRun(st game.State, side game.Side) bool {
	return st.Run != nil && st.Run.Attacker() == side
}

func hasClicks(st game.State, side game.Side) bool {
	return st.SideState(side).Clicks > 0
}

func always(game.State, game.Side) bool { return true }

func promptDescriptor(st game.State, side game.Side) Descriptor {
	return Descriptor{
		Kind:   KindPrompt,
		CanAct: true,
		Prompt: FormatPrompt(st.SideState(side).Prompt),
	}
}

func phaseStartDescriptor(game.State, game.Side) Descriptor {
	return Descriptor{
		Kind:     KindPhaseStart,
		CanAct:   true,
		Commands: []string{game.CmdEndPhase, game.CmdPassPriority},
	}
}

func waitingDescriptor(game.State, game.Side) Descriptor {
	return Descriptor{Kind: KindWaiting}
}

func runDefendDescriptor(st game.State, _ game.Side) Descriptor {
	return Descriptor{Kind: KindRunDefend, RunInfo: runInfo(st.Run)}
}

func runAttackDescriptor(st game.State, _ game.Side) Descriptor {
	return Descriptor{
		Kind:     KindRunAttack,
		CanAct:   true,
		Commands: []string{game.CmdContinue, game.CmdJackOut},
		RunInfo:  runInfo(st.Run),
	}
}

func endTurnDescriptor(game.State, game.Side) Descriptor {
	return Descriptor{
		Kind:     KindEndTurn,
		CanAct:   true,
		Commands: []string{game.CmdEndTurn},
	}
}

func runInfo(r *game.Run) *RunInfo {
	if r == nil {
		return nil
	}
	return &RunInfo{
		Server:   append([]string(nil), r.Server...),
		Position: r.Position,
		Phase:    r.Phase,
	}
}
