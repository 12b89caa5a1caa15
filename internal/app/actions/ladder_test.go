package actions

import (
	"testing"

	"agentbridge/internal/domain/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailable_CorpMainPhase(t *testing.T) {
	st := game.State{
		Turn:         1,
		ActivePlayer: game.Corp,
		Corp: game.SideState{
			Clicks:  3,
			Credits: 5,
			Hand: []game.Card{
				{CID: "1", Title: "Hedge Fund", Type: game.TypeOperation, Playable: true, Cost: 5},
				{CID: "2", Title: "Ice Wall", Type: game.TypeICE, Playable: true, Cost: 1},
				{CID: "3", Title: "Hostile Takeover", Type: game.TypeAgenda, Playable: false},
				{CID: "4", Title: "Sure Gamble", Type: game.TypeEvent, Playable: true},
			},
		},
	}

	got := Available(st, game.Corp)

	require.Equal(t, KindMain, got.Kind)
	assert.True(t, got.CanAct)
	require.NotNil(t, got.Clicks)
	require.NotNil(t, got.Credits)
	assert.Equal(t, 3, *got.Clicks)
	assert.Equal(t, 5, *got.Credits)
	assert.Equal(t, []string{"credit", "draw", "purge"}, got.BasicActions)
	assert.Equal(t, []CardRef{{CID: "1", Title: "Hedge Fund", Type: game.TypeOperation, Cost: 5}}, got.PlayableCards)
	assert.Equal(t, []CardRef{{CID: "2", Title: "Ice Wall", Type: game.TypeICE, Cost: 1}}, got.InstallableCards)
}

func TestAvailable_RunnerBasicActions(t *testing.T) {
	st := game.State{
		ActivePlayer: game.Runner,
		Runner: game.SideState{
			Clicks: 4,
			Hand: []game.Card{
				{CID: "10", Title: "Sure Gamble", Type: game.TypeEvent, Playable: true},
				{CID: "11", Title: "Corroder", Type: game.TypeProgram, Playable: true},
				{CID: "12", Title: "Hedge Fund", Type: game.TypeOperation, Playable: true},
			},
		},
	}

	got := Available(st, game.Runner)
	assert.Equal(t, []string{"credit", "draw"}, got.BasicActions)
	assert.Equal(t, []CardRef{{CID: "10", Title: "Sure Gamble", Type: game.TypeEvent}}, got.PlayableCards)
	assert.Equal(t, []CardRef{{CID: "11", Title: "Corroder", Type: game.TypeProgram}}, got.InstallableCards)

	st.Runner.Tags = 1
	got = Available(st, game.Runner)
	assert.Equal(t, []string{"credit", "draw", "remove-tag"}, got.BasicActions)
}

func TestAvailable_PromptFormatsChoices(t *testing.T) {
	st := game.State{
		ActivePlayer: game.Runner,
		Corp: game.SideState{Prompt: &game.Prompt{
			Msg:     "Rez Ice Wall?",
			Type:    "choice",
			EID:     "eid-7",
			Card:    &game.Card{CID: "2", Title: "Ice Wall"},
			Choices: []game.Choice{{UUID: "u-yes", Idx: 0, Value: "Yes"}, {UUID: "u-no", Idx: 1, Value: "No"}},
		}},
	}

	got := Available(st, game.Corp)
	require.Equal(t, KindPrompt, got.Kind)
	assert.True(t, got.CanAct)
	require.NotNil(t, got.Prompt)
	assert.Equal(t, "Rez Ice Wall?", got.Prompt.Message)
	assert.Equal(t, "eid-7", got.Prompt.EID)
	assert.Equal(t, &CardRef{CID: "2", Title: "Ice Wall"}, got.Prompt.Card)
	assert.Equal(t, []ChoiceView{{UUID: "u-yes", Idx: 0, Value: "Yes"}, {UUID: "u-no", Idx: 1, Value: "No"}}, got.Prompt.Choices)
}

func TestAvailable_RunBranches(t *testing.T) {
	run := &game.Run{Server: []string{"remote1"}, Position: 2, Phase: "approach-ice"}

	attacker := Available(game.State{ActivePlayer: game.Runner, Run: run, Runner: game.SideState{Clicks: 2}}, game.Runner)
	require.Equal(t, KindRunAttack, attacker.Kind)
	assert.True(t, attacker.CanAct)
	assert.Equal(t, []string{"continue", "jack-out"}, attacker.Commands)
	assert.Equal(t, &RunInfo{Server: []string{"remote1"}, Position: 2, Phase: "approach-ice"}, attacker.RunInfo)

	defender := Available(game.State{ActivePlayer: game.Corp, Run: run, Corp: game.SideState{Clicks: 2}}, game.Corp)
	require.Equal(t, KindRunDefend, defender.Kind)
	assert.False(t, defender.CanAct)
	assert.NotNil(t, defender.RunInfo)
}

func TestAvailable_PhaseStartAndEndTurn(t *testing.T) {
	phase := Available(game.State{ActivePlayer: game.Runner, RunnerPhase12: true}, game.Runner)
	assert.Equal(t, KindPhaseStart, phase.Kind)
	assert.True(t, phase.CanAct)
	assert.Equal(t, []string{"end-phase-12", "pass-priority"}, phase.Commands)

	end := Available(game.State{ActivePlayer: game.Corp}, game.Corp)
	assert.Equal(t, KindEndTurn, end.Kind)
	assert.Equal(t, []string{"end-turn"}, end.Commands)

	waiting := Available(game.State{ActivePlayer: game.Corp, Runner: game.SideState{Clicks: 4}}, game.Runner)
	assert.Equal(t, KindWaiting, waiting.Kind)
	assert.False(t, waiting.CanAct)
}

func TestAvailable_UnknownSideWaits(t *testing.T) {
	got := Available(game.State{ActivePlayer: game.Corp}, game.Side("spectator"))
	assert.Equal(t, KindWaiting, got.Kind)
	assert.False(t, got.CanAct)
}

func TestAvailable_IsIdempotent(t *testing.T) {
	st := game.State{
		ActivePlayer: game.Corp,
		Corp: game.SideState{
			Clicks: 2,
			Hand:   []game.Card{{CID: "1", Title: "Hedge Fund", Type: game.TypeOperation, Playable: true}},
		},
	}
	first := Available(st, game.Corp)
	second := Available(st, game.Corp)
	assert.Equal(t, first, second)
}

// Every combination of ladder conditions resolves to exactly the highest
// priority rung whose condition holds.
func TestAvailable_LadderPriorityExhaustive(t *testing.T) {
	rungs := Ladder()
	require.Len(t, rungs, 7)
	order := []Kind{KindPrompt, KindPhaseStart, KindWaiting, KindRunDefend, KindRunAttack, KindMain, KindEndTurn}
	for i, r := range rungs {
		require.Equal(t, order[i], r.Kind)
	}

	for _, side := range []game.Side{game.Corp, game.Runner} {
		for _, prompt := range []bool{false, true} {
			for _, phase := range []bool{false, true} {
				for _, active := range []game.Side{game.Corp, game.Runner} {
					for _, running := range []bool{false, true} {
						for _, clicks := range []int{0, 3} {
							st := buildState(side, prompt, phase, active, running, clicks)

							applicable := 0
							var first Kind
							for _, r := range rungs {
								if r.Applies(st, side) {
									if applicable == 0 {
										first = r.Kind
									}
									applicable++
								}
							}
							require.GreaterOrEqual(t, applicable, 1)

							got := Available(st, side)
							want := expectedKind(side, prompt, phase, active, running, clicks)
							assert.Equalf(t, want, got.Kind, "side=%s prompt=%v phase=%v active=%s run=%v clicks=%d", side, prompt, phase, active, running, clicks)
							assert.Equal(t, first, got.Kind)
							if prompt {
								assert.Equal(t, KindPrompt, got.Kind)
							}
						}
					}
				}
			}
		}
	}
}

func buildState(side game.Side, prompt, phase bool, active game.Side, running bool, clicks int) game.State {
	st := game.State{ActivePlayer: active}
	ss := st.SideState(side)
	ss.Clicks = clicks
	ss.Credits = 4
	if prompt {
		ss.Prompt = &game.Prompt{Msg: "pick", Type: "choice"}
	}
	if phase {
		if side == game.Corp {
			st.CorpPhase12 = true
		} else {
			st.RunnerPhase12 = true
		}
	}
	if running {
		st.Run = &game.Run{Server: []string{"hq"}, Phase: "initiation"}
	}
	return st
}

func expectedKind(side game.Side, prompt, phase bool, active game.Side, running bool, clicks int) Kind {
	switch {
	case prompt:
		return KindPrompt
	case phase:
		return KindPhaseStart
	case active != side:
		return KindWaiting
	case running && side == game.Corp:
		return KindRunDefend
	case running && side == game.Runner:
		return KindRunAttack
	case clicks > 0:
		return KindMain
	default:
		return KindEndTurn
	}
}
