package observe

import (
	"agentbridge/internal/app/actions"
	"agentbridge/internal/domain/game"
)

const DefaultLogLines = 20

const (
	PhaseCorpStart   = "corp-phase-12"
	PhaseRunnerStart = "runner-phase-12"
	PhaseRun         = "run"
	PhaseMain        = "main"
)

// Project builds the view of st that side is entitled to. Nothing reachable
// from the opponent state names a card the viewer cannot see.
func Project(st game.State, side game.Side, logLines int) SideView {
	opp := side.Opponent()
	return SideView{
		GameID:           st.GameID,
		Turn:             st.Turn,
		ActivePlayer:     st.ActivePlayer,
		Phase:            PhaseLabel(st),
		AgentSide:        side,
		AgentState:       projectOwn(*st.SideState(side), side),
		OpponentState:    projectOpponent(*st.SideState(opp), opp, side),
		Run:              summarizeRun(st.Run),
		AvailableActions: actions.Available(st, side),
		Log:              LogTail(st.Log, logLines),
	}
}

func PhaseLabel(st game.State) string {
	switch {
	case st.CorpPhase12:
		return PhaseCorpStart
	case st.RunnerPhase12:
		return PhaseRunnerStart
	case st.Run != nil:
		return PhaseRun
	default:
		return PhaseMain
	}
}

func projectOwn(ss game.SideState, side game.Side) OwnState {
	out := OwnState{
		Username:     ss.Player.Username,
		Identity:     fullCard(ss.Identity),
		Clicks:       ss.Clicks,
		Credits:      ss.Credits,
		Tags:         ss.Tags,
		BadPublicity: ss.BadPublicity,
		Hand:         fullCards(ss.Hand),
		HandCount:    len(ss.Hand),
		DeckCount:    len(ss.Deck),
		Discard:      fullCards(ss.Discard),
		Scored:       fullCards(ss.Scored),
		AgendaPoints: ss.AgendaPoints,
		Prompt:       actions.FormatPrompt(ss.Prompt),
	}
	if side == game.Runner {
		rig := projectRig(ss.Rig, side, side)
		out.Rig = &rig
	}
	return out
}

func projectOpponent(ss game.SideState, owner, viewer game.Side) OpponentState {
	out := OpponentState{
		Username:     ss.Player.Username,
		Identity:     fullCard(ss.Identity),
		Clicks:       ss.Clicks,
		Credits:      ss.Credits,
		Tags:         ss.Tags,
		BadPublicity: ss.BadPublicity,
		HandCount:    len(ss.Hand),
		DeckCount:    len(ss.Deck),
		Discard:      redactCards(ss.Discard, owner, viewer),
		Scored:       fullCards(ss.Scored),
		AgendaPoints: ss.AgendaPoints,
	}
	if owner == game.Runner {
		rig := projectRig(ss.Rig, owner, viewer)
		out.Rig = &rig
	}
	return out
}

func projectRig(r game.Rig, owner, viewer game.Side) RigView {
	return RigView{
		Hardware: redactCards(r.Hardware, owner, viewer),
		Program:  redactCards(r.Program, owner, viewer),
		Resource: redactCards(r.Resource, owner, viewer),
		Facedown: facedownCards(r.Facedown, owner, viewer),
	}
}

func summarizeRun(r *game.Run) *RunSummary {
	if r == nil {
		return nil
	}
	return &RunSummary{
		Server:   append([]string(nil), r.Server...),
		Position: r.Position,
		Phase:    r.Phase,
		NoAction: r.NoAction,
	}
}

// LogTail returns the text of the last n log entries, oldest first.
func LogTail(entries []game.LogEntry, n int) []string {
	if n <= 0 || n > len(entries) {
		n = len(entries)
	}
	out := make([]string, 0, n)
	for _, e := range entries[len(entries)-n:] {
		out = append(out, e.Text)
	}
	return out
}

// Board returns the shared servers and the runner's rig as seen by viewer.
func Board(st game.State, viewer game.Side) BoardResponse {
	servers := make(map[string]ServerView, len(st.Servers))
	for name, srv := range st.Servers {
		servers[name] = ServerView{
			Content: redactCards(srv.Content, game.Corp, viewer),
			Ices:    redactCards(srv.Ices, game.Corp, viewer),
		}
	}
	return BoardResponse{
		Servers: servers,
		Rig:     projectRig(st.Runner.Rig, game.Runner, viewer),
		Side:    viewer,
	}
}

func Scored(st game.State) ScoredResponse {
	return ScoredResponse{
		Corp:   ScoreArea{Scored: fullCards(st.Corp.Scored), AgendaPoints: st.Corp.AgendaPoints},
		Runner: ScoreArea{Scored: fullCards(st.Runner.Scored), AgendaPoints: st.Runner.AgendaPoints},
	}
}

func RunState(st game.State, viewer game.Side) RunResponse {
	return RunResponse{
		Run:        summarizeRun(st.Run),
		Encounters: redactCards(st.Encounters, game.Corp, viewer),
	}
}
