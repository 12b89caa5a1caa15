package observe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"agentbridge/internal/app/actions"
	"agentbridge/internal/domain/game"
)

func TestProject_OpponentHidesHandAndDeck(t *testing.T) {
	st := secretState()

	view := Project(st, game.Runner, DefaultLogLines)

	if got, want := view.OpponentState.HandCount, 2; got != want {
		t.Fatalf("hand count mismatch: got=%d want=%d", got, want)
	}
	if got, want := view.OpponentState.DeckCount, 3; got != want {
		t.Fatalf("deck count mismatch: got=%d want=%d", got, want)
	}

	b, err := json.Marshal(view.OpponentState)
	if err != nil {
		t.Fatalf("marshal opponent: %v", err)
	}
	if strings.Contains(string(b), "SECRET") {
		t.Fatalf("opponent state leaks hidden card: %s", b)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal opponent: %v", err)
	}
	for _, forbidden := range []string{"hand", "deck", "prompt"} {
		if _, ok := fields[forbidden]; ok {
			t.Fatalf("opponent state exposes %q", forbidden)
		}
	}
}

func TestProject_NeverExposesAgentSecrets(t *testing.T) {
	st := secretState()
	for _, side := range []game.Side{game.Corp, game.Runner} {
		b, err := json.Marshal(Project(st, side, DefaultLogLines))
		if err != nil {
			t.Fatalf("marshal view: %v", err)
		}
		if strings.Contains(string(b), "agent-api-key") || strings.Contains(string(b), "hooks.example") {
			t.Fatalf("view for %s leaks agent configuration: %s", side, b)
		}
	}
}

func TestProject_OwnStateIsComplete(t *testing.T) {
	st := secretState()

	view := Project(st, game.Corp, DefaultLogLines)

	if got, want := len(view.AgentState.Hand), 2; got != want {
		t.Fatalf("own hand mismatch: got=%d want=%d", got, want)
	}
	if view.AgentState.Hand[0].Title != "SECRET-HAND-1" {
		t.Fatalf("expected own hand titles, got %+v", view.AgentState.Hand)
	}
	if got, want := view.AgentState.DeckCount, 3; got != want {
		t.Fatalf("own deck count mismatch: got=%d want=%d", got, want)
	}
	if view.AgentState.Prompt == nil || view.AgentState.Prompt.Message != "Rez?" {
		t.Fatalf("expected own prompt, got %+v", view.AgentState.Prompt)
	}
	if view.AvailableActions.Kind != actions.KindPrompt {
		t.Fatalf("expected prompt actions, got %s", view.AvailableActions.Kind)
	}
	if got, want := view.AgentSide, game.Corp; got != want {
		t.Fatalf("agent side mismatch: got=%q want=%q", got, want)
	}
	if view.Phase != PhaseRun {
		t.Fatalf("expected run phase, got %q", view.Phase)
	}
	if view.Run == nil || !view.Run.NoAction || view.Run.Position != 1 {
		t.Fatalf("unexpected run summary: %+v", view.Run)
	}
}

func TestBoard_RedactsFaceDownCards(t *testing.T) {
	st := secretState()

	runnerView := Board(st, game.Runner)
	ices := runnerView.Servers["hq"].Ices
	if len(ices) != 2 {
		t.Fatalf("expected 2 ice, got %d", len(ices))
	}
	if !ices[0].Hidden || ices[0].Title != "" || ices[0].CID != "ice-1" {
		t.Fatalf("expected unrezzed ice hidden, got %+v", ices[0])
	}
	if ices[1].Hidden || ices[1].Title != "Enigma" {
		t.Fatalf("expected rezzed ice visible, got %+v", ices[1])
	}

	corpView := Board(st, game.Corp)
	if corpView.Servers["hq"].Ices[0].Title != "SECRET-ICE" {
		t.Fatalf("corp should see its own ice")
	}
	if got := corpView.Rig.Facedown; len(got) != 1 || !got[0].Hidden || got[0].Title != "" {
		t.Fatalf("expected runner facedown card hidden from corp, got %+v", got)
	}
	if got := corpView.Rig.Program; len(got) != 1 || got[0].Title != "Corroder" {
		t.Fatalf("expected installed program visible, got %+v", got)
	}
}

func TestRunState_RedactsEncounters(t *testing.T) {
	st := secretState()
	resp := RunState(st, game.Runner)
	if resp.Run == nil {
		t.Fatalf("expected run summary")
	}
	if len(resp.Encounters) != 1 || resp.Encounters[0].Title != "Enigma" {
		t.Fatalf("unexpected encounters: %+v", resp.Encounters)
	}
}

func TestPhaseLabel(t *testing.T) {
	cases := []struct {
		name string
		st   game.State
		want string
	}{
		{name: "corp start", st: game.State{CorpPhase12: true}, want: PhaseCorpStart},
		{name: "runner start", st: game.State{RunnerPhase12: true, Run: &game.Run{}}, want: PhaseRunnerStart},
		{name: "run", st: game.State{Run: &game.Run{}}, want: PhaseRun},
		{name: "main", st: game.State{}, want: PhaseMain},
	}
	for _, tc := range cases {
		if got := PhaseLabel(tc.st); got != tc.want {
			t.Fatalf("%s: got=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func TestLogTail_Bounded(t *testing.T) {
	entries := make([]game.LogEntry, 0, 30)
	for i := 0; i < 30; i++ {
		entries = append(entries, game.LogEntry{Text: string(rune('a' + i%26))})
	}
	got := LogTail(entries, DefaultLogLines)
	if len(got) != DefaultLogLines {
		t.Fatalf("expected %d lines, got %d", DefaultLogLines, len(got))
	}
	if got[len(got)-1] != entries[29].Text {
		t.Fatalf("expected newest entry last")
	}
	if all := LogTail(entries, 0); len(all) != 30 {
		t.Fatalf("expected all entries for non-positive limit, got %d", len(all))
	}
}

func TestUseCase_LogDefaultsToConfiguredTail(t *testing.T) {
	st := game.State{GameID: "g1"}
	for i := 0; i < 500; i++ {
		st.Log = append(st.Log, game.LogEntry{Text: fmt.Sprintf("line %d", i)})
	}
	table := stubTable{st: st}

	resp, err := UseCase{}.Log(context.Background(), Request{Table: table, Side: game.Corp})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(resp.Log) != DefaultLogLines {
		t.Fatalf("expected %d lines without limit, got %d", DefaultLogLines, len(resp.Log))
	}
	if got, want := resp.Log[len(resp.Log)-1], "line 499"; got != want {
		t.Fatalf("newest line mismatch: got=%q want=%q", got, want)
	}

	resp, err = UseCase{LogLines: 5}.Log(context.Background(), Request{Table: table, Side: game.Corp})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(resp.Log) != 5 {
		t.Fatalf("expected configured 5 lines, got %d", len(resp.Log))
	}

	resp, err = UseCase{LogLines: 5}.Log(context.Background(), Request{Table: table, Side: game.Corp, Limit: 50})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(resp.Log) != 50 {
		t.Fatalf("expected explicit limit of 50, got %d", len(resp.Log))
	}
}

func TestUseCase_PromptAndHand(t *testing.T) {
	uc := UseCase{}
	table := stubTable{st: secretState()}

	prompt, err := uc.Prompt(context.Background(), Request{Table: table, Side: game.Runner})
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if prompt.Prompt != nil {
		t.Fatalf("runner should have no prompt, got %+v", prompt.Prompt)
	}

	hand, err := uc.Hand(context.Background(), Request{Table: table, Side: game.Runner})
	if err != nil {
		t.Fatalf("hand: %v", err)
	}
	if len(hand.Hand) != 1 || hand.Hand[0].Title != "Sure Gamble" {
		t.Fatalf("unexpected runner hand: %+v", hand.Hand)
	}
}

func TestUseCase_ActionsIdempotent(t *testing.T) {
	uc := UseCase{}
	table := stubTable{st: secretState()}
	req := Request{Table: table, Side: game.Runner}

	first, err := uc.Actions(context.Background(), req)
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	second, err := uc.Actions(context.Background(), req)
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("actions differ between calls: %s vs %s", a, b)
	}
}

func TestUseCase_RejectsMissingTableOrSide(t *testing.T) {
	uc := UseCase{}
	if _, err := uc.State(context.Background(), Request{Side: game.Corp}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := uc.Log(context.Background(), Request{Table: stubTable{}}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func secretState() game.State {
	return game.State{
		GameID:       "g1",
		Turn:         3,
		ActivePlayer: game.Runner,
		Corp: game.SideState{
			Player:   game.Player{Username: game.AgentUsername, WebhookURL: "https://hooks.example/agent", APIKey: "agent-api-key"},
			Identity: game.Card{CID: "id-c", Title: "Haas-Bioroid", Type: game.TypeIdentity},
			Credits:  7,
			Hand: []game.Card{
				{CID: "h1", Title: "SECRET-HAND-1", Type: game.TypeAgenda},
				{CID: "h2", Title: "SECRET-HAND-2", Type: game.TypeOperation},
			},
			Deck: []game.Card{
				{CID: "d1", Title: "SECRET-DECK-1"},
				{CID: "d2", Title: "SECRET-DECK-2"},
				{CID: "d3", Title: "SECRET-DECK-3"},
			},
			Discard: []game.Card{
				{CID: "a1", Title: "SECRET-ARCHIVES"},
				{CID: "a2", Title: "Hedge Fund", Seen: true},
			},
			Prompt: &game.Prompt{Msg: "Rez?", Type: "choice", Choices: []game.Choice{{UUID: "u1", Value: "Done"}}},
		},
		Runner: game.SideState{
			Player:   game.Player{Username: "bob"},
			Identity: game.Card{CID: "id-r", Title: "Kate", Type: game.TypeIdentity},
			Clicks:   3,
			Hand:     []game.Card{{CID: "r1", Title: "Sure Gamble", Type: game.TypeEvent, Playable: true}},
			Rig: game.Rig{
				Program:  []game.Card{{CID: "p1", Title: "Corroder", Type: game.TypeProgram}},
				Facedown: []game.Card{{CID: "f1", Title: "SECRET-FACEDOWN", Facedown: true}},
			},
		},
		Servers: map[string]game.Server{
			"hq": {Ices: []game.Card{
				{CID: "ice-1", Title: "SECRET-ICE", Type: game.TypeICE, Zone: []string{"servers", "hq", "ices"}, Advancements: 1},
				{CID: "ice-2", Title: "Enigma", Type: game.TypeICE, Rezzed: true},
			}},
		},
		Run:        &game.Run{Server: []string{"hq"}, Position: 1, Phase: "encounter-ice", NoAction: true},
		Encounters: []game.Card{{CID: "ice-2", Title: "Enigma", Type: game.TypeICE, Rezzed: true}},
		Log:        []game.LogEntry{{Text: "bob makes a run on HQ."}},
	}
}

type stubTable struct {
	st game.State
}

func (s stubTable) ID() string           { return s.st.GameID }
func (s stubTable) Snapshot() game.State { return s.st.Clone() }
func (s stubTable) Dispatch(context.Context, game.Side, string, map[string]any) error {
	return nil
}
