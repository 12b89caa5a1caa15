package sandbox

import (
	"errors"
	"fmt"

	"agentbridge/internal/domain/game"
)

const (
	phaseInitiation = "initiation"
	phaseApproach   = "approach-ice"
	phaseEncounter  = "encounter-ice"
	phaseAccess     = "access"
)

func (t *Table) startRun(side game.Side, args map[string]any) error {
	if side != game.Runner {
		return errors.New("only the runner can run")
	}
	server := stringArg(args, "server")
	if server == "" {
		return errors.New("run needs a server")
	}
	srv, ok := t.st.Servers[server]
	if !ok {
		return fmt.Errorf("unknown server %s", server)
	}
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	t.st.Run = &game.Run{
		Server:   []string{server},
		Position: len(srv.Ices),
		Phase:    phaseInitiation,
	}
	t.logf(side, "makes a run on %s", server)
	t.emit(event{kind: evRunStarted})
	return nil
}

// continueRun moves the run one step inward. Rezzed ice is encountered
// before it is passed; unrezzed ice is passed straight away.
func (t *Table) continueRun(side game.Side, _ map[string]any) error {
	run := t.st.Run
	if run == nil || side != run.Attacker() {
		return errors.New("no run to continue")
	}
	switch {
	case run.Phase == phaseEncounter:
		t.st.Encounters = nil
		run.Position--
		run.Phase = phaseApproach
	case run.Position == 0:
		run.Phase = phaseAccess
		t.access(run.Server[0])
		t.endRun(true)
	default:
		ice := t.st.Servers[run.Server[0]].Ices[run.Position-1]
		if ice.Rezzed {
			run.Phase = phaseEncounter
			t.st.Encounters = []game.Card{ice}
		} else {
			run.Position--
			run.Phase = phaseApproach
		}
	}
	return nil
}

func (t *Table) jackOut(side game.Side, _ map[string]any) error {
	if t.st.Run == nil || side != t.st.Run.Attacker() {
		return errors.New("no run to jack out of")
	}
	t.logf(side, "jacks out")
	t.endRun(false)
	return nil
}

func (t *Table) endRun(successful bool) {
	t.st.Run = nil
	t.st.Encounters = nil
	t.emit(event{kind: evRunEnded, successful: successful})
}

// access steals every agenda in the server and reveals the rest.
func (t *Table) access(server string) {
	t.logf(game.Runner, "accesses %s", server)
	if server == "hq" {
		for i := range t.st.Corp.Hand {
			t.st.Corp.Hand[i].Seen = true
		}
		return
	}
	if server == "rd" {
		if len(t.st.Corp.Deck) > 0 {
			t.st.Corp.Deck[0].Seen = true
		}
		return
	}
	srv := t.st.Servers[server]
	kept := srv.Content[:0]
	for _, c := range srv.Content {
		if c.Type == game.TypeAgenda {
			t.score(game.Runner, c)
			continue
		}
		c.Seen = true
		kept = append(kept, c)
	}
	srv.Content = kept
	t.st.Servers[server] = srv
	t.checkWinner()
}

func (t *Table) score(side game.Side, c game.Card) {
	ss := t.st.SideState(side)
	c.Zone = []string{"scored"}
	c.Rezzed = true
	ss.Scored = append(ss.Scored, c)
	ss.AgendaPoints += c.AgendaPoints
	t.logf(side, "scores %s", c.Title)
}
