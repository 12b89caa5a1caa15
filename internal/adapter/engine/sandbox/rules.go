package sandbox

import (
	"errors"
	"fmt"

	"agentbridge/internal/app/agent"
	"agentbridge/internal/domain/game"
)

type handlerFunc func(t *Table, side game.Side, args map[string]any) error

var commands map[string]handlerFunc

func init() {
	commands = map[string]handlerFunc{
		game.CmdStartTurn:    (*Table).endPhase12,
		game.CmdEndPhase:     (*Table).endPhase12,
		game.CmdPassPriority: (*Table).endPhase12,
		game.CmdCredit:       (*Table).takeCredit,
		game.CmdDraw:         (*Table).drawCard,
		game.CmdPurge:        (*Table).purge,
		game.CmdRemoveTag:    (*Table).removeTag,
		game.CmdPlay:         (*Table).play,
		game.CmdAdvance:      (*Table).advance,
		game.CmdAbility:      (*Table).ability,
		game.CmdRun:          (*Table).startRun,
		game.CmdContinue:     (*Table).continueRun,
		game.CmdJackOut:      (*Table).jackOut,
		game.CmdEndTurn:      (*Table).endTurn,
		game.CmdChoice:       (*Table).choose,
		game.CmdSelect:       (*Table).selectCard,
	}
}

var handTypes = map[game.Side]map[string]bool{
	game.Corp: {
		game.TypeOperation: true, game.TypeAgenda: true, game.TypeAsset: true,
		game.TypeICE: true, game.TypeUpgrade: true,
	},
	game.Runner: {
		game.TypeEvent: true, game.TypeHardware: true, game.TypeProgram: true, game.TypeResource: true,
	},
}

func handTypeUsable(side game.Side, cardType string) bool {
	return handTypes[side][cardType]
}

func (t *Table) beginTurn(side game.Side) {
	t.st.ActivePlayer = side
	ss := t.st.SideState(side)
	if side == game.Corp {
		ss.Clicks = corpClicks
		t.st.CorpPhase12 = true
	} else {
		ss.Clicks = runnerClicks
		t.st.RunnerPhase12 = true
	}
	t.logf(side, "starts turn %d", t.st.Turn)
}

func (t *Table) endPhase12(side game.Side, _ map[string]any) error {
	if !t.st.PhaseStartPending(side) {
		return errors.New("no start-of-turn phase pending")
	}
	if side == game.Corp {
		t.st.CorpPhase12 = false
		if len(t.st.Corp.Deck) == 0 {
			t.finish(game.Runner, "decked")
			return nil
		}
		t.moveTopOfDeck(side)
	} else {
		t.st.RunnerPhase12 = false
	}
	t.emit(event{kind: evTurnStarted})
	return nil
}

// spendClick validates that side may take a click action and charges it.
func (t *Table) spendClick(side game.Side, clicks int) error {
	if t.st.ActivePlayer != side {
		return ErrNotYourTurn
	}
	if t.st.PhaseStartPending(side) {
		return errors.New("start-of-turn phase pending")
	}
	if t.st.Run != nil {
		return errors.New("a run is in progress")
	}
	ss := t.st.SideState(side)
	if ss.Prompt != nil {
		return errors.New("resolve the open prompt first")
	}
	if ss.Clicks < clicks {
		return ErrNoClicks
	}
	ss.Clicks -= clicks
	return nil
}

func (t *Table) takeCredit(side game.Side, _ map[string]any) error {
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	t.st.SideState(side).Credits++
	t.logf(side, "takes 1 credit")
	return nil
}

func (t *Table) drawCard(side game.Side, _ map[string]any) error {
	if len(t.st.SideState(side).Deck) == 0 {
		return errors.New("deck is empty")
	}
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	t.moveTopOfDeck(side)
	t.logf(side, "draws 1 card")
	return nil
}

func (t *Table) moveTopOfDeck(side game.Side) {
	ss := t.st.SideState(side)
	c := ss.Deck[0]
	ss.Deck = ss.Deck[1:]
	c.Zone = []string{"hand"}
	ss.Hand = append(ss.Hand, c)
}

func (t *Table) purge(side game.Side, _ map[string]any) error {
	if side != game.Corp {
		return errors.New("only the corp can purge")
	}
	if err := t.spendClick(side, purgeClickCost); err != nil {
		return err
	}
	t.logf(side, "purges virus counters")
	return nil
}

func (t *Table) removeTag(side game.Side, _ map[string]any) error {
	ss := t.st.SideState(side)
	if side != game.Runner || ss.Tags == 0 {
		return errors.New("no tag to remove")
	}
	if ss.Credits < removeTagCredits {
		return ErrNotEnoughMoney
	}
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	ss.Credits -= removeTagCredits
	ss.Tags--
	t.logf(side, "removes 1 tag")
	return nil
}

// play plays an operation or event, or installs any other card from hand.
func (t *Table) play(side game.Side, args map[string]any) error {
	cid := cardArg(args)
	if cid == "" {
		return errors.New("play needs a card")
	}
	ss := t.st.SideState(side)
	idx := indexOf(ss.Hand, cid)
	if idx < 0 {
		return fmt.Errorf("card %s is not in hand", cid)
	}
	c := ss.Hand[idx]
	if !handTypeUsable(side, c.Type) {
		return fmt.Errorf("%s cannot be played", c.Title)
	}
	if c.Cost > ss.Credits {
		return ErrNotEnoughMoney
	}
	server := ""
	if isCorpInstall(c.Type) {
		var err error
		if server, err = t.installTarget(c.Type, stringArg(args, "server")); err != nil {
			return err
		}
	}
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	ss.Hand = append(ss.Hand[:idx], ss.Hand[idx+1:]...)
	ss.Credits -= c.Cost
	c.Playable = false

	switch {
	case c.Type == game.TypeOperation || c.Type == game.TypeEvent:
		c.Zone = []string{"discard"}
		ss.Discard = append(ss.Discard, c)
		t.logf(side, "plays %s", c.Title)
	case side == game.Corp:
		t.installCorp(c, server)
		t.logf(side, "installs a card in %s", server)
	default:
		t.installRunner(c)
		t.logf(side, "installs %s", c.Title)
	}
	return nil
}

func isCorpInstall(cardType string) bool {
	switch cardType {
	case game.TypeAgenda, game.TypeAsset, game.TypeICE, game.TypeUpgrade:
		return true
	}
	return false
}

// installTarget resolves where a corp card goes; agendas and assets only
// enter remote servers.
func (t *Table) installTarget(cardType, server string) (string, error) {
	if server == "" || server == "new" {
		return fmt.Sprintf("remote%d", t.remotes+1), nil
	}
	if _, ok := t.st.Servers[server]; !ok {
		return "", fmt.Errorf("unknown server %s", server)
	}
	if (cardType == game.TypeAgenda || cardType == game.TypeAsset) && isCentral(server) {
		return "", fmt.Errorf("cannot install into %s", server)
	}
	return server, nil
}

func isCentral(server string) bool {
	return server == "hq" || server == "rd" || server == "archives"
}

func (t *Table) installCorp(c game.Card, server string) {
	srv, ok := t.st.Servers[server]
	if !ok {
		t.remotes++
	}
	c.Rezzed = false
	if c.Type == game.TypeICE {
		c.Zone = []string{"servers", server, "ices"}
		srv.Ices = append(srv.Ices, c)
	} else {
		c.Zone = []string{"servers", server, "content"}
		srv.Content = append(srv.Content, c)
	}
	t.st.Servers[server] = srv
}

func (t *Table) installRunner(c game.Card) {
	rig := &t.st.Runner.Rig
	switch c.Type {
	case game.TypeHardware:
		c.Zone = []string{"rig", "hardware"}
		rig.Hardware = append(rig.Hardware, c)
	case game.TypeProgram:
		c.Zone = []string{"rig", "program"}
		rig.Program = append(rig.Program, c)
	default:
		c.Zone = []string{"rig", "resource"}
		rig.Resource = append(rig.Resource, c)
	}
}

func (t *Table) endTurn(side game.Side, _ map[string]any) error {
	if t.st.ActivePlayer != side {
		return ErrNotYourTurn
	}
	if t.st.PhaseStartPending(side) {
		return errors.New("start-of-turn phase pending")
	}
	if t.st.Run != nil {
		return errors.New("a run is in progress")
	}
	if t.st.SideState(side).Prompt != nil {
		return errors.New("resolve the open prompt first")
	}
	t.st.SideState(side).Clicks = 0
	t.logf(side, "ends turn")
	next := side.Opponent()
	if next == game.Corp {
		t.st.Turn++
	}
	if agentSide, ok := agent.Side(t.st); ok && agentSide == side {
		t.emit(event{kind: evWaiting, message: "waiting for opponent's turn"})
	}
	t.beginTurn(next)
	return nil
}
