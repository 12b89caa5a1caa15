package sandbox

import (
	"errors"
	"fmt"
	"slices"

	"agentbridge/internal/domain/game"

	"github.com/google/uuid"
)

type promptKind int

const (
	promptAbility promptKind = iota
	promptAdvance
)

type pendingPrompt struct {
	kind promptKind
	side game.Side
	cid  string
}

const (
	choiceCredit = "Gain 1 credit"
	choiceDraw   = "Draw 1 card"
	choiceCancel = "Cancel"
)

// ability uses an installed card's click ability, which asks its owner how
// to resolve it.
func (t *Table) ability(side game.Side, args map[string]any) error {
	cid := cardArg(args)
	c, ok := t.installedCard(side, cid)
	if !ok {
		return fmt.Errorf("card %s is not installed", cid)
	}
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	prompt := &game.Prompt{
		Msg:  fmt.Sprintf("Resolve %s", c.Title),
		Type: "select",
		Card: &c,
		Choices: []game.Choice{
			{UUID: uuid.NewString(), Idx: 0, Value: choiceCredit},
			{UUID: uuid.NewString(), Idx: 1, Value: choiceDraw},
		},
	}
	t.openPrompt(side, prompt, pendingPrompt{kind: promptAbility, side: side, cid: cid})
	t.logf(side, "uses %s", c.Title)
	return nil
}

// advance places an advancement token. Without a card it asks the corp to
// select one of its installed cards.
func (t *Table) advance(side game.Side, args map[string]any) error {
	if side != game.Corp {
		return errors.New("only the corp can advance")
	}
	if t.st.Corp.Credits < 1 {
		return ErrNotEnoughMoney
	}
	cid := cardArg(args)
	if cid == "" {
		targets := t.advanceable()
		if len(targets) == 0 {
			return errors.New("nothing to advance")
		}
		if err := t.spendClick(side, 1); err != nil {
			return err
		}
		t.st.Corp.Credits--
		t.openPrompt(side, &game.Prompt{
			Msg:        "Select a card to advance",
			Type:       "select",
			Selectable: targets,
			Choices:    []game.Choice{{UUID: uuid.NewString(), Idx: 0, Value: choiceCancel}},
		}, pendingPrompt{kind: promptAdvance, side: side})
		return nil
	}
	if !slices.Contains(t.advanceable(), cid) {
		return fmt.Errorf("card %s cannot be advanced", cid)
	}
	if err := t.spendClick(side, 1); err != nil {
		return err
	}
	t.st.Corp.Credits--
	t.placeAdvancement(cid)
	return nil
}

func (t *Table) advanceable() []string {
	var out []string
	for _, name := range sortedServers(t.st.Servers) {
		for _, c := range t.st.Servers[name].Content {
			if c.Type == game.TypeAgenda || c.Type == game.TypeAsset {
				out = append(out, c.CID)
			}
		}
	}
	return out
}

func (t *Table) placeAdvancement(cid string) {
	for name, srv := range t.st.Servers {
		for i, c := range srv.Content {
			if c.CID != cid {
				continue
			}
			c.Advancements++
			t.logf(game.Corp, "advances a card in %s", name)
			if c.Type == game.TypeAgenda && c.Advancements >= advancesToScore {
				srv.Content = append(srv.Content[:i], srv.Content[i+1:]...)
				t.st.Servers[name] = srv
				t.score(game.Corp, c)
				t.checkWinner()
				return
			}
			srv.Content[i] = c
			return
		}
	}
}

func (t *Table) openPrompt(side game.Side, prompt *game.Prompt, pending pendingPrompt) {
	prompt.EID = uuid.NewString()
	t.st.SideState(side).Prompt = prompt
	t.pending[prompt.EID] = pending
}

func (t *Table) closePrompt(side game.Side) pendingPrompt {
	ss := t.st.SideState(side)
	p := t.pending[ss.Prompt.EID]
	delete(t.pending, ss.Prompt.EID)
	ss.Prompt = nil
	return p
}

func (t *Table) choose(side game.Side, args map[string]any) error {
	prompt := t.st.SideState(side).Prompt
	if prompt == nil {
		return errors.New("no open prompt")
	}
	if eid := stringArg(args, "eid"); eid != "" && eid != prompt.EID {
		return errors.New("prompt has changed")
	}
	choice, ok := resolveChoice(prompt, args["choice"])
	if !ok {
		return errors.New("invalid choice")
	}
	pending := t.closePrompt(side)
	ss := t.st.SideState(side)
	switch {
	case choice.Value == choiceCancel:
		t.logf(side, "cancels")
	case pending.kind == promptAbility && choice.Value == choiceCredit:
		ss.Credits++
		t.logf(side, "gains 1 credit")
	case pending.kind == promptAbility && choice.Value == choiceDraw:
		if len(ss.Deck) > 0 {
			t.moveTopOfDeck(side)
		}
		t.logf(side, "draws 1 card")
	}
	return nil
}

func (t *Table) selectCard(side game.Side, args map[string]any) error {
	prompt := t.st.SideState(side).Prompt
	if prompt == nil {
		return errors.New("no open prompt")
	}
	if eid := stringArg(args, "eid"); eid != "" && eid != prompt.EID {
		return errors.New("prompt has changed")
	}
	cid := cardArg(args)
	if !slices.Contains(prompt.Selectable, cid) {
		return fmt.Errorf("card %s is not selectable", cid)
	}
	if pending := t.closePrompt(side); pending.kind == promptAdvance {
		t.placeAdvancement(cid)
	}
	return nil
}

// resolveChoice accepts a choice uuid, {"uuid": ...}, a choice value or an index.
func resolveChoice(p *game.Prompt, raw any) (game.Choice, bool) {
	switch v := raw.(type) {
	case map[string]any:
		id, _ := v["uuid"].(string)
		return p.ChoiceByUUID(id)
	case string:
		if c, ok := p.ChoiceByUUID(v); ok {
			return c, true
		}
		for _, c := range p.Choices {
			if c.Value == v {
				return c, true
			}
		}
	case float64:
		return choiceAt(p, int(v))
	case int:
		return choiceAt(p, v)
	}
	return game.Choice{}, false
}

func choiceAt(p *game.Prompt, idx int) (game.Choice, bool) {
	for _, c := range p.Choices {
		if c.Idx == idx {
			return c, true
		}
	}
	return game.Choice{}, false
}

func (t *Table) installedCard(side game.Side, cid string) (game.Card, bool) {
	if cid == "" {
		return game.Card{}, false
	}
	var pool []game.Card
	if side == game.Corp {
		for _, srv := range t.st.Servers {
			pool = append(pool, srv.Content...)
			pool = append(pool, srv.Ices...)
		}
	} else {
		rig := t.st.Runner.Rig
		pool = append(pool, rig.Hardware...)
		pool = append(pool, rig.Program...)
		pool = append(pool, rig.Resource...)
	}
	if i := indexOf(pool, cid); i >= 0 {
		return pool[i], true
	}
	return game.Card{}, false
}
