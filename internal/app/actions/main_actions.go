package actions

import "agentbridge/internal/domain/game"

var playableTypes = map[game.Side]map[string]bool{
	game.Corp:   {game.TypeOperation: true},
	game.Runner: {game.TypeEvent: true},
}

var installableTypes = map[game.Side]map[string]bool{
	game.Corp:   {game.TypeAgenda: true, game.TypeAsset: true, game.TypeICE: true, game.TypeUpgrade: true},
	game.Runner: {game.TypeHardware: true, game.TypeProgram: true, game.TypeResource: true},
}

func mainDescriptor(st game.State, side game.Side) Descriptor {
	ss := st.SideState(side)
	clicks := ss.Clicks
	credits := ss.Credits
	return Descriptor{
		Kind:             KindMain,
		CanAct:           true,
		Clicks:           &clicks,
		Credits:          &credits,
		BasicActions:     basicActions(side, *ss),
		PlayableCards:    handCardsOfType(ss.Hand, playableTypes[side]),
		InstallableCards: handCardsOfType(ss.Hand, installableTypes[side]),
	}
}

func basicActions(side game.Side, ss game.SideState) []string {
	out := []string{game.CmdCredit, game.CmdDraw}
	switch side {
	case game.Corp:
		out = append(out, game.CmdPurge)
	case game.Runner:
		if ss.Tags > 0 {
			out = append(out, game.CmdRemoveTag)
		}
	}
	return out
}

// handCardsOfType keeps hand cards the rules engine flagged as playable and
// whose type is in types. Legality beyond that flag is the engine's concern.
func handCardsOfType(hand []game.Card, types map[string]bool) []CardRef {
	var out []CardRef
	for _, c := range hand {
		if !c.Playable || !types[c.Type] {
			continue
		}
		out = append(out, RefOf(c))
	}
	return out
}
