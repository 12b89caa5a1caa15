package observe

import "agentbridge/internal/domain/game"

func fullCard(c game.Card) CardView {
	return CardView{
		CID:          c.CID,
		Title:        c.Title,
		Type:         c.Type,
		Zone:         append([]string(nil), c.Zone...),
		Cost:         c.Cost,
		Rezzed:       c.Rezzed,
		Advancements: c.Advancements,
		AgendaPoints: c.AgendaPoints,
	}
}

func fullCards(in []game.Card) []CardView {
	out := make([]CardView, 0, len(in))
	for _, c := range in {
		out = append(out, fullCard(c))
	}
	return out
}

// hiddenCard keeps only what the board position itself reveals.
func hiddenCard(c game.Card) CardView {
	return CardView{
		CID:          c.CID,
		Zone:         append([]string(nil), c.Zone...),
		Advancements: c.Advancements,
		Hidden:       true,
	}
}

// visibleTo reports whether viewer may see the face of a card owned by owner.
// Corp cards are face down until rezzed or seen; runner cards until turned face up.
func visibleTo(c game.Card, owner, viewer game.Side) bool {
	if owner == viewer {
		return true
	}
	switch owner {
	case game.Corp:
		return c.Rezzed || c.Seen
	case game.Runner:
		return !c.Facedown
	default:
		return false
	}
}

func redactCards(in []game.Card, owner, viewer game.Side) []CardView {
	out := make([]CardView, 0, len(in))
	for _, c := range in {
		if visibleTo(c, owner, viewer) {
			out = append(out, fullCard(c))
			continue
		}
		out = append(out, hiddenCard(c))
	}
	return out
}

func facedownCards(in []game.Card, owner, viewer game.Side) []CardView {
	if owner == viewer {
		return fullCards(in)
	}
	out := make([]CardView, 0, len(in))
	for _, c := range in {
		out = append(out, hiddenCard(c))
	}
	return out
}
