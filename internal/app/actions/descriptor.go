package actions

import "agentbridge/internal/domain/game"

type Kind string

const (
	KindPrompt     Kind = "prompt"
	KindPhaseStart Kind = "phase-start"
	KindWaiting    Kind = "waiting"
	KindRunDefend  Kind = "run-defend"
	KindRunAttack  Kind = "run-attack"
	KindMain       Kind = "main"
	KindEndTurn    Kind = "end-turn"
)

type Descriptor struct {
	Kind             Kind        `json:"kind"`
	CanAct           bool        `json:"canAct"`
	Prompt           *PromptView `json:"prompt,omitempty"`
	Commands         []string    `json:"commands,omitempty"`
	RunInfo          *RunInfo    `json:"runInfo,omitempty"`
	Clicks           *int        `json:"clicks,omitempty"`
	Credits          *int        `json:"credits,omitempty"`
	BasicActions     []string    `json:"basicActions,omitempty"`
	PlayableCards    []CardRef   `json:"playableCards,omitempty"`
	InstallableCards []CardRef   `json:"installableCards,omitempty"`
}

type RunInfo struct {
	Server   []string `json:"server"`
	Position int      `json:"position"`
	Phase    string   `json:"phase"`
}

type CardRef struct {
	CID   string `json:"cid"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
	Cost  int    `json:"cost"`
}

type ChoiceView struct {
	UUID  string   `json:"uuid"`
	Idx   int      `json:"idx"`
	Value string   `json:"value,omitempty"`
	Card  *CardRef `json:"card,omitempty"`
}

type PromptView struct {
	Message    string       `json:"message"`
	PromptType string       `json:"promptType"`
	Choices    []ChoiceView `json:"choices"`
	Card       *CardRef     `json:"card,omitempty"`
	Selectable []string     `json:"selectable,omitempty"`
	EID        string       `json:"eid,omitempty"`
}

func FormatPrompt(p *game.Prompt) *PromptView {
	if p == nil {
		return nil
	}
	out := &PromptView{
		Message:    p.Msg,
		PromptType: p.Type,
		Choices:    make([]ChoiceView, 0, len(p.Choices)),
		Selectable: append([]string(nil), p.Selectable...),
		EID:        p.EID,
	}
	if p.Card != nil {
		ref := RefOf(*p.Card)
		out.Card = &ref
	}
	for _, c := range p.Choices {
		cv := ChoiceView{UUID: c.UUID, Idx: c.Idx, Value: c.Value}
		if c.Card != nil {
			ref := RefOf(*c.Card)
			cv.Card = &ref
		}
		out.Choices = append(out.Choices, cv)
	}
	return out
}

func RefOf(c game.Card) CardRef {
	return CardRef{CID: c.CID, Title: c.Title, Type: c.Type, Cost: c.Cost}
}
