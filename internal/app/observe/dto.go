package observe

import (
	"agentbridge/internal/app/actions"
	"agentbridge/internal/domain/game"
)

type Request struct {
	Table game.Table
	Side  game.Side
	Limit int
}

type CardView struct {
	CID          string   `json:"cid"`
	Title        string   `json:"title,omitempty"`
	Type         string   `json:"type,omitempty"`
	Zone         []string `json:"zone,omitempty"`
	Cost         int      `json:"cost,omitempty"`
	Rezzed       bool     `json:"rezzed,omitempty"`
	Advancements int      `json:"advancements,omitempty"`
	AgendaPoints int      `json:"agendaPoints,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
}

type RigView struct {
	Hardware []CardView `json:"hardware"`
	Program  []CardView `json:"program"`
	Resource []CardView `json:"resource"`
	Facedown []CardView `json:"facedown"`
}

type OwnState struct {
	Username     string              `json:"username"`
	Identity     CardView            `json:"identity"`
	Clicks       int                 `json:"clicks"`
	Credits      int                 `json:"credits"`
	Tags         int                 `json:"tags"`
	BadPublicity int                 `json:"badPublicity"`
	Hand         []CardView          `json:"hand"`
	HandCount    int                 `json:"handCount"`
	DeckCount    int                 `json:"deckCount"`
	Discard      []CardView          `json:"discard"`
	Scored       []CardView          `json:"scored"`
	AgendaPoints int                 `json:"agendaPoints"`
	Rig          *RigView            `json:"rig,omitempty"`
	Prompt       *actions.PromptView `json:"prompt"`
}

// OpponentState carries only counts for the opponent's hidden zones.
type OpponentState struct {
	Username     string     `json:"username"`
	Identity     CardView   `json:"identity"`
	Clicks       int        `json:"clicks"`
	Credits      int        `json:"credits"`
	Tags         int        `json:"tags"`
	BadPublicity int        `json:"badPublicity"`
	HandCount    int        `json:"handCount"`
	DeckCount    int        `json:"deckCount"`
	Discard      []CardView `json:"discard"`
	Scored       []CardView `json:"scored"`
	AgendaPoints int        `json:"agendaPoints"`
	Rig          *RigView   `json:"rig,omitempty"`
}

type RunSummary struct {
	Server   []string `json:"server"`
	Position int      `json:"position"`
	Phase    string   `json:"phase"`
	NoAction bool     `json:"noAction"`
}

type SideView struct {
	GameID           string             `json:"gameid"`
	Turn             int                `json:"turn"`
	ActivePlayer     game.Side          `json:"activePlayer"`
	Phase            string             `json:"phase"`
	AgentSide        game.Side          `json:"agentSide"`
	AgentState       OwnState           `json:"agentState"`
	OpponentState    OpponentState      `json:"opponentState"`
	Run              *RunSummary        `json:"run"`
	AvailableActions actions.Descriptor `json:"availableActions"`
	Log              []string           `json:"log"`
}

type PromptResponse struct {
	Prompt *actions.PromptView `json:"prompt"`
	Side   game.Side           `json:"side"`
}

type ActionsResponse struct {
	Actions actions.Descriptor `json:"actions"`
	Side    game.Side          `json:"side"`
}

type ServerView struct {
	Content []CardView `json:"content"`
	Ices    []CardView `json:"ices"`
}

type BoardResponse struct {
	Servers map[string]ServerView `json:"servers"`
	Rig     RigView               `json:"rig"`
	Side    game.Side             `json:"side"`
}

type ScoreArea struct {
	Scored       []CardView `json:"scored"`
	AgendaPoints int        `json:"agendaPoints"`
}

type ScoredResponse struct {
	Corp   ScoreArea `json:"corp"`
	Runner ScoreArea `json:"runner"`
}

type RunResponse struct {
	Run        *RunSummary `json:"run"`
	Encounters []CardView  `json:"encounters"`
}

type HandResponse struct {
	Hand []CardView `json:"hand"`
	Side game.Side  `json:"side"`
}

type LogResponse struct {
	Log []string `json:"log"`
}
