package game

// AgentUsername is the reserved owner name of a synthetic agent player.
const AgentUsername = "__agent__"

type Player struct {
	Username   string
	Agent      bool
	Controller string
	WebhookURL string
	APIKey     string
}

type Card struct {
	CID          string
	Title        string
	Type         string
	Side         Side
	Zone         []string
	Cost         int
	Playable     bool
	Rezzed       bool
	Facedown     bool
	Seen         bool
	Advancements int
	AgendaPoints int
}

type Choice struct {
	UUID  string
	Idx   int
	Value string
	Card  *Card
}

type Prompt struct {
	Msg        string
	Type       string
	Choices    []Choice
	Card       *Card
	Selectable []string
	EID        string
}

func (p *Prompt) ChoiceByUUID(uuid string) (Choice, bool) {
	if p == nil {
		return Choice{}, false
	}
	for _, c := range p.Choices {
		if c.UUID == uuid {
			return c, true
		}
	}
	return Choice{}, false
}

type Rig struct {
	Hardware []Card
	Program  []Card
	Resource []Card
	Facedown []Card
}

type SideState struct {
	Player       Player
	Identity     Card
	Clicks       int
	Credits      int
	Tags         int
	BadPublicity int
	Hand         []Card
	Deck         []Card
	Discard      []Card
	Scored       []Card
	AgendaPoints int
	Rig          Rig
	Prompt       *Prompt
}

type Server struct {
	Content []Card
	Ices    []Card
}

// Run is the single game-wide run in progress. The runner is always the attacker.
type Run struct {
	Server    []string
	Position  int
	Phase     string
	NoAction  bool
	NextPhase string
}

func (r *Run) Attacker() Side { return Runner }
func (r *Run) Defender() Side { return Corp }

type LogEntry struct {
	User string
	Text string
}

type State struct {
	GameID        string
	Turn          int
	ActivePlayer  Side
	Corp          SideState
	Runner        SideState
	CorpPhase12   bool
	RunnerPhase12 bool
	Servers       map[string]Server
	Run           *Run
	Encounters    []Card
	Log           []LogEntry
	Winner        Side
	Reason        string
}

func (s *State) SideState(side Side) *SideState {
	switch side {
	case Corp:
		return &s.Corp
	case Runner:
		return &s.Runner
	default:
		return nil
	}
}

func (s *State) PhaseStartPending(side Side) bool {
	switch side {
	case Corp:
		return s.CorpPhase12
	case Runner:
		return s.RunnerPhase12
	default:
		return false
	}
}

// Clone returns a deep copy so that snapshots never alias the engine's live state.
func (s State) Clone() State {
	out := s
	out.Corp = s.Corp.clone()
	out.Runner = s.Runner.clone()
	if s.Servers != nil {
		out.Servers = make(map[string]Server, len(s.Servers))
		for name, srv := range s.Servers {
			out.Servers[name] = Server{Content: cloneCards(srv.Content), Ices: cloneCards(srv.Ices)}
		}
	}
	if s.Run != nil {
		r := *s.Run
		r.Server = append([]string(nil), s.Run.Server...)
		out.Run = &r
	}
	out.Encounters = cloneCards(s.Encounters)
	out.Log = append([]LogEntry(nil), s.Log...)
	return out
}

func (s SideState) clone() SideState {
	out := s
	out.Identity = cloneCard(s.Identity)
	out.Hand = cloneCards(s.Hand)
	out.Deck = cloneCards(s.Deck)
	out.Discard = cloneCards(s.Discard)
	out.Scored = cloneCards(s.Scored)
	out.Rig = Rig{
		Hardware: cloneCards(s.Rig.Hardware),
		Program:  cloneCards(s.Rig.Program),
		Resource: cloneCards(s.Rig.Resource),
		Facedown: cloneCards(s.Rig.Facedown),
	}
	if s.Prompt != nil {
		p := *s.Prompt
		p.Choices = make([]Choice, len(s.Prompt.Choices))
		for i, c := range s.Prompt.Choices {
			p.Choices[i] = c
			if c.Card != nil {
				cc := cloneCard(*c.Card)
				p.Choices[i].Card = &cc
			}
		}
		if s.Prompt.Card != nil {
			cc := cloneCard(*s.Prompt.Card)
			p.Card = &cc
		}
		p.Selectable = append([]string(nil), s.Prompt.Selectable...)
		out.Prompt = &p
	}
	return out
}

func cloneCard(c Card) Card {
	c.Zone = append([]string(nil), c.Zone...)
	return c
}

func cloneCards(in []Card) []Card {
	if in == nil {
		return nil
	}
	out := make([]Card, len(in))
	for i, c := range in {
		out[i] = cloneCard(c)
	}
	return out
}
