package game

import "context"

// Table is the handle on a game owned by the rules engine. Snapshot never
// returns memory shared with the engine; Dispatch is the only write path.
type Table interface {
	ID() string
	Snapshot() State
	Dispatch(ctx context.Context, side Side, command string, args map[string]any) error
}

// Command names understood by the rules engine.
const (
	CmdCredit       = "credit"
	CmdDraw         = "draw"
	CmdPurge        = "purge"
	CmdRemoveTag    = "remove-tag"
	CmdPlay         = "play"
	CmdAbility      = "ability"
	CmdAdvance      = "advance"
	CmdRun          = "run"
	CmdContinue     = "continue"
	CmdJackOut      = "jack-out"
	CmdStartTurn    = "start-turn"
	CmdEndTurn      = "end-turn"
	CmdEndPhase     = "end-phase-12"
	CmdPassPriority = "pass-priority"
	CmdChoice       = "choice"
	CmdSelect       = "select"
)

// Card types as reported by the rules engine.
const (
	TypeAgenda    = "Agenda"
	TypeAsset     = "Asset"
	TypeICE       = "ICE"
	TypeUpgrade   = "Upgrade"
	TypeOperation = "Operation"
	TypeHardware  = "Hardware"
	TypeProgram   = "Program"
	TypeResource  = "Resource"
	TypeEvent     = "Event"
	TypeIdentity  = "Identity"
)
