package action

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agentbridge/internal/app/actions"
	"agentbridge/internal/app/ports"
	"agentbridge/internal/domain/game"

	"github.com/charmbracelet/log"
)

var (
	ErrInvalidRequest = errors.New("invalid action request")
	ErrActionFailed   = errors.New("action failed")
)

// FailedError carries the rules engine's message for a rejected command.
type FailedError struct {
	Command string
	Err     error
}

func (e *FailedError) Error() string {
	if e.Err == nil {
		return "action failed: " + e.Command
	}
	return e.Err.Error()
}

func (e *FailedError) Unwrap() error { return e.Err }

func (e *FailedError) Is(target error) bool { return target == ErrActionFailed }

var errNoPrompt = errors.New("no open prompt")

type UseCase struct {
	Metrics ports.CommandMetrics
	Logger  *log.Logger
}

// Execute forwards command to the rules engine as side. The side always
// comes from the caller's resolved grant, never from args.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.Command = strings.TrimSpace(req.Command)
	if req.Table == nil || !req.Side.Valid() || req.Command == "" {
		return Response{}, ErrInvalidRequest
	}
	return u.forward(ctx, req.Table, req.Side, req.Command, copyArgs(req.Args))
}

func (u UseCase) Choice(ctx context.Context, req ChoiceRequest) (Response, error) {
	if req.Table == nil || !req.Side.Valid() {
		return Response{}, ErrInvalidRequest
	}
	choice, err := normalizeChoice(req.Choice)
	if err != nil {
		return Response{}, err
	}
	st := req.Table.Snapshot()
	prompt := st.SideState(req.Side).Prompt
	if prompt == nil {
		u.recordFailure(game.CmdChoice)
		return Response{}, &FailedError{Command: game.CmdChoice, Err: errNoPrompt}
	}
	args := map[string]any{"choice": choice}
	if prompt.EID != "" {
		args["eid"] = prompt.EID
	}
	return u.forward(ctx, req.Table, req.Side, game.CmdChoice, args)
}

func (u UseCase) Select(ctx context.Context, req SelectRequest) (Response, error) {
	req.CID = strings.TrimSpace(req.CID)
	if req.Table == nil || !req.Side.Valid() || req.CID == "" {
		return Response{}, ErrInvalidRequest
	}
	args := map[string]any{"card": map[string]any{"cid": req.CID}}
	st := req.Table.Snapshot()
	if prompt := st.SideState(req.Side).Prompt; prompt != nil && prompt.EID != "" {
		args["eid"] = prompt.EID
	}
	return u.forward(ctx, req.Table, req.Side, game.CmdSelect, args)
}

func (u UseCase) forward(ctx context.Context, table game.Table, side game.Side, command string, args map[string]any) (Response, error) {
	if err := dispatch(ctx, table, side, command, args); err != nil {
		u.recordFailure(command)
		if u.Logger != nil {
			u.Logger.Warn("command rejected", "game", table.ID(), "side", side, "command", command, "err", err)
		}
		return Response{}, &FailedError{Command: command, Err: err}
	}
	if u.Metrics != nil {
		u.Metrics.RecordCommandSuccess(command)
	}
	return Response{
		Success:          true,
		Command:          command,
		Side:             side,
		AvailableActions: actions.Available(table.Snapshot(), side),
	}, nil
}

func (u UseCase) recordFailure(command string) {
	if u.Metrics != nil {
		u.Metrics.RecordCommandFailure(command)
	}
}

// dispatch turns a panicking engine into an ordinary error so that a bad
// command never takes down the request goroutine.
func dispatch(ctx context.Context, table game.Table, side game.Side, command string, args map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return table.Dispatch(ctx, side, command, args)
}

func normalizeChoice(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, ErrInvalidRequest
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, ErrInvalidRequest
		}
		return v, nil
	case map[string]any:
		id, _ := v["uuid"].(string)
		if strings.TrimSpace(id) == "" {
			return nil, ErrInvalidRequest
		}
		return map[string]any{"uuid": id}, nil
	default:
		return v, nil
	}
}

func copyArgs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
