package observe

import (
	"context"
	"errors"

	"agentbridge/internal/app/actions"
)

var ErrInvalidRequest = errors.New("invalid observe request")

type UseCase struct {
	LogLines int
}

func (u UseCase) State(_ context.Context, req Request) (SideView, error) {
	if err := validate(req); err != nil {
		return SideView{}, err
	}
	return Project(req.Table.Snapshot(), req.Side, u.logLines(0)), nil
}

func (u UseCase) Prompt(_ context.Context, req Request) (PromptResponse, error) {
	if err := validate(req); err != nil {
		return PromptResponse{}, err
	}
	st := req.Table.Snapshot()
	return PromptResponse{
		Prompt: actions.FormatPrompt(st.SideState(req.Side).Prompt),
		Side:   req.Side,
	}, nil
}

func (u UseCase) Actions(_ context.Context, req Request) (ActionsResponse, error) {
	if err := validate(req); err != nil {
		return ActionsResponse{}, err
	}
	return ActionsResponse{
		Actions: actions.Available(req.Table.Snapshot(), req.Side),
		Side:    req.Side,
	}, nil
}

func (u UseCase) Board(_ context.Context, req Request) (BoardResponse, error) {
	if err := validate(req); err != nil {
		return BoardResponse{}, err
	}
	return Board(req.Table.Snapshot(), req.Side), nil
}

func (u UseCase) Scored(_ context.Context, req Request) (ScoredResponse, error) {
	if err := validate(req); err != nil {
		return ScoredResponse{}, err
	}
	return Scored(req.Table.Snapshot()), nil
}

func (u UseCase) Run(_ context.Context, req Request) (RunResponse, error) {
	if err := validate(req); err != nil {
		return RunResponse{}, err
	}
	return RunState(req.Table.Snapshot(), req.Side), nil
}

func (u UseCase) Hand(_ context.Context, req Request) (HandResponse, error) {
	if err := validate(req); err != nil {
		return HandResponse{}, err
	}
	st := req.Table.Snapshot()
	return HandResponse{Hand: fullCards(st.SideState(req.Side).Hand), Side: req.Side}, nil
}

func (u UseCase) Log(_ context.Context, req Request) (LogResponse, error) {
	if err := validate(req); err != nil {
		return LogResponse{}, err
	}
	return LogResponse{Log: LogTail(req.Table.Snapshot().Log, u.logLines(req.Limit))}, nil
}

// logLines picks limit when positive, else the configured tail length.
func (u UseCase) logLines(limit int) int {
	if limit > 0 {
		return limit
	}
	if u.LogLines > 0 {
		return u.LogLines
	}
	return DefaultLogLines
}

func validate(req Request) error {
	if req.Table == nil || !req.Side.Valid() {
		return ErrInvalidRequest
	}
	return nil
}
