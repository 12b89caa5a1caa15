package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"agentbridge/internal/app/action"
	"agentbridge/internal/app/auth"
	"agentbridge/internal/app/observe"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const agentKeyHeader = "X-Agent-Key"

type Handler struct {
	ResolveUC   auth.ResolveUseCase
	ObserveUC   observe.UseCase
	ActionUC    action.UseCase
	KPI         kpiSnapshotProvider
	CORSOrigins []string
	Logger      *log.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigins))

	agent := s.Group("/api/agent")
	agent.GET("/state", h.state)
	agent.GET("/prompt", h.prompt)
	agent.GET("/actions", h.actions)
	agent.GET("/board", h.board)
	agent.GET("/scored", h.scored)
	agent.GET("/run", h.run)
	agent.GET("/hand", h.hand)
	agent.GET("/log", h.logTail)
	agent.POST("/action", h.action)
	agent.POST("/choice", h.choice)
	agent.POST("/select", h.selectCard)

	s.GET("/ops/kpi", h.kpi)
}

type actionRequest struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args"`
}

type choiceRequest struct {
	Choice any `json:"choice"`
}

type selectRequest struct {
	Card struct {
		CID string `json:"cid"`
	} `json:"card"`
}

var errInvalidJSON = errors.New("invalid json")

// resolveGrant authenticates the caller and binds them to a game and side.
// On failure the error response has already been written.
func (h Handler) resolveGrant(c context.Context, ctx *app.RequestContext) (auth.Grant, bool) {
	grant, err := h.ResolveUC.Execute(c, auth.ResolveRequest{
		Credential: string(ctx.GetHeader(agentKeyHeader)),
	})
	if err != nil {
		h.writeError(ctx, err)
		return auth.Grant{}, false
	}
	return grant, true
}

func (h Handler) observeRequest(ctx *app.RequestContext, grant auth.Grant) observe.Request {
	limit, _ := strconv.Atoi(strings.TrimSpace(string(ctx.Query("limit"))))
	return observe.Request{Table: grant.Table, Side: grant.Side, Limit: limit}
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.State(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) prompt(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Prompt(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) actions(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Actions(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) board(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Board(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) scored(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Scored(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) run(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Run(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) hand(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Hand(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) logTail(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	resp, err := h.ObserveUC.Log(c, h.observeRequest(ctx, grant))
	h.respond(ctx, resp, err)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		h.writeError(ctx, err)
		return
	}
	resp, err := h.ActionUC.Execute(c, action.Request{
		Table:   grant.Table,
		Side:    grant.Side,
		Command: body.Command,
		Args:    body.Args,
	})
	h.respond(ctx, resp, err)
}

func (h Handler) choice(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	var body choiceRequest
	if err := decodeJSON(ctx, &body); err != nil {
		h.writeError(ctx, err)
		return
	}
	resp, err := h.ActionUC.Choice(c, action.ChoiceRequest{
		Table:  grant.Table,
		Side:   grant.Side,
		Choice: body.Choice,
	})
	h.respond(ctx, resp, err)
}

func (h Handler) selectCard(c context.Context, ctx *app.RequestContext) {
	grant, ok := h.resolveGrant(c, ctx)
	if !ok {
		return
	}
	var body selectRequest
	if err := decodeJSON(ctx, &body); err != nil {
		h.writeError(ctx, err)
		return
	}
	resp, err := h.ActionUC.Select(c, action.SelectRequest{
		Table: grant.Table,
		Side:  grant.Side,
		CID:   body.Card.CID,
	})
	h.respond(ctx, resp, err)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) respond(ctx *app.RequestContext, resp any, err error) {
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errInvalidJSON
	}
	return nil
}

func (h Handler) writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredential):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_credential", err.Error())
	case errors.Is(err, auth.ErrUnknownCredential):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_credential", err.Error())
	case errors.Is(err, auth.ErrNoAccessibleGame):
		writeErrorBody(ctx, consts.StatusForbidden, "no_accessible_game", err.Error())
	case errors.Is(err, auth.ErrNotParticipant):
		writeErrorBody(ctx, consts.StatusForbidden, "not_a_participant", err.Error())
	case errors.Is(err, auth.ErrGameNotStarted):
		writeErrorBody(ctx, consts.StatusNotFound, "game_not_started", err.Error())
	case errors.Is(err, errInvalidJSON),
		errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, action.ErrActionFailed):
		writeErrorBody(ctx, consts.StatusInternalServerError, "action_failed", err.Error())
	default:
		if h.Logger != nil {
			h.Logger.Error("request failed", "path", string(ctx.Path()), "err", err)
		}
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
