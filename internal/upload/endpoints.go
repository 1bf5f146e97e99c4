package upload

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/user"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/validate"
)

type Endpoints struct {
	service *Service
}

func NewEndpoints(service *Service) *Endpoints {
	return &Endpoints{service: service}
}

func (e *Endpoints) OpenSession(ctx *fasthttp.RequestCtx) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}

	resp, err := e.service.OpenSession(ctx, owner.ID)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusCreated, resp)
}

func (e *Endpoints) ReceiveChunk(ctx *fasthttp.RequestCtx) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}

	sessionID, ok := ctx.UserValue("sessionID").(string)
	if !ok || !validate.IsValidIdentifier(sessionID) {
		api.RespondCode(ctx, api.CodeInvalidUUID)
		return
	}

	rawIndex, ok := ctx.UserValue("chunkIndex").(string)
	if !ok || !validate.IsValidSequenceIndex(rawIndex) {
		api.RespondCode(ctx, api.CodeInvalidChunkIndex)
		return
	}
	chunkIndex, err := strconv.Atoi(rawIndex)
	if err != nil {
		api.RespondCode(ctx, api.CodeInvalidChunkIndex)
		return
	}

	ack, err := e.service.ReceiveChunk(ctx, owner.ID, sessionID, chunkIndex, ctx.PostBody())
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, ack)
}

func (e *Endpoints) Finalize(ctx *fasthttp.RequestCtx) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}

	sessionID, ok := ctx.UserValue("sessionID").(string)
	if !ok || !validate.IsValidIdentifier(sessionID) {
		api.RespondCode(ctx, api.CodeInvalidUUID)
		return
	}

	var req FinalizeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		api.RespondCode(ctx, api.CodeInvalidInput)
		return
	}

	resp, err := e.service.Finalize(ctx, owner.ID, sessionID, req)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusCreated, resp)
}

func requireOwner(ctx *fasthttp.RequestCtx) (*user.User, bool) {
	owner, ok := ctx.UserValue("user").(*user.User)
	if !ok {
		api.RespondCode(ctx, api.CodeUnauthorized)
		return nil, false
	}
	return owner, true
}
