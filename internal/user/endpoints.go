package user

import (
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
)

type Endpoints struct {
	service *Service
}

func NewEndpoints(service *Service) *Endpoints {
	return &Endpoints{service: service}
}

func (e *Endpoints) Register(ctx *fasthttp.RequestCtx) {
	var req RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		api.RespondCode(ctx, api.CodeInvalidInput)
		return
	}

	u, err := e.service.Register(req)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusCreated, u)
}

func (e *Endpoints) Login(ctx *fasthttp.RequestCtx) {
	var req LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		api.RespondCode(ctx, api.CodeInvalidInput)
		return
	}

	resp, err := e.service.Login(req)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, resp)
}

func (e *Endpoints) Me(ctx *fasthttp.RequestCtx) {
	u, ok := ctx.UserValue("user").(*User)
	if !ok {
		api.RespondCode(ctx, api.CodeUnauthorized)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, u)
}
