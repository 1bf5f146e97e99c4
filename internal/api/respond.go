package api

import (
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type failureEnvelope struct {
	Success   bool      `json:"success"`
	ErrorCode ErrorCode `json:"errorCode"`
}

// RespondData writes the success envelope with the given status.
func RespondData(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	body, err := json.Marshal(successEnvelope{Success: true, Data: data})
	if err != nil {
		RespondCode(ctx, CodeInternal)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

// RespondError writes the failure envelope for err, logging unexpected causes.
func RespondError(ctx *fasthttp.RequestCtx, err error) {
	code := CodeOf(err)
	if code == CodeInternal {
		log.Error().Err(err).Str("path", string(ctx.Path())).Msg("Internal error")
	}
	RespondCode(ctx, code)
}

// RespondCode writes the failure envelope for an explicit code.
func RespondCode(ctx *fasthttp.RequestCtx, code ErrorCode) {
	body, _ := json.Marshal(failureEnvelope{Success: false, ErrorCode: code})

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(StatusOf(code))
	ctx.SetBody(body)
}
