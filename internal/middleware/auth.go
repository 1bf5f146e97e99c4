package middleware

import (
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/user"
)

type AuthMiddleware struct {
	userService *user.Service
}

func NewAuthMiddleware(userService *user.Service) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
	}
}

func (am *AuthMiddleware) RequireAuth(handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		authenticatedUser, err := am.userService.ValidateJWTFromRequest(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("Authentication failed")
			api.RespondCode(ctx, api.CodeUnauthorized)
			return
		}

		ctx.SetUserValue("user", authenticatedUser)

		handler(ctx)
	}
}
