package internal

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/health"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/metrics"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/middleware"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/progress"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/recording"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/share"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/upload"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/user"
)

func NewRequestHandler(
	config *Config,
	userService *user.Service,
	userEndpoints *user.Endpoints,
	jwksEndpoint *user.JWKSEndpoint,
	healthEndpoints *health.HealthEndpoints,
	uploadEndpoints *upload.Endpoints,
	recordingEndpoints *recording.Endpoints,
	shareEndpoints *share.Endpoints,
	storageEndpoints *storage.Endpoints,
	wsHandler *progress.Handler,
) fasthttp.RequestHandler {
	authMiddleware := middleware.NewAuthMiddleware(userService)
	corsMiddleware := middleware.NewCORSMiddleware(config.Server.AllowedOrigins)
	metricsHandler := metrics.Handler()

	handler := func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())

		switch {
		case path == "/auth/register":
			if string(ctx.Method()) == "POST" {
				userEndpoints.Register(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case path == "/auth/login":
			if string(ctx.Method()) == "POST" {
				userEndpoints.Login(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case path == "/auth/me":
			authMiddleware.RequireAuth(userEndpoints.Me)(ctx)

		case path == "/health":
			healthEndpoints.Health(ctx)
		case path == "/metrics":
			metricsHandler(ctx)
		case path == "/.well-known/jwks.json":
			jwksEndpoint.GetJWKS(ctx)

		case path == "/uploads/sessions":
			if string(ctx.Method()) == "POST" {
				authMiddleware.RequireAuth(uploadEndpoints.OpenSession)(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case strings.HasPrefix(path, "/uploads/sessions/") && strings.Contains(path, "/chunks/"):
			parts := strings.Split(path, "/")
			if len(parts) == 6 && parts[4] == "chunks" {
				ctx.SetUserValue("sessionID", parts[3])
				ctx.SetUserValue("chunkIndex", parts[5])
				if string(ctx.Method()) == "POST" {
					authMiddleware.RequireAuth(uploadEndpoints.ReceiveChunk)(ctx)
				} else {
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}
		case strings.HasPrefix(path, "/uploads/sessions/") && strings.HasSuffix(path, "/complete"):
			parts := strings.Split(path, "/")
			if len(parts) == 5 && parts[4] == "complete" {
				ctx.SetUserValue("sessionID", parts[3])
				if string(ctx.Method()) == "POST" {
					authMiddleware.RequireAuth(uploadEndpoints.Finalize)(ctx)
				} else {
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}

		case path == "/recordings":
			if string(ctx.Method()) == "GET" {
				authMiddleware.RequireAuth(recordingEndpoints.ListRecordings)(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case strings.HasPrefix(path, "/recordings/") && strings.Contains(path, "/shares"):
			parts := strings.Split(path, "/")
			if len(parts) == 4 && parts[3] == "shares" {
				ctx.SetUserValue("recordingID", parts[2])
				switch string(ctx.Method()) {
				case "POST":
					authMiddleware.RequireAuth(shareEndpoints.CreateShare)(ctx)
				case "GET":
					authMiddleware.RequireAuth(shareEndpoints.ListShares)(ctx)
				default:
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else if len(parts) == 5 && parts[3] == "shares" {
				ctx.SetUserValue("recordingID", parts[2])
				ctx.SetUserValue("shareID", parts[4])
				if string(ctx.Method()) == "DELETE" {
					authMiddleware.RequireAuth(shareEndpoints.RevokeShare)(ctx)
				} else {
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}
		case strings.HasPrefix(path, "/recordings/"):
			parts := strings.Split(path, "/")
			if len(parts) == 3 {
				ctx.SetUserValue("recordingID", parts[2])
				switch string(ctx.Method()) {
				case "GET":
					authMiddleware.RequireAuth(recordingEndpoints.GetRecording)(ctx)
				case "PATCH":
					authMiddleware.RequireAuth(recordingEndpoints.RenameRecording)(ctx)
				case "DELETE":
					authMiddleware.RequireAuth(recordingEndpoints.DeleteRecording)(ctx)
				default:
					ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
				}
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}

		case strings.HasPrefix(path, "/shared/"):
			parts := strings.Split(path, "/")
			if len(parts) == 3 {
				ctx.SetUserValue("token", parts[2])
				shareEndpoints.GetSharedRecording(ctx)
			} else if len(parts) == 4 && parts[3] == "video" {
				ctx.SetUserValue("token", parts[2])
				shareEndpoints.StreamSharedVideo(ctx)
			} else if len(parts) == 4 && parts[3] == "thumbnail" {
				ctx.SetUserValue("token", parts[2])
				shareEndpoints.GetSharedThumbnail(ctx)
			} else {
				ctx.Error("Not Found", fasthttp.StatusNotFound)
			}

		case strings.HasPrefix(path, "/blobs/"):
			ctx.SetUserValue("blobPath", strings.TrimPrefix(path, "/blobs/"))
			storageEndpoints.ServeBlob(ctx)

		case path == "/ws":
			wsHandler.HandleFastHTTP(ctx)

		default:
			ctx.Error("Not Found", fasthttp.StatusNotFound)
		}
	}

	return corsMiddleware.Handle(handler)
}
